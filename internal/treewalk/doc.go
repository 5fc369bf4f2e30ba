// Package treewalk walks a directory tree and applies an action to every
// regular file it finds.
//
// A single driver goroutine owns a LIFO queue of pending directories. For each
// popped directory it lists subdirectories and files independently, then runs
// the action over the file batch either sequentially (fewer files than
// [Options.Threshold]) or across a bounded worker pool, waiting for the whole
// batch before pushing the subdirectories. Only one batch is in flight at a
// time.
//
// Errors listing a directory or running the action are contained: they are
// logged, handed to [Options.OnError] and collected in [Report.Errors], and the
// walk continues. Only an invalid root (or invalid options) and cancellation
// are returned as errors from [Walk].
//
// Symlink cycles are not detected when [Options.FollowSymlinks] is set.
package treewalk
