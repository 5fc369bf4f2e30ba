package treewalk

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
)

var (
	errNotDirectory = errors.New("not a directory")
	errNilAction    = errors.New("nil action")
)

// dirItem is a queued directory and its depth below the root.
type dirItem struct {
	path  string
	depth int
}

// walker holds the state of one Walk call.
type walker struct {
	opt    Options
	action Action
	filter *filter
	col    *collector
	log    logr.Logger
}

// startProgressReporter invokes hook(files) on each tick until the returned
// stop function is called. stop waits for the reporter goroutine to exit.
func startProgressReporter(files *atomic.Int64, hook func(int64), interval time.Duration) (stop func()) {
	if hook == nil {
		return func() {}
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(files.Load())
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		wg.Wait()
	}
}

// Walk applies action to every regular file under root.
//
// Directories are popped from a LIFO queue by the calling goroutine. A
// directory's files are processed sequentially when there are fewer than
// opt.Threshold of them, and otherwise across a pool of at most opt.Workers
// goroutines; the whole batch finishes before the next directory is popped.
//
// Walk returns an error of kind KindInvalidRoot if root is not an existing
// directory or opt is invalid. Listing and action failures are contained and
// reported in Report.Errors. If ctx is cancelled, Walk returns the partial
// report with Cancelled set, along with an error of kind KindCancelled.
func Walk(ctx context.Context, root string, action Action, opt Options) (*Report, error) {
	opt = opt.withDefaults()

	if root == "" {
		root = "."
	}

	root = filepath.Clean(root)

	if action == nil {
		return nil, newError(KindInvalidRoot, OpOptions, root, errNilAction)
	}

	// validate path exists and is a directory
	if info, err := opt.FS.Stat(root); err != nil {
		return nil, newError(KindInvalidRoot, OpStat, root, err)
	} else if !info.IsDir() {
		return nil, newError(KindInvalidRoot, OpStat, root, errNotDirectory)
	}

	flt, err := newFilter(root, opt)
	if err != nil {
		return nil, newError(KindInvalidRoot, OpOptions, root, err)
	}

	w := &walker{
		opt:    opt,
		action: action,
		filter: flt,
		col:    newCollector(opt.OnError),
		log:    opt.Logger.WithName("treewalk"),
	}

	stop := startProgressReporter(&w.col.files, opt.Progress, opt.ProgressInterval)
	defer stop()

	w.log.V(1).Info("walk started", "root", root, "threshold", opt.Threshold, "workers", opt.Workers)

	return w.run(ctx, root)
}

func (w *walker) run(ctx context.Context, root string) (*Report, error) {
	queue := []dirItem{{path: root}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return w.cancelled(err)
		}

		dir := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		w.col.dirs++

		subdirs := w.listDirs(dir)
		files := w.listFiles(dir)

		if err := w.dispatch(ctx, dir.path, files); err != nil {
			return w.cancelled(err)
		}

		queue = append(queue, subdirs...)
	}

	report := w.col.finalize(w.opt.Threshold)

	w.log.V(1).Info("walk finished", "files", report.Files, "dirs", report.Dirs,
		"errors", len(report.Errors), "elapsed", report.Elapsed)

	return report, nil
}

// listDirs returns the subdirectories of dir that are still worth visiting.
// A listing failure is recorded and yields no subdirectories.
func (w *walker) listDirs(dir dirItem) []dirItem {
	depth := dir.depth + 1

	// A subdirectory at depth holds files at depth+1.
	if w.filter.beyondDepth(depth + 1) {
		return nil
	}

	paths, err := w.opt.FS.ListDirs(dir.path)
	if err != nil {
		w.fail(newError(KindDirectoryUnreadable, OpListDirs, dir.path, err))

		return nil
	}

	items := make([]dirItem, 0, len(paths))

	for _, path := range paths {
		if re := w.filter.excluded(path); re != nil {
			w.log.V(1).Info("excluding directory", "path", filepath.ToSlash(path), "regex", re.String())

			continue
		}

		items = append(items, dirItem{path: path, depth: depth})
	}

	return items
}

// listFiles returns the files of dir that pass the filters. A listing
// failure is recorded and yields no files.
func (w *walker) listFiles(dir dirItem) []string {
	if w.filter.beyondDepth(dir.depth + 1) {
		return nil
	}

	paths, err := w.opt.FS.ListFiles(dir.path)
	if err != nil {
		w.fail(newError(KindDirectoryUnreadable, OpListFiles, dir.path, err))

		return nil
	}

	files := paths[:0]

	for _, path := range paths {
		if !w.filter.includeFile(path) {
			w.log.V(2).Info("excluding file", "path", filepath.ToSlash(path))

			continue
		}

		files = append(files, path)
	}

	return files
}

// dispatch runs the action over one directory's files, sequentially below
// the threshold and on the worker pool at or above it.
func (w *walker) dispatch(ctx context.Context, dir string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(files) < w.opt.Threshold {
		w.col.seq++

		w.log.V(2).Info("sequential batch", "dir", dir, "files", len(files))

		return w.sequential(ctx, files)
	}

	w.col.par++

	w.log.V(1).Info("parallel batch", "dir", dir, "files", len(files))

	return w.parallel(ctx, files)
}

func (w *walker) sequential(ctx context.Context, files []string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.invoke(file, w.fail)
	}

	return nil
}

// parallel submits every file to a fresh pool and waits for all of them.
// Action errors are collected in a batch sink and recorded after the barrier
// so that only the walking goroutine touches the report.
func (w *walker) parallel(ctx context.Context, files []string) error {
	pool := w.opt.NewPool(min(w.opt.Workers, len(files)))

	var (
		sink batchSink
		err  error
	)

	for _, file := range files {
		if err = ctx.Err(); err != nil {
			break
		}

		pool.Go(func() error {
			w.invoke(file, sink.add)

			return nil
		})
	}

	// Submitted functions never fail; a Pool from Options.NewPool might.
	if werr := pool.Wait(); werr != nil {
		w.log.Error(werr, "worker pool failed", "files", len(files))
	}

	for _, e := range sink.drain() {
		w.fail(e)
	}

	return err
}

// invoke runs the action on one file and counts it on success.
func (w *walker) invoke(file string, report func(*Error)) {
	if err := w.action(file); err != nil {
		report(newError(KindActionFailed, OpAction, file, err))

		return
	}

	w.col.files.Add(1)
}

// fail logs and records a contained error.
func (w *walker) fail(err *Error) {
	w.log.Error(err.Err, err.Kind.String(), "op", err.Op, "path", filepath.ToSlash(err.Path))
	w.col.record(err)
}

func (w *walker) cancelled(cause error) (*Report, error) {
	w.col.canceled = true
	report := w.col.finalize(w.opt.Threshold)

	w.log.Info("walk cancelled", "files", report.Files, "dirs", report.Dirs)

	return report, newError(KindCancelled, OpWalk, "", cause)
}
