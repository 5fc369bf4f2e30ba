package treewalk

import (
	"runtime"
	"time"

	"github.com/go-logr/logr"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Action is applied to every regular file. It may be called from several
// goroutines at once whenever a directory holds at least Threshold files.
type Action func(path string) error

// Options configures a walk. The zero value is usable.
type Options struct {
	// Threshold is the batch size at which a directory's files are processed
	// in parallel instead of sequentially (<= 0 = runtime.NumCPU()).
	Threshold int
	// Workers bounds the number of concurrent action calls in a parallel
	// batch (<= 0 = runtime.NumCPU()).
	Workers int
	// Excludes contains regex patterns to exclude, matched on slash paths.
	Excludes []string
	// Extensions to include (empty = all). A '!' prefix excludes.
	Extensions []string
	// Depth is the maximum traversal depth (0=unlimited).
	Depth int
	// FollowSymlinks resolves symlinks when FS is nil. Cycles are not detected.
	FollowSymlinks bool
	// FS lists directories (nil = OSFS).
	FS FileSystem
	// NewPool creates the worker pool for a parallel batch (nil = errgroup).
	NewPool func(limit int) Pool
	// OnError receives contained errors. It is only called from the walking
	// goroutine.
	OnError func(err *Error)
	// Progress is called with the running file count every ProgressInterval.
	Progress func(files int64)
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives debug and error logs (zero value discards).
	Logger logr.Logger
}

// withDefaults fills in unset fields.
func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = runtime.NumCPU()
	}

	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}

	if o.FS == nil {
		o.FS = OSFS{Follow: o.FollowSymlinks}
	}

	if o.NewPool == nil {
		o.NewPool = newGroupPool
	}

	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}

	if o.Logger.GetSink() == nil {
		o.Logger = logr.Discard()
	}

	return o
}
