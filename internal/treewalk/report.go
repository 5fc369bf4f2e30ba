package treewalk

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Report holds the outcome of a walk.
type Report struct {
	// Files is the number of files the action succeeded on.
	Files int64 `json:"file_count" yaml:"file_count"`
	// Elapsed is the wall-clock time of the walk.
	Elapsed time.Duration `json:"-" yaml:"-"`
	// ElapsedMillis mirrors Elapsed for serialized reports.
	ElapsedMillis float64 `json:"elapsed_ms" yaml:"elapsed_ms"`
	// Dirs is the number of directories popped from the queue.
	Dirs int64 `json:"dir_count" yaml:"dir_count"`
	// SequentialBatches counts directories processed on the walking goroutine.
	SequentialBatches int64 `json:"sequential_batches" yaml:"sequential_batches"`
	// ParallelBatches counts directories processed on the worker pool.
	ParallelBatches int64 `json:"parallel_batches" yaml:"parallel_batches"`
	// Threshold is the batch size that selected the parallel branch.
	Threshold int `json:"threshold" yaml:"threshold"`
	// Errors holds every contained error, in the order they were drained.
	Errors []*Error `json:"errors" yaml:"errors"`
	// Cancelled is set when the walk stopped early.
	Cancelled bool `json:"cancelled" yaml:"cancelled"`
}

// Failed returns the contained errors of kind k.
func (r *Report) Failed(k Kind) []*Error {
	var out []*Error

	for _, err := range r.Errors {
		if err.Kind == k {
			out = append(out, err)
		}
	}

	return out
}

// Err joins the contained errors, or returns nil if there were none.
func (r *Report) Err() error {
	errs := make([]error, len(r.Errors))
	for i, err := range r.Errors {
		errs[i] = err
	}

	return errors.Join(errs...)
}

// batchSink collects action errors raised by pool workers. The walking
// goroutine drains it after the batch barrier.
type batchSink struct {
	mu   sync.Mutex // Protect concurrent access
	errs []*Error
}

func (s *batchSink) add(err *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errs = append(s.errs, err)
}

func (s *batchSink) drain() []*Error {
	s.mu.Lock()
	defer s.mu.Unlock()

	errs := s.errs
	s.errs = nil

	return errs
}

// collector accumulates the report. Only files is touched by pool workers;
// every other field belongs to the walking goroutine.
type collector struct {
	files    atomic.Int64
	dirs     int64
	seq      int64
	par      int64
	errs     []*Error
	onError  func(*Error)
	start    time.Time
	canceled bool
}

func newCollector(onError func(*Error)) *collector {
	return &collector{onError: onError, start: time.Now()}
}

// record stores a contained error and forwards it to the caller's sink.
func (c *collector) record(err *Error) {
	c.errs = append(c.errs, err)

	if c.onError != nil {
		c.onError(err)
	}
}

// finalize produces the Report from the collected data.
func (c *collector) finalize(threshold int) *Report {
	elapsed := time.Since(c.start)

	return &Report{
		Files:             c.files.Load(),
		Elapsed:           elapsed,
		ElapsedMillis:     float64(elapsed.Microseconds()) / 1000,
		Dirs:              c.dirs,
		SequentialBatches: c.seq,
		ParallelBatches:   c.par,
		Threshold:         threshold,
		Errors:            c.errs,
		Cancelled:         c.canceled,
	}
}
