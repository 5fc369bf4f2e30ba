// Package action provides the built-in per-file actions of the treewalk CLI.
//
// Every action is safe for concurrent use.
package action

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"

	"github.com/idelchi/treewalk/internal/treewalk"
)

// Names lists the actions known to ByName.
//
//nolint:gochecknoglobals // Config constant
var Names = []string{"noop", "read", "stat", "print"}

// Func is a named action with an optional byte tally.
type Func struct {
	// Name is the action's CLI name.
	Name string
	// Do is the action itself.
	Do treewalk.Action
	// Bytes returns the bytes touched so far, or nil if the action does not
	// track them.
	Bytes func() int64
}

// ByName returns the action called name. Debug logs go to log and print
// output goes to out.
func ByName(name string, log logr.Logger, out io.Writer) (Func, error) {
	switch name {
	case "noop":
		return Func{Name: name, Do: Noop}, nil
	case "read":
		r := NewReader(log)

		return Func{Name: name, Do: r.Do, Bytes: r.Bytes}, nil
	case "stat":
		s := &Stat{}

		return Func{Name: name, Do: s.Do, Bytes: s.Bytes}, nil
	case "print":
		p := NewPrinter(out)

		return Func{Name: name, Do: p.Do}, nil
	default:
		return Func{}, fmt.Errorf("unknown action %q: must be one of %v", name, Names)
	}
}

// Valid reports whether name is a known action.
func Valid(name string) bool {
	return slices.Contains(Names, name)
}

// Noop does nothing.
func Noop(string) error { return nil }

// Reader reads every file in full and logs its size.
type Reader struct {
	log   logr.Logger
	bytes atomic.Int64
}

// NewReader creates a Reader logging at V(1) to log.
func NewReader(log logr.Logger) *Reader {
	return &Reader{log: log.WithName("read")}
}

// Do reads path.
func (r *Reader) Do(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	r.bytes.Add(int64(len(data)))
	r.log.V(1).Info("read", "path", filepath.ToSlash(path), "size", humanize.IBytes(uint64(len(data))))

	return nil
}

// Bytes returns the number of bytes read so far.
func (r *Reader) Bytes() int64 {
	return r.bytes.Load()
}

// Stat stats every file and sums the sizes.
type Stat struct {
	bytes atomic.Int64
}

// Do stats path.
func (s *Stat) Do(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	s.bytes.Add(info.Size())

	return nil
}

// Bytes returns the summed size so far.
func (s *Stat) Bytes() int64 {
	return s.bytes.Load()
}

// Printer writes each path on its own line.
type Printer struct {
	mu  sync.Mutex // Serialize writes from concurrent workers
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Do prints path.
func (p *Printer) Do(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintln(p.out, filepath.ToSlash(path)); err != nil {
		return fmt.Errorf("printing path: %w", err)
	}

	return nil
}
