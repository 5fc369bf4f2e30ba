package treewalk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
)

// CensusResult holds the totals of a census.
type CensusResult struct {
	// Files is the number of regular files that pass the filters.
	Files int64 `json:"file_count" yaml:"file_count"`
	// Bytes is the cumulative size of those files.
	Bytes int64 `json:"total_bytes" yaml:"total_bytes"`
	// Dirs is the number of directories entered.
	Dirs int64 `json:"dir_count" yaml:"dir_count"`
	// Errors is the number of entries that could not be read.
	Errors int64 `json:"error_count" yaml:"error_count"`
	// Elapsed is the total time taken for the census.
	Elapsed time.Duration `json:"-" yaml:"-"`
}

// Census counts the regular files under root that Walk would hand to its
// action, using fastwalk's parallel traversal. It applies the same depth,
// exclusion and extension filters as Walk and is used to verify a walk's
// completeness or to size progress output.
//
// Symlinks are followed only when opt.FollowSymlinks is set; unlike Walk,
// fastwalk skips symlink loops. opt.FS is ignored: the census always reads
// the host filesystem.
func Census(ctx context.Context, root string, opt Options) (*CensusResult, error) {
	opt = opt.withDefaults()
	log := opt.Logger.WithName("census")

	if root == "" {
		root = "."
	}

	root = filepath.Clean(root)

	if info, err := os.Stat(root); err != nil {
		return nil, newError(KindInvalidRoot, OpStat, root, err)
	} else if !info.IsDir() {
		return nil, newError(KindInvalidRoot, OpStat, root, errNotDirectory)
	}

	flt, err := newFilter(root, opt)
	if err != nil {
		return nil, newError(KindInvalidRoot, OpOptions, root, err)
	}

	var files, bytes, dirs, errs atomic.Int64

	start := time.Now()

	conf := &fastwalk.Config{
		Follow:     opt.FollowSymlinks,
		NumWorkers: opt.Workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.V(1).Info("error accessing path", "path", path, "error", err.Error())
			errs.Add(1)

			return nil
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		// fastwalk keeps a leading "./" that Walk's joined paths never carry.
		path = filepath.Clean(path)
		depth := calculateDepth(path, root)
		typ := d.Type()

		var linked fs.FileInfo

		if typ&fs.ModeSymlink != 0 {
			if !opt.FollowSymlinks {
				return nil
			}

			linked, err = os.Stat(path)
			if err != nil {
				return nil //nolint:nilerr // Dangling links are not files
			}

			typ = linked.Mode().Type()
		}

		if typ.IsDir() {
			if path == root {
				dirs.Add(1)

				return nil
			}

			if flt.beyondDepth(depth+1) || flt.excluded(path) != nil {
				return filepath.SkipDir
			}

			dirs.Add(1)

			return nil
		}

		if !typ.IsRegular() || flt.beyondDepth(depth) || !flt.includeFile(path) {
			return nil
		}

		info := linked
		if info == nil {
			info, err = d.Info()
			if err != nil {
				errs.Add(1)

				return nil //nolint:nilerr // Intentionally skip errors during walk
			}
		}

		files.Add(1)
		bytes.Add(info.Size())

		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, newError(KindCancelled, OpWalk, root, ctx.Err())
		}

		return nil, fmt.Errorf("counting files under %q: %w", root, walkErr)
	}

	return &CensusResult{
		Files:   files.Load(),
		Bytes:   bytes.Load(),
		Dirs:    dirs.Load(),
		Errors:  errs.Load(),
		Elapsed: time.Since(start),
	}, nil
}
