package treewalk_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/treewalk/internal/treewalk"
)

const memRoot = "/root"

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()

	fullPath := filepath.Join(root, rel)

	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o750))
	require.NoError(t, os.WriteFile(fullPath, data, 0o600))
}

// writeTree creates n files named f000.txt... under root/rel.
func writeTree(t *testing.T, root, rel string, n int) {
	t.Helper()

	for i := range n {
		writeFile(t, root, filepath.Join(rel, fmt.Sprintf("f%03d.txt", i)), []byte("x"))
	}
}

// memTree builds an in-memory filesystem holding the given relative files
// below memRoot.
func memTree(t *testing.T, files ...string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(memRoot, 0o755))

	for _, rel := range files {
		path := filepath.Join(memRoot, rel)

		require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fsys, path, []byte("x"), 0o644))
	}

	return fsys
}

// faultyFS fails listings of selected directories.
type faultyFS struct {
	treewalk.FileSystem

	failDirs  map[string]error
	failFiles map[string]error
}

func (f faultyFS) ListDirs(dir string) ([]string, error) {
	if err, ok := f.failDirs[dir]; ok {
		return nil, err
	}

	return f.FileSystem.ListDirs(dir)
}

func (f faultyFS) ListFiles(dir string) ([]string, error) {
	if err, ok := f.failFiles[dir]; ok {
		return nil, err
	}

	return f.FileSystem.ListFiles(dir)
}

// countingPool counts submissions to an errgroup-backed pool.
type countingPool struct {
	group     *errgroup.Group
	submitted *atomic.Int64
}

func (p countingPool) Go(fn func() error) {
	p.submitted.Add(1)
	p.group.Go(fn)
}

func (p countingPool) Wait() error {
	return p.group.Wait()
}

// countingPools returns a pool factory and the shared submission and pool
// counters.
func countingPools() (newPool func(int) treewalk.Pool, pools, submitted *atomic.Int64) {
	pools = new(atomic.Int64)
	submitted = new(atomic.Int64)

	newPool = func(limit int) treewalk.Pool {
		pools.Add(1)

		group := new(errgroup.Group)
		group.SetLimit(limit)

		return countingPool{group: group, submitted: submitted}
	}

	return newPool, pools, submitted
}

func noop(string) error { return nil }
