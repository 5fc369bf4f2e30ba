package action_test

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/treewalk/internal/action"
	"github.com/idelchi/treewalk/internal/treewalk"
)

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range action.Names {
		fn, err := action.ByName(name, logr.Discard(), &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.Equal(t, name, fn.Name)
		assert.NotNil(t, fn.Do)
		assert.True(t, action.Valid(name))
	}

	_, err := action.ByName("delete", logr.Discard(), nil)
	require.Error(t, err)
	assert.False(t, action.Valid("delete"))
}

func TestReaderAndStat_CountBytes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a"), []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b"), []byte("world!"), 0o600))

	for _, name := range []string{"read", "stat"} {
		fn, err := action.ByName(name, logr.Discard(), nil)
		require.NoError(t, err)

		report, err := treewalk.Walk(t.Context(), root, fn.Do, treewalk.Options{Threshold: 1})
		require.NoError(t, err)

		assert.Equal(t, int64(2), report.Files, name)
		require.NotNil(t, fn.Bytes)
		assert.Equal(t, int64(11), fn.Bytes(), name)
	}
}

func TestReader_FailsOnMissingFile(t *testing.T) {
	t.Parallel()

	r := action.NewReader(logr.Discard())

	err := r.Do(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, r.Bytes())
}

func TestPrinter_WritesEveryPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"x", "y", "z"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o600))
	}

	var buf bytes.Buffer

	p := action.NewPrinter(&buf)

	_, err := treewalk.Walk(t.Context(), root, p.Do, treewalk.Options{Threshold: 1})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	sort.Strings(lines)

	assert.Equal(t, []string{
		filepath.ToSlash(filepath.Join(root, "x")),
		filepath.ToSlash(filepath.Join(root, "y")),
		filepath.ToSlash(filepath.Join(root, "z")),
	}, lines)
}
