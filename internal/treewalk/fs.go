package treewalk

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem lists directories for the walker.
//
// Each listing returns an error distinguishable from an empty result, so the
// walker can contain a failing subdirectory listing without losing the files
// of the same directory (and vice versa).
type FileSystem interface {
	// Stat returns information about path, following symlinks.
	Stat(path string) (fs.FileInfo, error)
	// ListDirs returns the full paths of the subdirectories of dir.
	ListDirs(dir string) ([]string, error)
	// ListFiles returns the full paths of the regular files in dir.
	ListFiles(dir string) ([]string, error)
}

// OSFS is a FileSystem over the host filesystem.
type OSFS struct {
	// Follow resolves symlinks: links to directories are listed as
	// subdirectories and links to regular files as files.
	Follow bool
}

// Stat implements FileSystem.
func (o OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ListDirs implements FileSystem.
func (o OSFS) ListDirs(dir string) ([]string, error) {
	return o.list(dir, true)
}

// ListFiles implements FileSystem.
func (o OSFS) ListFiles(dir string) ([]string, error) {
	return o.list(dir, false)
}

func (o OSFS) list(dir string, dirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))

	//nolint:varnamelen // e is standard for DirEntry
	for _, e := range entries {
		typ := e.Type()
		path := filepath.Join(dir, e.Name())

		if typ&fs.ModeSymlink != 0 {
			if !o.Follow {
				continue
			}

			info, err := os.Stat(path)
			if err != nil {
				// Dangling link: nothing to walk or process.
				continue
			}

			typ = info.Mode().Type()
		}

		if (dirs && typ.IsDir()) || (!dirs && typ.IsRegular()) {
			paths = append(paths, path)
		}
	}

	return paths, nil
}

// AferoFS is a FileSystem over an afero.Fs.
//
// afero.Fs does not expose symlink-aware listing uniformly, so entries are
// classified by the FileInfo returned from ReadDir.
type AferoFS struct {
	fs afero.Fs
}

// NewAferoFS wraps fsys as a FileSystem.
func NewAferoFS(fsys afero.Fs) AferoFS {
	return AferoFS{fs: fsys}
}

// Stat implements FileSystem.
func (a AferoFS) Stat(path string) (fs.FileInfo, error) {
	return a.fs.Stat(path)
}

// ListDirs implements FileSystem.
func (a AferoFS) ListDirs(dir string) ([]string, error) {
	return a.list(dir, true)
}

// ListFiles implements FileSystem.
func (a AferoFS) ListFiles(dir string) ([]string, error) {
	return a.list(dir, false)
}

func (a AferoFS) list(dir string, dirs bool) ([]string, error) {
	infos, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(infos))

	for _, info := range infos {
		mode := info.Mode()
		if (dirs && mode.IsDir()) || (!dirs && mode.IsRegular()) {
			paths = append(paths, filepath.Join(dir, info.Name()))
		}
	}

	return paths, nil
}
