package treewalk

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// filter holds the compiled path filters shared by Walk and Census.
type filter struct {
	root     string
	depth    int
	excludes []*regexp.Regexp
	include  map[string]struct{}
	exclude  map[string]struct{}
}

// newFilter compiles the exclusion patterns and extension sets.
func newFilter(root string, opt Options) (*filter, error) {
	flt := &filter{
		root:     root,
		depth:    opt.Depth,
		excludes: make([]*regexp.Regexp, 0, len(opt.Excludes)),
		include:  make(map[string]struct{}, len(opt.Extensions)),
		exclude:  make(map[string]struct{}, len(opt.Extensions)),
	}

	for _, p := range opt.Excludes {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compiling exclusion pattern %q: %w", p, err)
		}

		flt.excludes = append(flt.excludes, re)
	}

	for _, e := range opt.Extensions { //nolint:varnamelen // e is standard for element in range
		e = strings.Trim(e, "'\"")

		if strings.HasPrefix(e, "!") {
			flt.exclude[strings.TrimPrefix(e, "!")] = struct{}{}
		} else {
			flt.include[e] = struct{}{}
		}
	}

	return flt, nil
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// excluded returns the first exclusion regex matching path, or nil.
func (f *filter) excluded(path string) *regexp.Regexp {
	if len(f.excludes) == 0 {
		return nil
	}

	fPath := filepath.ToSlash(path)

	for _, re := range f.excludes {
		if re.MatchString(fPath) {
			return re
		}
	}

	return nil
}

// beyondDepth reports whether an entry at depth lies past the depth limit.
func (f *filter) beyondDepth(depth int) bool {
	return f.depth > 0 && depth > f.depth
}

// includeExt checks if a file should be included based on extension filters.
func (f *filter) includeExt(path string) bool {
	for ext := range f.exclude {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for ext := range f.include {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// includeFile applies the exclusion patterns and extension filters to a file.
func (f *filter) includeFile(path string) bool {
	return f.excluded(path) == nil && f.includeExt(path)
}
