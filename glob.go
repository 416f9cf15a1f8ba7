// Package globby matches glob patterns against paths, and lazily walks
// filesystems for the entries matching them, skipping any directory that
// cannot contain a match.
package globby

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
)

// WalkFunc is called by Pattern.Glob and MultiGlob for each match, or with a
// non-nil err for each problem reading the filesystem. Returning SkipAll
// stops the glob without error; returning any other error stops the glob
// with that error.
type WalkFunc func(path string, err error) error

// Glob parses the pattern (using any WithParseOptions) and returns a walker
// for it from dir.
func Glob(pattern, dir string, opts ...GlobOption) (*Walker, error) {
	cfg := newGlobConfig(opts)
	p, err := Parse(pattern, cfg.parseOpts...)
	if err != nil {
		return nil, err
	}
	return NewWalker(p, dir, opts...), nil
}

// GlobCurrentDir is Glob from the current directory.
func GlobCurrentDir(pattern string, opts ...GlobOption) (*Walker, error) {
	return Glob(pattern, ".", opts...)
}

// Glob globs for files matching the pattern, calling f for each.
func (p *Pattern) Glob(baseDir string, f WalkFunc, opts ...GlobOption) error {
	if f == nil {
		return errors.New("nil WalkFunc in arg to Glob")
	}
	w := NewWalker(p, baseDir, opts...)
	defer w.Close()

	if err := walk(context.Background(), w, f); err != nil && !errors.Is(err, SkipAll) {
		return err
	}
	return nil
}

// walk feeds everything from the walker to f, until f returns an error or
// ctx is done.
func walk(ctx context.Context, w *Walker, f WalkFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		path, err := w.Next()
		if err == io.EOF {
			return nil
		}
		if err := f(path, err); err != nil {
			return err
		}
	}
}
