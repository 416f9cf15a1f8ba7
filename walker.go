package globby

import (
	"io"
	"iter"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Walker lazily finds the filesystem entries matching a pattern. It only
// reads the directories that could contain a match, one step per call to
// Next.
//
// Matches are relative to the base directory, unless the pattern is
// absolute. Leading ".." components are kept, so "../*" yields paths like
// "../sibling". The base directory itself is never yielded.
//
// Siblings are produced in no particular order, but a matching directory is
// always produced before anything inside it.
//
// A Walker is not safe for concurrent use.
type Walker struct {
	pattern *Pattern
	fsys    Filesystem
	log     *log.Logger

	valid bool

	// base is the resolved base directory, which is never yielded.
	base string

	// stack holds the open directories, innermost last.
	stack []*dirFrame

	// pending is the directory to open on the next step, if any.
	pending *dirFrame
}

// dirFrame is a directory being (or about to be) read.
type dirFrame struct {
	// dir is the path used to read the directory.
	dir string

	// display is the path reported for the directory's entries.
	display string

	// path is display in the form the matcher needs.
	path NormalizedPath

	cursor DirCursor
}

// child describes an entry of the directory. Entry names are not split, so
// a name containing \ stays a single component.
func (f *dirFrame) child(name string) *dirFrame {
	return &dirFrame{
		dir:     filepath.Join(f.dir, name),
		display: filepath.Join(f.display, name),
		path: NormalizedPath{
			Prefix:     f.path.Prefix,
			Components: append(slices.Clip(f.path.Components), name),
		},
	}
}

// NewWalker creates a walker for the pattern, resolving relative patterns
// from baseDir. If the walk cannot start (baseDir or the pattern's common
// root directory doesn't exist, for example) the walker is not Valid, and
// yields nothing.
func NewWalker(p *Pattern, baseDir string, opts ...GlobOption) *Walker {
	cfg := newGlobConfig(opts)
	w := &Walker{
		pattern: p,
		fsys:    cfg.filesystem,
		log:     cfg.logger,
	}

	base, err := w.fsys.Resolve(baseDir)
	if err != nil {
		w.trace("base directory not resolvable, nothing to walk", "base", baseDir, "err", err)
		return w
	}
	w.base = base

	root := w.relativeRoot()
	if p.IsAbsolute() {
		if root, err = w.absoluteRoot(); err != nil {
			w.trace("walk root not usable, nothing to walk", "pattern", p.source, "root", p.root, "err", err)
			return w
		}
	}
	if _, err := w.fsys.Resolve(root.dir); err != nil {
		w.trace("walk root not resolvable, nothing to walk", "pattern", p.source, "root", root.dir, "err", err)
		return w
	}

	w.trace("starting walk", "pattern", p.source, "base", base, "from", root.dir, "prefix", root.display)
	w.pending = root
	w.valid = true
	return w
}

// absoluteRoot starts at the pattern's own root, and reports absolute
// paths.
func (w *Walker) absoluteRoot() (*dirFrame, error) {
	np, err := NormalizePath(w.pattern.root)
	if err != nil {
		return nil, err
	}
	return &dirFrame{
		dir:     w.pattern.root,
		display: w.pattern.root,
		path:    np,
	}, nil
}

// relativeRoot starts at the pattern's root within the base directory, and
// reports paths relative to the base directory. The root is kept as written
// rather than made relative to the base, so that "../../x/*" from /x/y
// yields "../../x/a" and not "../a".
func (w *Walker) relativeRoot() *dirFrame {
	prefix := filepath.Clean(w.pattern.root)
	if prefix == "." {
		prefix = ""
	}
	return &dirFrame{
		dir:     filepath.Join(w.base, prefix),
		display: prefix,
		path:    NormalizedPath{Components: splitComponents(prefix)},
	}
}

// Valid reports whether the walk could start. An invalid walker is empty.
func (w *Walker) Valid() bool { return w.valid }

// Next returns the next matching path. A non-nil error other than io.EOF
// is a problem reading part of the tree; the walk can continue after it.
// io.EOF means the walk is complete.
func (w *Walker) Next() (string, error) {
	for {
		if f := w.pending; f != nil {
			w.pending = nil
			c, err := w.fsys.OpenDir(f.dir)
			if err != nil {
				w.trace("couldn't open directory", "dir", f.dir, "err", err)
				return "", errors.Wrapf(err, "open directory %q", f.dir)
			}
			f.cursor = c
			w.stack = append(w.stack, f)
			w.trace("entered directory", "dir", f.dir, "depth", len(w.stack))
			continue
		}

		if len(w.stack) == 0 {
			return "", io.EOF
		}
		top := w.stack[len(w.stack)-1]

		ent, err := top.cursor.Next()
		if errors.Is(err, io.EOF) {
			w.pop()
			continue
		}
		if err != nil {
			return "", errors.Wrapf(err, "read directory %q", top.dir)
		}

		entry := top.child(ent.Name)
		switch res := w.pattern.MatchNormalized(entry.path); res {
		case Matched:
			if ent.IsDir && w.pattern.hasWildcard {
				w.pending = entry
			}
			if entry.dir == w.base {
				w.trace("not yielding the base directory", "path", entry.display)
				continue
			}
			return entry.display, nil

		case Starved:
			if ent.IsDir {
				w.pending = entry
			}

		default:
			if ent.IsDir {
				w.trace("pruned directory", "path", entry.display, "result", res)
			}
		}
	}
}

// pop closes the innermost directory.
func (w *Walker) pop() {
	top := w.stack[len(w.stack)-1]
	w.stack[len(w.stack)-1] = nil
	w.stack = w.stack[:len(w.stack)-1]
	if err := top.cursor.Close(); err != nil {
		w.trace("couldn't close directory", "dir", top.dir, "err", err)
	}
	w.trace("left directory", "dir", top.dir, "depth", len(w.stack))
}

// All returns an iterator over the remaining matches and errors. The walker
// is closed when the loop ends, including by break.
func (w *Walker) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer w.Close()
		for {
			path, err := w.Next()
			if err == io.EOF {
				return
			}
			if !yield(path, err) {
				return
			}
		}
	}
}

// Close stops the walk, closing any open directories. After Close, Next
// returns io.EOF. Close can be called more than once.
func (w *Walker) Close() error {
	w.pending = nil
	var errs error
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		errs = errors.CombineErrors(errs, top.cursor.Close())
	}
	return errs
}

func (w *Walker) trace(msg string, keyvals ...any) {
	if w.log == nil {
		return
	}
	w.log.Debug(msg, keyvals...)
}
