package globby

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// readDirBatch is how many entries a cursor reads from a directory at once.
const readDirBatch = 64

// DirEntry is one entry of a directory.
type DirEntry struct {
	Name string

	// IsDir is true for directories and for symlinks to directories.
	IsDir bool
}

// DirCursor reads the entries of one open directory.
type DirCursor interface {
	// Next returns the next entry, or io.EOF once there are none left. After
	// any other error the cursor is exhausted.
	Next() (DirEntry, error)

	// Close releases the directory.
	Close() error
}

// Filesystem is what the walker needs from a filesystem.
type Filesystem interface {
	// Resolve returns an absolute form of name without "." or ".."
	// components, failing if it does not exist.
	Resolve(name string) (string, error)

	// OpenDir opens a directory for reading.
	OpenDir(name string) (DirCursor, error)
}

// OSFilesystem returns the Filesystem of the host operating system.
func OSFilesystem() Filesystem { return osFS{} }

type osFS struct{}

// Resolve also resolves symlinks.
func (osFS) Resolve(name string) (string, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (osFS) OpenDir(name string) (DirCursor, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &osCursor{dir: name, f: f}, nil
}

type osCursor struct {
	dir     string
	f       *os.File
	buf     []fs.DirEntry
	done    bool
	pending error
}

func (c *osCursor) Next() (DirEntry, error) {
	for len(c.buf) == 0 {
		if c.pending != nil {
			err := c.pending
			c.pending = nil
			c.done = true
			return DirEntry{}, err
		}
		if c.done {
			return DirEntry{}, io.EOF
		}
		c.buf, c.pending = c.f.ReadDir(readDirBatch)
		if errors.Is(c.pending, io.EOF) {
			c.pending = nil
			c.done = true
		}
	}

	d := c.buf[0]
	c.buf = c.buf[1:]
	isDir := d.IsDir()
	if d.Type()&fs.ModeSymlink != 0 {
		// Symlinks are followed. A dangling one is not a directory.
		fi, err := os.Stat(filepath.Join(c.dir, d.Name()))
		isDir = err == nil && fi.IsDir()
	}
	return DirEntry{Name: d.Name(), IsDir: isDir}, nil
}

func (c *osCursor) Close() error { return c.f.Close() }

// AferoFilesystem adapts an afero.Fs, such as afero.NewMemMapFs(). Paths
// are resolved lexically; symlinks are followed wherever the Fs's Stat
// follows them.
func AferoFilesystem(fsys afero.Fs) Filesystem { return aferoFS{fsys: fsys} }

type aferoFS struct {
	fsys afero.Fs
}

func (a aferoFS) Resolve(name string) (string, error) {
	abs := name
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(string(filepath.Separator), abs)
	}
	abs = filepath.Clean(abs)
	if _, err := a.fsys.Stat(abs); err != nil {
		return "", err
	}
	return abs, nil
}

func (a aferoFS) OpenDir(name string) (DirCursor, error) {
	f, err := a.fsys.Open(name)
	if err != nil {
		return nil, err
	}
	return &aferoCursor{fsys: a.fsys, dir: name, f: f}, nil
}

type aferoCursor struct {
	fsys    afero.Fs
	dir     string
	f       afero.File
	buf     []os.FileInfo
	done    bool
	pending error
}

func (c *aferoCursor) Next() (DirEntry, error) {
	for len(c.buf) == 0 {
		if c.pending != nil {
			err := c.pending
			c.pending = nil
			c.done = true
			return DirEntry{}, err
		}
		if c.done {
			return DirEntry{}, io.EOF
		}
		c.buf, c.pending = c.f.Readdir(readDirBatch)
		if errors.Is(c.pending, io.EOF) || (c.pending == nil && len(c.buf) == 0) {
			c.pending = nil
			c.done = true
		}
	}

	fi := c.buf[0]
	c.buf = c.buf[1:]
	isDir := fi.IsDir()
	if fi.Mode()&os.ModeSymlink != 0 {
		st, err := c.fsys.Stat(filepath.Join(c.dir, fi.Name()))
		isDir = err == nil && st.IsDir()
	}
	return DirEntry{Name: fi.Name(), IsDir: isDir}, nil
}

func (c *aferoCursor) Close() error { return c.f.Close() }
