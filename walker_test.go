package globby

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTree creates the files (and directories, if ending in /) in a new
// in-memory filesystem.
func memTree(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, p := range paths {
		name := filepath.FromSlash(p)
		if strings.HasSuffix(p, "/") {
			require.NoError(t, fsys.MkdirAll(name, 0o755))
			continue
		}
		require.NoError(t, fsys.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, afero.WriteFile(fsys, name, []byte(p), 0o644))
	}
	return fsys
}

// collect drains the walker, returning matches with forward slashes.
func collect(t *testing.T, w *Walker) (paths []string, errs []error) {
	t.Helper()
	for path, err := range w.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, filepath.ToSlash(path))
	}
	return paths, errs
}

func walkMem(t *testing.T, fsys afero.Fs, pattern, base string, opts ...GlobOption) []string {
	t.Helper()
	opts = append(opts, WithFilesystem(AferoFilesystem(fsys)))
	w, err := Glob(pattern, filepath.FromSlash(base), opts...)
	require.NoError(t, err)
	got, errs := collect(t, w)
	require.Empty(t, errs)
	return got
}

// recordingFS records which directories were opened, and how many cursors
// are still open.
type recordingFS struct {
	Filesystem
	opened  []string
	open    int
	failFor map[string]error
}

func (r *recordingFS) OpenDir(name string) (DirCursor, error) {
	name = filepath.ToSlash(name)
	r.opened = append(r.opened, name)
	if err := r.failFor[name]; err != nil {
		return nil, err
	}
	c, err := r.Filesystem.OpenDir(filepath.FromSlash(name))
	if err != nil {
		return nil, err
	}
	r.open++
	return &recordingCursor{DirCursor: c, fs: r}, nil
}

type recordingCursor struct {
	DirCursor
	fs     *recordingFS
	closed bool
}

func (c *recordingCursor) Close() error {
	if !c.closed {
		c.closed = true
		c.fs.open--
	}
	return c.DirCursor.Close()
}

func TestWalker_DoubleStar(t *testing.T) {
	fsys := memTree(t,
		"/work/file.txt",
		"/work/dir/nested.txt",
		"/work/dir/skip.log",
	)

	got := walkMem(t, fsys, "**/*.txt", "/work")
	assert.ElementsMatch(t, got, []string{"file.txt", "dir/nested.txt"})
}

func TestWalker_ParentDir(t *testing.T) {
	fsys := memTree(t,
		"/x/y/inner.txt",
		"/x/a.txt",
		"/x/b/",
	)

	got := walkMem(t, fsys, "../*", "/x/y")
	assert.ElementsMatch(t, got, []string{"../a.txt", "../b"})

	// The base directory is left out, but not what is inside it.
	got = walkMem(t, fsys, "../**", "/x/y")
	assert.ElementsMatch(t, got, []string{"../a.txt", "../b", "../y/inner.txt"})

	got = walkMem(t, fsys, "../../x/*.txt", "/x/y")
	assert.ElementsMatch(t, got, []string{"../../x/a.txt"})

	// Leading "./" segments are dropped before and between "..".
	got = walkMem(t, fsys, "./../*", "/x/y")
	assert.ElementsMatch(t, got, []string{"../a.txt", "../b"})

	got = walkMem(t, fsys, ".././../x/*.txt", "/x/y")
	assert.ElementsMatch(t, got, []string{"../../x/a.txt"})
}

func TestWalker_Prunes(t *testing.T) {
	fsys := memTree(t,
		"/w/a/b/c",
		"/w/a/b/d/e",
		"/w/a/x/c",
		"/w/a/y/z/",
		"/w/other/c",
	)
	rec := &recordingFS{Filesystem: AferoFilesystem(fsys)}

	w := NewWalker(MustParse("a/*/c"), "/w", WithFilesystem(rec))
	got, errs := collect(t, w)
	require.Empty(t, errs)

	assert.ElementsMatch(t, got, []string{"a/b/c", "a/x/c"})
	assert.ElementsMatch(t, rec.opened, []string{"/w/a", "/w/a/b", "/w/a/x", "/w/a/y"})
	assert.Zero(t, rec.open, "directories left open")
}

func TestWalker_MatchedDirectories(t *testing.T) {
	fsys := memTree(t,
		"/w/a/b/c/d",
		"/w/a/e",
	)

	// Without a wildcard, matching directories are leaves.
	rec := &recordingFS{Filesystem: AferoFilesystem(fsys)}
	got, errs := collect(t, NewWalker(MustParse("a/*"), "/w", WithFilesystem(rec)))
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, []string{"a/b", "a/e"})
	if diff := cmp.Diff(rec.opened, []string{"/w/a"}); diff != "" {
		t.Errorf("opened directories diff (-got +want):\n%s", diff)
	}

	// With one, they are descended into, and come before their contents.
	got = walkMem(t, fsys, "a/**", "/w")
	assert.ElementsMatch(t, got, []string{"a/b", "a/b/c", "a/b/c/d", "a/e"})
	for _, pair := range [][2]string{{"a/b", "a/b/c"}, {"a/b/c", "a/b/c/d"}} {
		if slices.Index(got, pair[0]) > slices.Index(got, pair[1]) {
			t.Errorf("%q was yielded after %q", pair[0], pair[1])
		}
	}
}

func TestWalker_Literal(t *testing.T) {
	fsys := memTree(t,
		"/w/a/b/c",
		"/w/a/b/cc",
	)

	got := walkMem(t, fsys, "a/b/c", "/w")
	if diff := cmp.Diff(got, []string{"a/b/c"}); diff != "" {
		t.Errorf("walked paths diff (-got +want):\n%s", diff)
	}

	got = walkMem(t, fsys, "a/b/nope", "/w")
	assert.Empty(t, got)
}

func TestWalker_Absolute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("absolute pattern is POSIX-rooted")
	}
	fsys := memTree(t,
		"/w/a/b",
		"/w/a/c.txt",
		"/w/d.txt",
	)

	got := walkMem(t, fsys, "/w/a/*", "/elsewhere/ignored/")
	assert.Empty(t, got, "base directory must exist")

	got = walkMem(t, fsys, "/w/a/*", "/")
	assert.ElementsMatch(t, got, []string{"/w/a/b", "/w/a/c.txt"})

	got = walkMem(t, fsys, "/**/*.txt", "/w")
	assert.ElementsMatch(t, got, []string{"/w/a/c.txt", "/w/d.txt"})

	// The base directory is left out of absolute matches too.
	fsys = memTree(t,
		"/x/y/inner.txt",
		"/x/a.txt",
	)
	got = walkMem(t, fsys, "/x/*", "/x/y")
	assert.ElementsMatch(t, got, []string{"/x/a.txt"})

	got = walkMem(t, fsys, "/x/**", "/x/y")
	assert.ElementsMatch(t, got, []string{"/x/a.txt", "/x/y/inner.txt"})
}

func TestWalker_CaseInsensitive(t *testing.T) {
	fsys := memTree(t,
		"/w/Notes.TXT",
		"/w/other.md",
	)

	got := walkMem(t, fsys, "*.txt", "/w")
	assert.Empty(t, got)

	got = walkMem(t, fsys, "*.txt", "/w", WithParseOptions(CaseInsensitive(true)))
	assert.ElementsMatch(t, got, []string{"Notes.TXT"})
}

func TestWalker_Invalid(t *testing.T) {
	fsys := memTree(t, "/w/a/b")

	tests := []struct {
		pattern, base string
	}{
		{"*", "/missing"},
		{"nope/*", "/w"},
		{"a/b/c/*", "/w"},
	}

	for _, test := range tests {
		rec := &recordingFS{Filesystem: AferoFilesystem(fsys)}
		w := NewWalker(MustParse(test.pattern), test.base, WithFilesystem(rec))
		if w.Valid() {
			t.Errorf("NewWalker(%q, %q).Valid() = true, want false", test.pattern, test.base)
		}
		got, errs := collect(t, w)
		assert.Empty(t, got)
		assert.Empty(t, errs)
		assert.Empty(t, rec.opened)
	}

	w := NewWalker(MustParse("a/*"), "/w", WithFilesystem(AferoFilesystem(fsys)))
	assert.True(t, w.Valid())
}

func TestWalker_ReadErrors(t *testing.T) {
	fsys := memTree(t,
		"/w/a/x.txt",
		"/w/b/x.txt",
	)
	rec := &recordingFS{
		Filesystem: AferoFilesystem(fsys),
		failFor:    map[string]error{"/w/a": fs.ErrPermission},
	}

	got, errs := collect(t, NewWalker(MustParse("*/x.txt"), "/w", WithFilesystem(rec)))
	assert.ElementsMatch(t, got, []string{"b/x.txt"})
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], fs.ErrPermission)
	assert.Contains(t, errs[0].Error(), "open directory")
}

// failingCursor returns one entry, then an error.
type failingCursor struct {
	n int
}

func (c *failingCursor) Next() (DirEntry, error) {
	c.n++
	switch c.n {
	case 1:
		return DirEntry{Name: "a.txt"}, nil
	case 2:
		return DirEntry{}, errors.New("disk on fire")
	}
	return DirEntry{}, io.EOF
}

func (c *failingCursor) Close() error { return nil }

type failingFS struct{}

func (failingFS) Resolve(name string) (string, error)    { return filepath.Join(string(filepath.Separator), name), nil }
func (failingFS) OpenDir(name string) (DirCursor, error) { return &failingCursor{}, nil }

func TestWalker_EntryErrors(t *testing.T) {
	w := NewWalker(MustParse("*.txt"), "/w", WithFilesystem(failingFS{}))

	path, err := w.Next()
	require.NoError(t, err)
	assert.Equal(t, "a.txt", path)

	_, err = w.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Contains(t, err.Error(), "read directory")

	// The walk continues after the error, here to the end.
	_, err = w.Next()
	assert.Equal(t, io.EOF, err)
}

func TestWalker_CloseEarly(t *testing.T) {
	fsys := memTree(t,
		"/w/a/b/c/d.txt",
		"/w/a/b/c/e.txt",
	)
	rec := &recordingFS{Filesystem: AferoFilesystem(fsys)}
	w := NewWalker(MustParse("**/*.txt"), "/w", WithFilesystem(rec))

	for path, err := range w.All() {
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".txt"))
		break
	}
	assert.Zero(t, rec.open, "directories left open after break")

	_, err := w.Next()
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, w.Close())
}

func TestWalker_TraceLogs(t *testing.T) {
	fsys := memTree(t, "/w/a/b.txt", "/w/c/")

	var buf bytes.Buffer
	got := walkMem(t, fsys, "a/*.txt", "/w", WithTraceLogs(&buf))
	assert.ElementsMatch(t, got, []string{"a/b.txt"})

	logs := buf.String()
	assert.Contains(t, logs, "starting walk")
	assert.Contains(t, logs, "entered directory")
	assert.Contains(t, logs, "globby")
}

func TestWalker_OS(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"file.txt",
		"dir/nested.txt",
		"dir/skip.log",
		"dir/deeper/more.txt",
	}
	for _, f := range files {
		name := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(name), 0o755))
		require.NoError(t, os.WriteFile(name, nil, 0o644))
	}

	w, err := Glob("**/*.txt", dir)
	require.NoError(t, err)
	got, errs := collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, []string{"file.txt", "dir/nested.txt", "dir/deeper/more.txt"})

	w, err = Glob("../*", filepath.Join(dir, "dir"))
	require.NoError(t, err)
	got, errs = collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, []string{"../file.txt"})
}

func TestWalker_OSSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "real"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real", "f.txt"), nil, 0o644))
	require.NoError(t, os.Symlink("real", filepath.Join(dir, "link")))
	require.NoError(t, os.Symlink("missing", filepath.Join(dir, "dangling")))

	w, err := Glob("*/f.txt", dir)
	require.NoError(t, err)
	got, errs := collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, []string{"real/f.txt", "link/f.txt"})

	w, err = Glob("*", dir)
	require.NoError(t, err)
	got, errs = collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, []string{"real", "link", "dangling"})

	// Walking from a symlinked base directory.
	w, err = Glob("*.txt", filepath.Join(dir, "link"))
	require.NoError(t, err)
	got, errs = collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, []string{"f.txt"})
}

func TestWalker_OSManyEntries(t *testing.T) {
	dir := t.TempDir()
	const n = 3*readDirBatch + 5
	var want []string
	for i := range n {
		name := fmt.Sprintf("f%03d", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		want = append(want, name)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), nil, 0o644))

	w, err := Glob("f*", dir)
	require.NoError(t, err)
	got, errs := collect(t, w)
	require.Empty(t, errs)
	assert.ElementsMatch(t, got, want)
}
