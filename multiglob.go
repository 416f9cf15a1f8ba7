package globby

import (
	"context"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// MultiGlob is like [Pattern.Glob], but globs multiple patterns
// simultaneously, each with its own Walker. Paths matched by more than one
// pattern are reported once per pattern.
//
// You should either make sure that the callback f is safe to call
// concurrently from multiple goroutines, or set GoroutineLimit to 1.
//
// The first error returned by f (other than SkipAll) cancels the remaining
// walks and is returned. SkipAll cancels the remaining walks, and MultiGlob
// returns nil.
func MultiGlob(ctx context.Context, patterns []*Pattern, baseDir string, f WalkFunc, opts ...GlobOption) error {
	if f == nil {
		return errors.New("nil WalkFunc in arg to MultiGlob")
	}

	cfg := newGlobConfig(opts)
	g, gctx := errgroup.WithContext(ctx)
	if cfg.goroutines > 0 {
		g.SetLimit(cfg.goroutines)
	}

	for _, p := range patterns {
		g.Go(func() error {
			w := NewWalker(p, baseDir, opts...)
			defer w.Close()
			return walk(gctx, w, f)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, SkipAll) {
		return err
	}
	return nil
}
