package globby

import (
	"io"

	"github.com/charmbracelet/log"
)

// GlobOption functions optionally alter how Glob operates.
type GlobOption = func(*globConfig)

type globConfig struct {
	filesystem Filesystem
	logger     *log.Logger
	parseOpts  []ParseOption
	goroutines int
}

func newGlobConfig(opts []GlobOption) *globConfig {
	cfg := &globConfig{
		filesystem: OSFilesystem(),
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		o(cfg)
	}
	return cfg
}

// WithFilesystem allows overriding the default filesystem (OSFilesystem()).
func WithFilesystem(fsys Filesystem) GlobOption {
	return func(cfg *globConfig) {
		cfg.filesystem = fsys
	}
}

// WithTraceLogs logs debugging information for debugging Glob itself to the
// provided writer. Disabled by default.
func WithTraceLogs(out io.Writer) GlobOption {
	return func(cfg *globConfig) {
		if out == nil {
			cfg.logger = nil
			return
		}
		cfg.logger = log.NewWithOptions(out, log.Options{
			Level:  log.DebugLevel,
			Prefix: "globby",
		})
	}
}

// WithLogger is like WithTraceLogs, but uses an existing logger. Trace
// messages are logged at debug level.
func WithLogger(logger *log.Logger) GlobOption {
	return func(cfg *globConfig) {
		cfg.logger = logger
	}
}

// WithParseOptions passes options to Parse, for the functions that accept a
// pattern string.
func WithParseOptions(opts ...ParseOption) GlobOption {
	return func(cfg *globConfig) {
		cfg.parseOpts = append(cfg.parseOpts, opts...)
	}
}

// GoroutineLimit limits the number of patterns MultiGlob walks at once. A
// value of zero or less means one goroutine per pattern.
func GoroutineLimit(limit int) GlobOption {
	return func(cfg *globConfig) {
		cfg.goroutines = limit
	}
}
