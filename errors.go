package globby

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrBadPattern is reported (wrapped in a *ParseError) for every pattern
	// that fails to parse.
	ErrBadPattern = errors.New("syntax error in pattern")

	// ErrUnsupportedPrefix is returned for path prefixes that cannot be
	// represented, such as UNC shares and device paths.
	ErrUnsupportedPrefix = errors.New("unsupported path prefix")

	// SkipAll can be returned from a WalkFunc to stop globbing early. It is
	// not reported as an error.
	SkipAll = errors.New("skip everything and stop the glob")
)

// ParseError describes why a pattern could not be parsed, and where.
type ParseError struct {
	// Pattern is the complete input.
	Pattern string

	// Offset is the byte offset within Pattern where the problem was found.
	Offset int

	// Msg is a human-readable description.
	Msg string

	// Err is a more specific cause, such as ErrUnsupportedPrefix, if any.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid pattern %q at offset %d: %s", e.Pattern, e.Offset, e.Msg)
}

// Unwrap makes errors.Is(err, ErrBadPattern) true for any parse error, as
// well as for the cause in Err.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrBadPattern}
	}
	return []error{ErrBadPattern, e.Err}
}
