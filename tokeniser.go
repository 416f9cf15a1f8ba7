package globby

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// specialChars must be escaped (inside brackets) to be matched literally.
const specialChars = `[]{}*?\/|:`

func isSpecial(r rune) bool { return strings.ContainsRune(specialChars, r) }

// isEscapable reports whether r may follow a \ inside brackets. Separators
// are special but can never appear within a component, so escaping them is
// refused.
func isEscapable(r rune) bool { return isSpecial(r) && r != '/' && r != '\\' }

func isSep(r rune) bool { return r == '/' || r == '\\' }

// scanner is a consuming reader over a pattern, keeping track of the byte
// offset for error messages.
type scanner struct {
	src string
	pos int
}

// peek returns the next rune without consuming it.
func (s *scanner) peek() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r, true
}

// next consumes and returns the next rune.
func (s *scanner) next() (rune, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	r, n := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += n
	return r, true
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) hasPrefix(p string) bool { return strings.HasPrefix(s.src[s.pos:], p) }

// skip consumes n bytes.
func (s *scanner) skip(n int) { s.pos += n }

// atSep reports whether the next rune is a path separator.
func (s *scanner) atSep() bool {
	r, ok := s.peek()
	return ok && isSep(r)
}

// skipSeps consumes any run of path separators.
func (s *scanner) skipSeps() {
	for s.atSep() {
		s.skip(1)
	}
}

// atSegment reports whether the input continues with exactly the path
// segment seg, i.e. seg followed by a separator or the end of the input.
func (s *scanner) atSegment(seg string) bool {
	if !s.hasPrefix(seg) {
		return false
	}
	rest := s.src[s.pos+len(seg):]
	return rest == "" || rest[0] == '/' || rest[0] == '\\'
}

func (s *scanner) errorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{
		Pattern: s.src,
		Offset:  offset,
		Msg:     fmt.Sprintf(format, args...),
	}
}

// unsupportedPrefix reports a pattern prefix that cannot be represented.
func (s *scanner) unsupportedPrefix(msg string) *ParseError {
	e := s.errorf(0, "%v: %s", ErrUnsupportedPrefix, msg)
	e.Err = ErrUnsupportedPrefix
	return e
}
