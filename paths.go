package globby

import (
	"path/filepath"
	"strings"
)

// PrefixKind classifies the root marker at the start of a path or pattern.
type PrefixKind uint8

const (
	// PrefixNone means the path is relative.
	PrefixNone PrefixKind = iota

	// PrefixRootDir is the POSIX root, a leading / (or \).
	PrefixRootDir

	// PrefixWindowsDrive is a drive letter followed by a colon, e.g. C:
	PrefixWindowsDrive
)

// PathPrefix is a platform-specific root marker, kept apart from the
// components of a path.
type PathPrefix struct {
	Kind PrefixKind

	// Drive is the upper-case drive letter when Kind is PrefixWindowsDrive.
	Drive byte
}

// IsAbsolute reports whether the prefix anchors a path somewhere.
func (p PathPrefix) IsAbsolute() bool { return p.Kind != PrefixNone }

// String renders the prefix using the host path separator.
func (p PathPrefix) String() string {
	switch p.Kind {
	case PrefixRootDir:
		return string(filepath.Separator)
	case PrefixWindowsDrive:
		return string([]byte{p.Drive, ':', filepath.Separator})
	}
	return ""
}

// NormalizedPath is the form of a path the matcher works on: an optional
// prefix, and the components without any empty or "." entries.
type NormalizedPath struct {
	Prefix     PathPrefix
	Components []string
}

// String renders the path using the host path separator.
func (n NormalizedPath) String() string {
	return n.Prefix.String() + strings.Join(n.Components, string(filepath.Separator))
}

// NormalizePath splits a path into its prefix and components. Both / and \
// are treated as separators regardless of the platform. Prefixes that
// cannot be represented (UNC shares, device paths, drive-relative paths)
// result in ErrUnsupportedPrefix.
func NormalizePath(path string) (NormalizedPath, error) {
	prefix, rest, err := splitPrefix(path)
	if err != nil {
		return NormalizedPath{}, err
	}
	return NormalizedPath{
		Prefix:     prefix,
		Components: splitComponents(rest),
	}, nil
}

// splitPrefix separates the prefix from the rest of the path.
func splitPrefix(path string) (PathPrefix, string, error) {
	if rest, ok := strings.CutPrefix(path, `\\`); ok {
		// Only the verbatim drive form \\?\C:\ is supported.
		rest, ok = strings.CutPrefix(rest, `?\`)
		if !ok {
			return PathPrefix{}, "", ErrUnsupportedPrefix
		}
		prefix, rest, ok := cutDrive(rest)
		if !ok {
			return PathPrefix{}, "", ErrUnsupportedPrefix
		}
		if rest != "" && !isSeparator(rest[0]) {
			return PathPrefix{}, "", ErrUnsupportedPrefix
		}
		return prefix, rest, nil
	}

	if prefix, rest, ok := cutDrive(path); ok {
		if rest != "" && !isSeparator(rest[0]) {
			// C:foo is relative to the current directory of drive C, which
			// has no representation here.
			return PathPrefix{}, "", ErrUnsupportedPrefix
		}
		return prefix, rest, nil
	}

	if path != "" && isSeparator(path[0]) {
		return PathPrefix{Kind: PrefixRootDir}, path[1:], nil
	}
	return PathPrefix{}, path, nil
}

// cutDrive removes a leading drive letter and colon.
func cutDrive(s string) (PathPrefix, string, bool) {
	if len(s) < 2 || !isASCIILetter(s[0]) || s[1] != ':' {
		return PathPrefix{}, s, false
	}
	return PathPrefix{Kind: PrefixWindowsDrive, Drive: upperASCII(s[0])}, s[2:], true
}

// splitComponents splits on either separator, dropping "" and ".".
func splitComponents(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' })
	out := fields[:0]
	for _, f := range fields {
		if f == "." {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isSeparator(c byte) bool { return c == '/' || c == '\\' }

func isASCIILetter(c byte) bool { return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') }

func upperASCII(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
