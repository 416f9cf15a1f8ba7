package globby

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type componentKind uint8

const (
	// componentLiteral is compared byte-for-byte.
	componentLiteral componentKind = iota

	// componentRegexp is tested with a compiled expression.
	componentRegexp

	// componentWildcard is **, matching zero or more whole components.
	componentWildcard

	// componentParentDir matches exactly one ".." component.
	componentParentDir
)

// segmentMatcher tests a single path component. *regexp.Regexp satisfies
// it.
type segmentMatcher interface {
	MatchString(string) bool
	String() string
}

// component is a compiled pattern component.
type component struct {
	kind    componentKind
	literal string
	re      segmentMatcher
}

// compileComponent lowers a parsed component.
func compileComponent(rc rawComponent, caseInsensitive bool) (component, error) {
	switch rc := rc.(type) {
	case rawWildcard:
		return component{kind: componentWildcard}, nil

	case rawLiteral:
		if rc == ".." {
			return component{kind: componentParentDir, literal: ".."}, nil
		}
		if !caseInsensitive {
			return component{kind: componentLiteral, literal: string(rc)}, nil
		}
		return compileRegexp(regexp.QuoteMeta(string(rc)), true)

	case rawSuite:
		var b regexpBuilder
		for _, m := range rc {
			m.writeRegexp(&b)
		}
		return compileRegexp(b.String(), caseInsensitive)
	}
	return component{}, errors.Newf("unknown component type %T", rc)
}

// compileRegexp anchors body at both ends. The s flag lets ? and * match
// newlines, which are legal in file names.
func compileRegexp(body string, caseInsensitive bool) (component, error) {
	flags := "(?s)"
	if caseInsensitive {
		flags = "(?is)"
	}
	src := flags + "^(?:" + body + ")$"
	re, err := regexp.Compile(src)
	if err != nil {
		return component{}, errors.Wrapf(err, "compiling component expression %q", src)
	}
	return component{kind: componentRegexp, re: re}, nil
}

// commonRootDir is the directory implied by the literal components that
// follow any leading ".." components. If the whole pattern is literal, the
// last component is left out so that the walker can still yield it.
func commonRootDir(prefix PathPrefix, parentDepth int, components []component) string {
	rest := components[parentDepth:]
	n := 0
	for n < len(rest) && rest[n].kind == componentLiteral {
		n++
	}
	if n > 0 && n == len(rest) {
		n--
	}

	sep := string(filepath.Separator)
	joined := strings.Join(lo.Map(rest[:n], func(c component, _ int) string {
		return c.literal
	}), sep)

	if prefix.IsAbsolute() {
		return prefix.String() + joined
	}
	return strings.Repeat(".."+sep, parentDepth) + joined
}

// hasWildcard reports whether any component is **.
func hasWildcard(components []component) bool {
	return lo.ContainsBy(components, func(c component) bool {
		return c.kind == componentWildcard
	})
}

type regexpBuilder struct {
	strings.Builder
}

// writeClassMember writes a bracket expression member.
func (b *regexpBuilder) writeClassMember(sc singleChar) {
	if sc.class != classNone {
		b.WriteString("[:" + sc.class.posixName() + ":]")
		return
	}
	// Escaping every ASCII non-alphanumeric keeps characters such as - and ^
	// from taking on a meaning inside the brackets.
	if sc.lit < utf8.RuneSelf && !isASCIIAlnum(sc.lit) {
		b.WriteByte('\\')
	}
	b.WriteRune(sc.lit)
}

func (anyChar) writeRegexp(b *regexpBuilder)  { b.WriteByte('.') }
func (anyChars) writeRegexp(b *regexpBuilder) { b.WriteString(".*") }

func (l literalChars) writeRegexp(b *regexpBuilder) {
	b.WriteString(regexp.QuoteMeta(string(l)))
}

func (o oneOfChars) writeRegexp(b *regexpBuilder) {
	b.WriteByte('[')
	for _, sc := range o {
		b.writeClassMember(sc)
	}
	b.WriteByte(']')
}

func (n noneOfChars) writeRegexp(b *regexpBuilder) {
	b.WriteString("[^")
	for _, sc := range n {
		b.writeClassMember(sc)
	}
	b.WriteByte(']')
}

func (g oneOfGroups) writeRegexp(b *regexpBuilder) {
	b.WriteString("(?:")
	for i, alt := range g {
		if i > 0 {
			b.WriteByte('|')
		}
		for _, m := range alt {
			m.writeRegexp(b)
		}
	}
	b.WriteByte(')')
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
