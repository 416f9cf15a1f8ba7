package globby

// Pattern is a compiled glob pattern.
//
// Syntax:
//
//   - Ordinary characters match themselves.
//   - ? matches any single character, * matches any run of characters
//     (including none). Neither matches a path separator.
//   - [abc] matches one of a, b or c; [!abc] matches any other character.
//     Members can be escaped special characters ([\[]) or character classes:
//     [:alpha:], [:digit:], [:alphanumeric:], [:uppercase:], [:lowercase:]
//     and [:whitespace:].
//   - {a|bc} matches either a or bc. Alternatives can contain any of the
//     above, including nested alternations.
//   - ** as a whole component matches zero or more path components.
//   - Both / and \ are path separators on every platform.
//   - A leading separator, or a drive letter (C:, \\?\C:), makes the pattern
//     absolute. Absolute patterns only match absolute paths and vice versa.
//   - Relative patterns may start with any number of ../ components.
//
// The special characters [ ] { } * ? \ / | : can only be matched literally
// by escaping them within brackets.
//
// A Pattern is immutable and safe for concurrent use.
type Pattern struct {
	source      string
	prefix      PathPrefix
	parentDepth int
	components  []component
	root        string
	hasWildcard bool
}

// Parse parses and compiles a pattern.
func Parse(pattern string, opts ...ParseOption) (*Pattern, error) {
	cfg := defaultParseConfig
	for _, o := range opts {
		o(&cfg)
	}

	rp, err := parse(pattern)
	if err != nil {
		return nil, err
	}

	components := make([]component, 0, len(rp.components))
	for _, rc := range rp.components {
		c, err := compileComponent(rc, cfg.caseInsensitive)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}

	return &Pattern{
		source:      pattern,
		prefix:      rp.prefix,
		parentDepth: rp.parentDepth,
		components:  components,
		root:        commonRootDir(rp.prefix, rp.parentDepth, components),
		hasWildcard: hasWildcard(components),
	}, nil
}

// MustParse calls Parse, and panics if unable to parse the pattern.
func MustParse(pattern string, opts ...ParseOption) *Pattern {
	p, err := Parse(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.source }

// Prefix returns the pattern's root marker, if any.
func (p *Pattern) Prefix() PathPrefix { return p.prefix }

// IsAbsolute reports whether the pattern has a root or drive prefix.
func (p *Pattern) IsAbsolute() bool { return p.prefix.IsAbsolute() }

// ParentDepth is the number of leading ".." components.
func (p *Pattern) ParentDepth() int { return p.parentDepth }

// CommonRootDir is the deepest directory every match lies within, derived
// from the pattern's leading literal components. Walking starts there.
func (p *Pattern) CommonRootDir() string { return p.root }

// HasWildcard reports whether the pattern contains a ** component, in which
// case matching directories may also contain matches.
func (p *Pattern) HasWildcard() bool { return p.hasWildcard }
