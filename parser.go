package globby

// rawPattern is a parsed, not yet compiled, pattern.
type rawPattern struct {
	prefix PathPrefix

	// parentDepth is the number of leading ".." components.
	parentDepth int

	components []rawComponent
}

// Parsed components. Each matches one path component, except rawWildcard.
type (
	rawLiteral  string
	rawSuite    []charsMatcher
	rawWildcard struct{}
)

func (rawLiteral) rawComponentTag()  {}
func (rawSuite) rawComponentTag()    {}
func (rawWildcard) rawComponentTag() {}

type rawComponent interface{ rawComponentTag() }

func isRawWildcard(c rawComponent) bool {
	_, ok := c.(rawWildcard)
	return ok
}

// parse converts a pattern string into a rawPattern. Parsing is all or
// nothing: any problem results in a *ParseError.
func parse(pattern string) (*rawPattern, error) {
	s := &scanner{src: pattern}
	rp := &rawPattern{}

	if err := parsePrefix(s, rp); err != nil {
		return nil, err
	}

	for {
		start := s.pos
		c, err := parseComponent(s)
		if err != nil {
			return nil, err
		}

		lit, isLit := c.(rawLiteral)
		switch {
		case isLit && (lit == "" || lit == "."):
			// Doubled or trailing separators, or a redundant "./".

		case isLit && lit == "..":
			if rp.prefix.IsAbsolute() {
				return nil, s.errorf(start, "'..' cannot be used in an absolute pattern")
			}
			return nil, s.errorf(start, "'..' is only allowed at the start of a pattern")

		case isRawWildcard(c) && len(rp.components) > 0 && isRawWildcard(rp.components[len(rp.components)-1]):
			// **/** is the same as **, and cheaper to match.

		default:
			rp.components = append(rp.components, c)
		}

		if s.eof() {
			return rp, nil
		}
		// The component ended on a separator.
		s.skip(1)
	}
}

// parsePrefix consumes the root marker or drive letter (if any), followed by
// any leading "../" and "./" segments.
func parsePrefix(s *scanner, rp *rawPattern) error {
	switch {
	case s.hasPrefix(`\\`):
		if !s.hasPrefix(`\\?\`) {
			return s.unsupportedPrefix("UNC and device paths are not supported")
		}
		s.skip(4)
		prefix, ok := scanDrive(s)
		if !ok {
			return s.unsupportedPrefix(`only drive letters are supported after \\?\`)
		}
		rp.prefix = prefix

	case len(s.src) >= 2 && isASCIILetter(s.src[0]) && s.src[1] == ':':
		prefix, ok := scanDrive(s)
		if !ok {
			return s.unsupportedPrefix("drive-relative patterns are not supported")
		}
		rp.prefix = prefix

	case s.atSep():
		rp.prefix = PathPrefix{Kind: PrefixRootDir}
	}
	s.skipSeps()

	for {
		switch {
		case s.atSegment("."):
			s.skip(1)

		case s.atSegment("..") && !rp.prefix.IsAbsolute():
			s.skip(2)
			rp.parentDepth++
			rp.components = append(rp.components, rawLiteral(".."))

		default:
			return nil
		}
		s.skipSeps()
	}
}

// scanDrive consumes a drive letter and colon, which must be followed by a
// separator or the end of the pattern.
func scanDrive(s *scanner) (PathPrefix, bool) {
	if len(s.src)-s.pos < 2 || !isASCIILetter(s.src[s.pos]) || s.src[s.pos+1] != ':' {
		return PathPrefix{}, false
	}
	drive := upperASCII(s.src[s.pos])
	s.skip(2)
	if !s.eof() && !s.atSep() {
		return PathPrefix{}, false
	}
	return PathPrefix{Kind: PrefixWindowsDrive, Drive: drive}, true
}

// parseComponent parses everything up to the next separator (or the end).
func parseComponent(s *scanner) (rawComponent, error) {
	start := s.pos
	if s.hasPrefix("**") {
		s.skip(2)
		if !s.eof() && !s.atSep() {
			return nil, s.errorf(start, "wildcard components '**' must be preceded and followed by path separators")
		}
		return rawWildcard{}, nil
	}

	matchers, err := parseSequence(s, false)
	if err != nil {
		return nil, err
	}

	switch len(matchers) {
	case 0:
		return rawLiteral(""), nil
	case 1:
		if lit, ok := matchers[0].(literalChars); ok {
			return rawLiteral(lit), nil
		}
	}
	return rawSuite(matchers), nil
}

// parseSequence parses character matchers until a separator, the end of the
// pattern, or (inside an alternation) a | or }.
func parseSequence(s *scanner, insideAlt bool) ([]charsMatcher, error) {
	var out []charsMatcher
	for {
		r, ok := s.peek()
		if !ok || isSep(r) {
			return out, nil
		}

		start := s.pos
		switch r {
		case '?':
			s.next()
			out = append(out, anyChar{})

		case '*':
			s.next()
			if r, ok := s.peek(); ok && r == '*' {
				return nil, s.errorf(start, "wildcard components '**' must be preceded and followed by path separators")
			}
			out = append(out, anyChars{})

		case '[':
			m, err := parseCharClass(s)
			if err != nil {
				return nil, err
			}
			out = append(out, m)

		case '{':
			m, err := parseAlternation(s)
			if err != nil {
				return nil, err
			}
			out = append(out, m)

		case '|', '}':
			if insideAlt {
				return out, nil
			}
			return nil, s.errorf(start, "unexpected %q: special characters must be escaped inside brackets, e.g. [\\%c]", r, r)

		default:
			if isSpecial(r) {
				return nil, s.errorf(start, "unexpected %q: special characters must be escaped inside brackets, e.g. [\\%c]", r, r)
			}
			for {
				r, ok := s.peek()
				if !ok || isSpecial(r) {
					break
				}
				s.next()
			}
			out = append(out, literalChars(s.src[start:s.pos]))
		}
	}
}

// parseCharClass parses [abc], [!abc] and [[:class:]] forms. s should be
// positioned on the opening bracket.
func parseCharClass(s *scanner) (charsMatcher, error) {
	open := s.pos
	s.next()

	negated := false
	if r, ok := s.peek(); ok && r == '!' {
		s.next()
		negated = true
	}

	var set []singleChar
	for {
		r, ok := s.peek()
		if !ok {
			return nil, s.errorf(open, "unterminated char class - missing closing square bracket")
		}

		start := s.pos
		switch {
		case r == ']':
			if len(set) == 0 {
				return nil, s.errorf(start, "expected at least one character to match")
			}
			s.next()
			if negated {
				return noneOfChars(set), nil
			}
			return oneOfChars(set), nil

		case r == '\\':
			s.next()
			e, ok := s.next()
			if !ok || !isEscapable(e) {
				return nil, s.errorf(start, "expected a special character to escape")
			}
			set = append(set, singleChar{lit: e})

		case s.hasPrefix("[:"):
			s.skip(2)
			class := classNone
			for _, cn := range charClassNames {
				if s.hasPrefix(cn.name + ":]") {
					class = cn.class
					s.skip(len(cn.name) + 2)
					break
				}
			}
			if class == classNone {
				return nil, s.errorf(start, "expected a valid character class")
			}
			set = append(set, singleChar{class: class})

		case isSep(r):
			return nil, s.errorf(start, "path separators cannot be matched inside brackets")

		case isSpecial(r):
			return nil, s.errorf(start, "unexpected %q within char class, escape it as \\%c", r, r)

		default:
			s.next()
			set = append(set, singleChar{lit: r})
		}
	}
}

// parseAlternation parses {a|b|...}. s should be positioned on the opening
// brace.
func parseAlternation(s *scanner) (charsMatcher, error) {
	open := s.pos
	s.next()

	var groups oneOfGroups
	for {
		alt, err := parseSequence(s, true)
		if err != nil {
			return nil, err
		}
		if len(alt) == 0 {
			return nil, s.errorf(s.pos, "empty alternative in alternation")
		}
		groups = append(groups, alt)

		r, ok := s.next()
		switch {
		case ok && r == '|':
			continue

		case ok && r == '}':
			if len(groups) < 2 {
				return nil, s.errorf(open, "expected at least 2 alternatives")
			}
			return groups, nil

		default:
			return nil, s.errorf(open, "unterminated alternation - missing closing brace")
		}
	}
}
