package globby

import "github.com/samber/lo"

// MatchResult is the outcome of matching a pattern against a path.
type MatchResult uint8

const (
	// NotMatched means neither the path nor anything below it can match.
	NotMatched MatchResult = iota

	// Matched means the path matches the pattern.
	Matched

	// Starved means the path ran out before the pattern did: the path does
	// not match, but a descendant of it might.
	Starved

	// PathNotAbsolute means the pattern is absolute but the path is not.
	PathNotAbsolute

	// PathIsAbsolute means the pattern is relative but the path is not.
	PathIsAbsolute

	// IncompatiblePrefix means the pattern and path have different kinds of
	// prefix (root directory versus drive letter), or the path has a prefix
	// that cannot be represented.
	IncompatiblePrefix
)

func (r MatchResult) String() string {
	switch r {
	case NotMatched:
		return "NotMatched"
	case Matched:
		return "Matched"
	case Starved:
		return "Starved"
	case PathNotAbsolute:
		return "PathNotAbsolute"
	case PathIsAbsolute:
		return "PathIsAbsolute"
	case IncompatiblePrefix:
		return "IncompatiblePrefix"
	}
	return "MatchResult(?)"
}

// Match reports if the path matches the pattern.
//
// The path is not cleaned: ".." components in the path are only matched by
// leading ".." components in the pattern.
func (p *Pattern) Match(path string) bool {
	return p.MatchAgainst(path) == Matched
}

// MatchAgainst matches the pattern against the path and reports the
// detailed outcome.
func (p *Pattern) MatchAgainst(path string) MatchResult {
	np, err := NormalizePath(path)
	if err != nil {
		return IncompatiblePrefix
	}
	res := p.MatchNormalized(np)
	if res == Starved && !np.Prefix.IsAbsolute() && len(np.Components) == 0 {
		// Nothing is found below the empty path.
		return NotMatched
	}
	return res
}

// MatchNormalized matches the pattern against an already normalized path.
func (p *Pattern) MatchNormalized(np NormalizedPath) MatchResult {
	if res, ok := matchPrefix(p.prefix, np.Prefix); !ok {
		return res
	}
	return matchComponents(p.components, np.Components)
}

// matchPrefix checks the path prefix against the pattern's. Prefixes can't
// be completed by descending further, so a mismatch here is final.
func matchPrefix(want, got PathPrefix) (MatchResult, bool) {
	switch {
	case want == got:
		return Matched, true
	case !want.IsAbsolute():
		return PathIsAbsolute, false
	case !got.IsAbsolute():
		return PathNotAbsolute, false
	case want.Kind == PrefixWindowsDrive && got.Kind == PrefixWindowsDrive:
		return NotMatched, false
	}
	return IncompatiblePrefix, false
}

// matchComponents matches compiled components against path components. The
// recursion depth is bounded by the number of wildcards in the pattern.
func matchComponents(components []component, path []string) MatchResult {
	for i, c := range components {
		switch c.kind {
		case componentWildcard:
			rest := components[i+1:]
			if len(rest) == 0 {
				return Matched
			}
			if len(path) == 0 {
				if lo.EveryBy(rest, func(c component) bool { return c.kind == componentWildcard }) {
					return Matched
				}
				return Starved
			}
			for k := 0; k <= len(path); k++ {
				if matchComponents(rest, path[k:]) == Matched {
					return Matched
				}
			}
			// A longer path could still provide what rest needs.
			return Starved

		case componentParentDir:
			// Descending never produces a "..", so this can't starve.
			if len(path) == 0 || path[0] != ".." {
				return NotMatched
			}
			path = path[1:]

		default:
			if len(path) == 0 {
				return Starved
			}
			if !c.matches(path[0]) {
				return NotMatched
			}
			path = path[1:]
		}
	}

	if len(path) == 0 {
		return Matched
	}
	return NotMatched
}

// matches tests one path component.
func (c component) matches(s string) bool {
	if c.kind == componentLiteral {
		return c.literal == s
	}
	return c.re.MatchString(s)
}
