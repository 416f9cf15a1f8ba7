package globby

// Character-level matchers, making up the components that are not plain
// literals. None of them ever matches a path separator.
type charsMatcher interface {
	// writeRegexp appends the equivalent regular expression.
	writeRegexp(*regexpBuilder)
}

type (
	// ? matches exactly one character.
	anyChar struct{}

	// * matches any run of characters, including none.
	anyChars struct{}

	// A run of ordinary characters matching themselves.
	literalChars string

	// [abc] matches one of the characters.
	oneOfChars []singleChar

	// [!abc] matches one character that is none of these.
	noneOfChars []singleChar

	// {a|bc} matches one of the alternatives.
	oneOfGroups [][]charsMatcher
)

// singleChar is a member of a bracket expression: either a literal rune or
// a named character class.
type singleChar struct {
	lit   rune
	class charClass
}

type charClass uint8

const (
	classNone charClass = iota
	classAlpha
	classDigit
	classAlphanumeric
	classUppercase
	classLowercase
	classWhitespace
)

// charClassNames are the names accepted within [: and :].
var charClassNames = []struct {
	name  string
	class charClass
}{
	{"alphanumeric", classAlphanumeric},
	{"alpha", classAlpha},
	{"digit", classDigit},
	{"uppercase", classUppercase},
	{"lowercase", classLowercase},
	{"whitespace", classWhitespace},
}

// posixName is the POSIX bracket class used in the compiled expression.
func (c charClass) posixName() string {
	switch c {
	case classAlpha:
		return "alpha"
	case classDigit:
		return "digit"
	case classAlphanumeric:
		return "alnum"
	case classUppercase:
		return "upper"
	case classLowercase:
		return "lower"
	case classWhitespace:
		return "space"
	}
	return ""
}
