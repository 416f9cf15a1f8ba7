package globby

var defaultParseConfig = parseConfig{
	caseInsensitive: false,
}

type parseConfig struct {
	caseInsensitive bool
}

// ParseOption functions optionally alter how patterns are parsed.
type ParseOption = func(*parseConfig)

// CaseInsensitive changes how literals, character classes and alternations
// are compared. If enabled, "a" matches both "a" and "A".
// Disabled by default.
func CaseInsensitive(enable bool) ParseOption {
	return func(o *parseConfig) {
		o.caseInsensitive = enable
	}
}
