package schema

import (
	"strings"

	json "github.com/goccy/go-json"
)

// parseList resolves a bracketed list token into its string values using
// two stages tried in order: a strict JSON parse, then a lenient comma
// split that tolerates mixed or absent quoting. The strict stage wins
// whenever the token is valid JSON, so correctly quoted values keep
// embedded commas and quotes intact.
func parseList(token string, line int) ([]string, error) {
	if values, ok := parseStrict(token); ok {
		return values, nil
	}
	values, ok := parseLenient(token)
	if !ok {
		return nil, parseErrf(ErrMalformedEnum, line, "cannot parse list %q", token)
	}
	return values, nil
}

// parseStrict attempts to read the token as a standard JSON array of
// strings. Any deviation, including non-string elements, defers to the
// lenient stage.
func parseStrict(token string) ([]string, bool) {
	var values []string
	if err := json.Unmarshal([]byte(token), &values); err != nil {
		return nil, false
	}
	if values == nil {
		values = []string{}
	}
	return values, true
}

// parseLenient splits the inner text on commas that sit outside quoted
// spans, then trims whitespace and one matching surrounding quote pair
// from each value. A backslash escapes the next character. An unclosed
// quote span fails the parse.
func parseLenient(token string) ([]string, bool) {
	inner := strings.TrimSpace(token[1 : len(token)-1])
	if inner == "" {
		return []string{}, true
	}

	var tokens []string
	var current strings.Builder
	var quote byte
	escape := false

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case escape:
			current.WriteByte(c)
			escape = false
		case c == '\\':
			escape = true
		case quote != 0:
			current.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			current.WriteByte(c)
		case c == ',':
			tokens = append(tokens, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	if quote != 0 || escape {
		return nil, false
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	values := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		values = append(values, trimQuotePair(t))
	}
	return values, true
}
