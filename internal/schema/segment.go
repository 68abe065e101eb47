package schema

import (
	"strings"
)

// lineKind is the grammar category of one logical line.
type lineKind int

const (
	lineProperty     lineKind = iota // Key: description
	linePropertyList                 // Key: [a, b, c]
	lineBareKey                      // Key:            (children follow)
	lineBullet                       // - payload
	lineText                         // bare text, only valid as a bullet continuation
)

// logicalLine is one non-blank input line annotated with its indentation
// depth. The depth unit is one leading space or tab character; the grammar
// relies only on relative ordering of depths, never on absolute values.
type logicalLine struct {
	num   int // 1-based line number within the block
	depth int
	kind  lineKind
	key   string
	value string // description, bracketed list token, bullet payload, or raw text
}

// segment splits a raw block into classified logical lines. Blank lines
// are dropped; trailing whitespace is trimmed before classification.
func segment(block string) ([]logicalLine, error) {
	var lines []logicalLine
	for i, raw := range strings.Split(block, "\n") {
		raw = strings.TrimRight(raw, " \t\r")
		if raw == "" {
			continue
		}
		depth := leadingDepth(raw)
		content := raw[depth:]
		ln, err := classify(content, i+1)
		if err != nil {
			return nil, err
		}
		ln.depth = depth
		lines = append(lines, ln)
	}
	return lines, nil
}

// leadingDepth counts leading space and tab characters, one unit each.
func leadingDepth(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

// classify applies the grammar rules to the content of one line. It is
// also re-applied to bullet payloads, which may themselves carry the
// Key: value forms.
func classify(content string, num int) (logicalLine, error) {
	ln := logicalLine{num: num}

	if strings.HasPrefix(content, "-") {
		ln.kind = lineBullet
		ln.value = strings.TrimSpace(content[1:])
		return ln, nil
	}

	idx := topLevelColon(content)
	if idx < 0 {
		ln.kind = lineText
		ln.value = content
		return ln, nil
	}

	key := strings.TrimSpace(content[:idx])
	key = trimQuotePair(key)
	if key == "" {
		return ln, parseErrf(ErrMalformedLine, num, "empty key before %q", content)
	}
	rest := strings.TrimSpace(content[idx+1:])

	ln.key = key
	switch {
	case rest == "":
		ln.kind = lineBareKey
	case strings.HasPrefix(rest, "["):
		switch {
		case strings.HasSuffix(rest, "]"):
			ln.kind = linePropertyList
			ln.value = rest
		case !strings.Contains(rest, "]"):
			return ln, parseErrf(ErrUnterminatedList, num, "list for key %q is not closed", key)
		default:
			// Closed bracket with trailing text is an ordinary
			// description that happens to start with a list.
			ln.kind = lineProperty
			ln.value = rest
		}
	default:
		ln.kind = lineProperty
		ln.value = rest
	}
	return ln, nil
}

// topLevelColon returns the index of the first colon that sits outside
// any quoted or bracketed span, or -1.
func topLevelColon(s string) int {
	var quote byte
	brackets := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[':
			brackets++
		case ']':
			if brackets > 0 {
				brackets--
			}
		case ':':
			if brackets == 0 {
				return i
			}
		}
	}
	return -1
}

// trimQuotePair removes one matching pair of surrounding quotes.
func trimQuotePair(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
