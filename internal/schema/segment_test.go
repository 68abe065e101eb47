package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentDepthAndLineNumbers(t *testing.T) {
	lines, err := segment("A: one\n\n  B: two\n\tC: three\n   \n")
	require.NoError(t, err)
	require.Len(t, lines, 3)

	assert.Equal(t, 0, lines[0].depth)
	assert.Equal(t, 1, lines[0].num)
	assert.Equal(t, 2, lines[1].depth)
	assert.Equal(t, 3, lines[1].num, "blank lines are dropped but keep numbering")
	assert.Equal(t, 1, lines[2].depth, "a tab counts as one depth unit")
	assert.Equal(t, 4, lines[2].num)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    lineKind
		key     string
		value   string
	}{
		{"property", "Name: a short name", lineProperty, "Name", "a short name"},
		{"bare key", "Items:", lineBareKey, "Items", ""},
		{"property list", "Mood: [happy, sad]", linePropertyList, "Mood", "[happy, sad]"},
		{"bullet", "- plain item", lineBullet, "", "plain item"},
		{"bullet no space", "-item", lineBullet, "", "item"},
		{"empty bullet", "-", lineBullet, "", ""},
		{"bare text", "just words", lineText, "", "just words"},
		{"colon in quotes is not a split point", `"a:b"`, lineText, "", `"a:b"`},
		{"colon inside brackets is not a split point", "[a:b]", lineText, "", "[a:b]"},
		{"quoted key", `"Full Name": desc`, lineProperty, "Full Name", "desc"},
		{"value keeps later colons", "URL: http://example.com", lineProperty, "URL", "http://example.com"},
		{"closed list with trailing text is a description", "Mood: [happy, sad] pick one", lineProperty, "Mood", "[happy, sad] pick one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ln, err := classify(tt.content, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ln.kind)
			assert.Equal(t, tt.key, ln.key)
			assert.Equal(t, tt.value, ln.value)
		})
	}
}

func TestClassifyUnterminatedList(t *testing.T) {
	_, err := classify("Mood: [happy, sad", 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnterminatedList)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 4, perr.Line)
}

func TestClassifyEmptyKey(t *testing.T) {
	_, err := classify(": no key", 1)
	assert.ErrorIs(t, err, ErrMalformedLine)
}
