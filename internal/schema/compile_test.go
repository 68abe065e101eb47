package schema

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, node *Node) string {
	t.Helper()
	b, err := json.Marshal(node)
	require.NoError(t, err)
	return string(b)
}

func TestCompileRecipe(t *testing.T) {
	block := `DishName: Name of the dish expressed humorously
Ingredients:
 - IngredientName: Describe the raw material concretely
 - Quantity: Also specify the unit
CookingSteps:
 - First, gather the ingredients.
 - Cook while paying attention to the heat.
`
	node, err := Compile(block)
	require.NoError(t, err)

	expected := `{"type":"object","properties":{` +
		`"DishName":{"type":"string","description":"Name of the dish expressed humorously"},` +
		`"Ingredients":{"type":"array","items":{"type":"object","properties":{` +
		`"IngredientName":{"type":"string","description":"Describe the raw material concretely"},` +
		`"Quantity":{"type":"string","description":"Also specify the unit"}}}},` +
		`"CookingSteps":{"type":"array","items":{"type":"string"}}}}`
	assert.Equal(t, expected, mustJSON(t, node))
}

func TestCompileEnum(t *testing.T) {
	node, err := Compile(`Greeting: [ Konnichiwa, "hi, hello!", 'Konbanwa' ]`)
	require.NoError(t, err)

	expected := `{"type":"object","properties":{` +
		`"Greeting":{"type":"string","enum":["Konnichiwa","hi, hello!","Konbanwa"]}}}`
	assert.Equal(t, expected, mustJSON(t, node))
}

func TestCompileRootIsAlwaysObject(t *testing.T) {
	for name, block := range map[string]string{
		"empty":      "",
		"blank only": "\n  \n\t\n",
		"scalar":     "Answer: short and direct",
	} {
		t.Run(name, func(t *testing.T) {
			node, err := Compile(block)
			require.NoError(t, err)
			assert.Equal(t, KindObject, node.Kind)

			var out map[string]any
			require.NoError(t, json.Unmarshal([]byte(mustJSON(t, node)), &out))
			assert.Equal(t, "object", out["type"])
		})
	}
}

func TestCompileNestedArrays(t *testing.T) {
	// A bare key inside an object-array element opens its own array,
	// resolved by the same first-bullet rule at any depth.
	block := `Chapters:
 - Title: Chapter heading
 - Sections:
    - Heading: Section heading
    - Bullets:
       - plain text item
`
	node, err := Compile(block)
	require.NoError(t, err)

	chapters := node.Child("Chapters")
	require.NotNil(t, chapters)
	assert.Equal(t, KindObjectArray, chapters.Kind)

	sections := chapters.Child("Sections")
	require.NotNil(t, sections)
	assert.Equal(t, KindObjectArray, sections.Kind)

	bullets := sections.Child("Bullets")
	require.NotNil(t, bullets)
	assert.Equal(t, KindStringArray, bullets.Kind)
}

func TestCompileContinuationProperty(t *testing.T) {
	// A field written under the bullet instead of behind its own dash
	// still belongs to the same element object.
	block := `Ingredients:
 - IngredientName: raw material
   Quantity: with unit
`
	node, err := Compile(block)
	require.NoError(t, err)

	ing := node.Child("Ingredients")
	require.NotNil(t, ing)
	assert.Equal(t, KindObjectArray, ing.Kind)
	assert.Len(t, ing.Children, 2)
	assert.Equal(t, "Quantity", ing.Children[1].Key)
}

func TestCompileBareKeyWithoutBullets(t *testing.T) {
	node, err := Compile("Answer:\nMood: short")
	require.NoError(t, err)

	answer := node.Child("Answer")
	require.NotNil(t, answer)
	assert.Equal(t, KindString, answer.Kind)
	assert.Empty(t, answer.Description)
}

func TestCompileBulletBareKeyThenProperty(t *testing.T) {
	// A bare key opened by a bullet may be followed by deeper properties
	// of the same element. The key never got a bullet of its own, so it
	// closes as a plain string alongside them.
	block := `Cooking Steps:
 - Used Ingredients:
   Action: Describe the cooking action concretely
`
	node, err := Compile(block)
	require.NoError(t, err)

	steps := node.Child("Cooking Steps")
	require.NotNil(t, steps)
	assert.Equal(t, KindObjectArray, steps.Kind)
	require.Len(t, steps.Children, 2)

	used := steps.Child("Used Ingredients")
	require.NotNil(t, used)
	assert.Equal(t, KindString, used.Kind)
	assert.Empty(t, used.Description)

	action := steps.Child("Action")
	require.NotNil(t, action)
	assert.Equal(t, KindString, action.Kind)
	assert.Equal(t, "Describe the cooking action concretely", action.Description)
}

func TestCompileClosedListWithTrailingText(t *testing.T) {
	// A bracketed list followed by more text is not a list at all; the
	// whole remainder reads as a description.
	node, err := Compile("Greeting: [casual, formal] pick one register")
	require.NoError(t, err)

	g := node.Child("Greeting")
	require.NotNil(t, g)
	assert.Equal(t, KindString, g.Kind)
	assert.Equal(t, "[casual, formal] pick one register", g.Description)
}

func TestCompileDuplicateKeyLastWins(t *testing.T) {
	node, err := Compile("Answer: first\nOther: x\nAnswer: second")
	require.NoError(t, err)

	require.Len(t, node.Children, 2)
	assert.Equal(t, "Answer", node.Children[0].Key)
	assert.Equal(t, "second", node.Children[0].Description)
}

func TestCompileQuotedKey(t *testing.T) {
	node, err := Compile(`"Dish Name": with spaces`)
	require.NoError(t, err)
	require.NotNil(t, node.Child("Dish Name"))
}

func TestCompileIdempotent(t *testing.T) {
	block := `DishName: Name of the dish
Greeting: [ Konnichiwa, 'Konbanwa' ]
Ingredients:
 - IngredientName: the raw material
CookingSteps:
 - First, gather the ingredients.
`
	first, err := Compile(block)
	require.NoError(t, err)
	second, err := Compile(block)
	require.NoError(t, err)

	assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
	assert.Equal(t, first, second)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		block string
		kind  error
		line  int
	}{
		{
			name:  "dedent to unopened level",
			block: "Ingredients:\n   - Name: x\n  Quantity: y",
			kind:  ErrIndentation,
			line:  3,
		},
		{
			name:  "inconsistent sibling indent",
			block: "  A: x\n B: y",
			kind:  ErrIndentation,
			line:  2,
		},
		{
			name:  "mixed bullet shapes",
			block: "Items:\n - Name: x\n - plain text",
			kind:  ErrMalformedEnum,
			line:  3,
		},
		{
			name:  "mixed bullet shapes string first",
			block: "Items:\n - plain text\n - Name: x",
			kind:  ErrMalformedEnum,
			line:  3,
		},
		{
			name:  "unterminated list",
			block: "Greeting: [ Konnichiwa, Konbanwa",
			kind:  ErrUnterminatedList,
			line:  1,
		},
		{
			name:  "bare text at top level",
			block: "Answer: ok\njust some text",
			kind:  ErrMalformedLine,
			line:  2,
		},
		{
			name:  "bullet without key",
			block: "- stray bullet",
			kind:  ErrMalformedLine,
			line:  1,
		},
		{
			name:  "indented property after bare key",
			block: "Items:\n  Name: x",
			kind:  ErrIndentation,
			line:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Compile(tt.block)
			require.Error(t, err)
			assert.Nil(t, node, "a failed compile must not return a partial tree")
			assert.ErrorIs(t, err, tt.kind)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestCompileMaxDepth(t *testing.T) {
	// Every `- Sub:` bullet opens one more array level.
	var b strings.Builder
	b.WriteString("K:\n")
	indent := 1
	for i := 0; i < maxDepth+2; i++ {
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString("- Sub:\n")
		indent += 2
	}
	_, err := Compile(b.String())
	assert.ErrorIs(t, err, ErrMaxDepth)
}

func TestExtractBlock(t *testing.T) {
	t.Run("finds delimiter", func(t *testing.T) {
		raw := "Summarize this article.\n::::\nTitle: short title\n"
		block, ok := ExtractBlock(raw)
		require.True(t, ok)
		assert.Equal(t, "Title: short title\n", block)
	})

	t.Run("delimiter may be indented", func(t *testing.T) {
		_, ok := ExtractBlock("question\n  ::::  \nA: b")
		assert.True(t, ok)
	})

	t.Run("no delimiter", func(t *testing.T) {
		_, ok := ExtractBlock("an ordinary prompt")
		assert.False(t, ok)
	})
}
