package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/respmsl/resp-cli/internal/chat"
	"github.com/respmsl/resp-cli/internal/schema"
)

func feedLines(lines ...string) func() (string, bool) {
	i := 0
	return func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}
}

func TestReadSchemaBlock(t *testing.T) {
	t.Run("blank line ends the block", func(t *testing.T) {
		text := readSchemaBlock("Suggest a dinner. ::::", feedLines(
			"DishName: Name of the dish",
			"Ingredients:",
			" - IngredientName: the raw material",
			"",
			"this line is never read",
		))

		block, ok := schema.ExtractBlock(text)
		require.True(t, ok)

		node, err := schema.Compile(block)
		require.NoError(t, err)
		require.NotNil(t, node.Child("Ingredients"))
		assert.Equal(t, schema.KindObjectArray, node.Child("Ingredients").Kind)

		genCfg, err := chat.BuildGenerationConfig(text)
		require.NoError(t, err)
		require.NotNil(t, genCfg)
		assert.Equal(t, "application/json", genCfg.ResponseMIMEType)
	})

	t.Run("indentation survives entry", func(t *testing.T) {
		text := readSchemaBlock("q ::::", feedLines("A:", " - B: x"))
		assert.Equal(t, "q\n::::\nA:\n - B: x", text)
	})

	t.Run("end of input ends the block", func(t *testing.T) {
		text := readSchemaBlock("q ::::", feedLines("A: short"))
		block, ok := schema.ExtractBlock(text)
		require.True(t, ok)
		assert.Equal(t, "A: short", block)
	})

	t.Run("delimiter alone keeps an empty head", func(t *testing.T) {
		text := readSchemaBlock("::::", feedLines("A: short"))
		assert.Equal(t, "\n::::\nA: short", text)
	})
}
