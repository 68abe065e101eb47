package chat

import (
	json "github.com/goccy/go-json"

	"github.com/respmsl/resp-cli/internal/gemini"
	"github.com/respmsl/resp-cli/internal/schema"
)

// BuildGenerationConfig inspects a user prompt for a `::::` schema block
// and compiles it into a structured-output constraint. It returns
// (nil, nil) when the prompt carries no block, and the compile error when
// the block is malformed; the caller decides whether to retry or to send
// the turn without a schema.
func BuildGenerationConfig(prompt string) (*gemini.GenerationConfig, error) {
	block, ok := schema.ExtractBlock(prompt)
	if !ok {
		return nil, nil
	}
	node, err := schema.Compile(block)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(node)
	if err != nil {
		return nil, err
	}
	return &gemini.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   data,
	}, nil
}
