package gemini

import (
	"strings"

	json "github.com/goccy/go-json"
)

// Content is one conversation record in Gemini wire form.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a fragment of a content record: text or inline binary data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inline_data,omitempty"`
}

// InlineData carries an attachment. Data is base64 for binary mime types
// and plain text for text ones, matching what the API accepts.
type InlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// GenerationConfig constrains generation. ResponseSchema carries an
// already-serialized JSON Schema document.
type GenerationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

// Tool enables a built-in tool on the request.
type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
}

// GoogleSearch is the search grounding tool. It has no parameters.
type GoogleSearch struct{}

// ToolConfig controls tool invocation.
type ToolConfig struct {
	FunctionCallingConfig FunctionCallingConfig `json:"function_calling_config"`
}

// FunctionCallingConfig selects the invocation mode (AUTO, ANY, NONE).
type FunctionCallingConfig struct {
	Mode string `json:"mode"`
}

type apiRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
	Tools            []Tool            `json:"tools,omitempty"`
	ToolConfig       *ToolConfig       `json:"tool_config,omitempty"`
}

// Chunk is one decoded streaming response fragment.
type Chunk struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generation candidate inside a chunk.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// JoinText concatenates the text parts of every candidate.
func (c Chunk) JoinText() string {
	var b strings.Builder
	for _, cand := range c.Candidates {
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// ModelInfo describes one model from the models listing endpoint.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Description string `json:"description,omitempty"`
}

type modelsResponse struct {
	Models []ModelInfo `json:"models"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
