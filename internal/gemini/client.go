// Package gemini is a minimal REST client for the Google Generative
// Language API: streaming content generation and model listing. It covers
// exactly what the chat driver needs and nothing else.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/respmsl/resp-cli/internal/util/env"
)

const (
	// APIKeyEnv is the environment variable holding the API key.
	APIKeyEnv = "GEMINI_API_KEY"

	// DefaultModel is used when no model is configured.
	DefaultModel = "models/gemini-2.0-flash"

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 120 * time.Second
)

// ErrAPIKeyRequired is returned when no API key can be found.
var ErrAPIKeyRequired = errors.New("gemini: API key is required (set GEMINI_API_KEY environment variable)")

// Config configures a Client.
type Config struct {
	Model   string
	BaseURL string        // override for tests
	APIKey  string        // override; default comes from env / .resp/.env
	Timeout time.Duration // whole-request timeout, 0 means default
	Verbose bool
}

// Client talks to the Generative Language API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	verbose    bool
}

// New creates a Client, resolving the API key from the environment or
// .resp/.env when Config.APIKey is empty.
func New(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = env.GetAPIKey(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		verbose:    cfg.Verbose,
	}, nil
}

// Model returns the model identifier the client sends requests to.
func (c *Client) Model() string { return c.model }

// GenerateRequest is one streaming generation call.
type GenerateRequest struct {
	Contents         []Content
	GenerationConfig *GenerationConfig
	Grounding        bool // attach the googleSearch tool
}

// StreamGenerate posts a streamGenerateContent request and invokes fn for
// every decoded chunk, in order, on the calling goroutine. A non-nil
// error from fn stops the stream and is returned unchanged.
func (c *Client) StreamGenerate(ctx context.Context, req GenerateRequest, fn func(Chunk) error) error {
	apiReq := apiRequest{
		Contents:         req.Contents,
		GenerationConfig: req.GenerationConfig,
	}
	if req.Grounding {
		apiReq.Tools = []Tool{{GoogleSearch: &GoogleSearch{}}}
		apiReq.ToolConfig = &ToolConfig{FunctionCallingConfig: FunctionCallingConfig{Mode: "AUTO"}}
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/" + c.model + ":streamGenerateContent?alt=sse"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	if c.verbose {
		fmt.Fprintf(os.Stderr, "[gemini] Model: %s, Request: %d bytes\n", c.model, len(body))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.decodeError(resp)
	}
	return decodeStream(resp.Body, fn)
}

// decodeStream reads SSE-framed lines and feeds decoded chunks to fn.
// JSON payloads may span several lines, so undecodable text accumulates
// in a buffer until it parses; the server may also batch chunks into a
// JSON array.
func decodeStream(body io.Reader, fn func(Chunk) error) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buf strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "data: [DONE]" {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if line == "" {
			continue
		}
		buf.WriteString(line)

		chunks, ok := decodeChunks(buf.String())
		if !ok {
			continue // incomplete JSON, wait for more lines
		}
		buf.Reset()
		for _, ch := range chunks {
			if err := fn(ch); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}
	if buf.Len() > 0 {
		return fmt.Errorf("stream ended with undecodable data (%d bytes)", buf.Len())
	}
	return nil
}

// decodeChunks parses a payload that is either a single chunk object or
// an array of chunks.
func decodeChunks(payload string) ([]Chunk, bool) {
	data := []byte(payload)
	var single Chunk
	if err := json.Unmarshal(data, &single); err == nil {
		return []Chunk{single}, true
	}
	var many []Chunk
	if err := json.Unmarshal(data, &many); err == nil {
		return many, true
	}
	return nil, false
}

// ListModels retrieves the available model names, mirroring the
// /v1beta/models listing endpoint.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	endpoint := c.baseURL + "/models?key=" + url.QueryEscape(c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var out modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}
	return out.Models, nil
}

// decodeError turns a non-200 response into an error, preferring the
// structured API error body when present.
func (c *Client) decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini API error (status %d, %s): %s",
			resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
	}
	return fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(data))
}

// Close releases HTTP client resources.
func (c *Client) Close() error {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}
