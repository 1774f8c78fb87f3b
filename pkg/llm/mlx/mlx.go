// Package mlx provides an llm.Client for an MLX completion server speaking
// the OpenAI-style /v1/completions API.
package mlx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/lada-dev/lada/pkg/llm"
	"github.com/lada-dev/lada/pkg/llm/engineclient"
)

const (
	completionsPath = "/v1/completions"
	modelsPath      = "/v1/models"
	healthPath      = "/health"
)

// SSE framing used by the streaming completions endpoint.
var (
	ssePrefix = []byte("data:")
	sseDone   = []byte("[DONE]")
)

var _ llm.Client = (*Client)(nil)

// Client talks to one MLX server endpoint.
type Client struct {
	engineclient.EngineClient
}

// New creates a Client for the given host.
func New(host string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		EngineClient: engineclient.New(llm.EngineMLX, host, timeout, maxRetries),
	}
}

// Generate performs a non-streaming /v1/completions round trip. The MLX
// server takes no sampling options beyond max_tokens; a requested temperature
// or extra options are reported in Result.Warnings rather than sent or
// silently dropped.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	var resp apiResponse
	if err := c.PostJSON(ctx, completionsPath, req.Model, buildRequest(req, false), &resp); err != nil {
		return llm.Result{}, err
	}

	if len(resp.Choices) == 0 {
		return llm.Result{}, &llm.EngineError{Engine: llm.EngineMLX, Model: req.Model, Message: "empty choices in response"}
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	return llm.Result{
		Text:       resp.Choices[0].Text,
		Model:      model,
		TokensUsed: resp.Usage.CompletionTokens,
		Warnings:   unsupported(req),
	}, nil
}

// Stream performs a streaming /v1/completions call. Chunks arrive as
// server-sent events: "data: {json}" lines terminated by "data: [DONE]".
func (c *Client) Stream(ctx context.Context, req llm.Request, fn llm.StreamFunc) error {
	return c.StreamLines(ctx, completionsPath, req.Model, buildRequest(req, true), func(line []byte) error {
		if !bytes.HasPrefix(line, ssePrefix) {
			return nil
		}

		payload := bytes.TrimSpace(bytes.TrimPrefix(line, ssePrefix))
		if bytes.Equal(payload, sseDone) {
			return engineclient.ErrStop
		}

		var chunk apiResponse
		if err := json.Unmarshal(payload, &chunk); err != nil {
			return &llm.EngineError{Engine: llm.EngineMLX, Model: req.Model, Message: "undecodable stream chunk: " + err.Error()}
		}

		if len(chunk.Choices) == 0 || chunk.Choices[0].Text == "" {
			return nil
		}

		return fn(chunk.Choices[0].Text)
	})
}

// ListModels queries /v1/models for the served model names.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := c.GetJSON(ctx, modelsPath, "", &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		names = append(names, m.ID)
	}

	return names, nil
}

// IsAvailable probes the /health endpoint.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.Probe(ctx, healthPath)
}

func buildRequest(req llm.Request, stream bool) apiRequest {
	return apiRequest{
		Model:     req.Model,
		Prompt:    req.Prompt,
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
}

// unsupported lists request parameters the MLX API has no field for.
func unsupported(req llm.Request) []string {
	var warnings []string

	if req.Temperature != 0 {
		warnings = append(warnings, fmt.Sprintf("mlx engine does not support temperature; %g ignored", req.Temperature))
	}

	for _, k := range slices.Sorted(maps.Keys(req.Extra)) {
		warnings = append(warnings, fmt.Sprintf("mlx engine does not support extra option %q; ignored", k))
	}

	return warnings
}

// --- wire types ---

type apiRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`
	Stream    bool   `json:"stream,omitempty"`
}

type apiResponse struct {
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   apiUsage `json:"usage"`
}

type choice struct {
	Text string `json:"text"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type modelsResponse struct {
	Data []modelInfo `json:"data"`
}

type modelInfo struct {
	ID string `json:"id"`
}
