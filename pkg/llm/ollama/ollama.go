// Package ollama provides an llm.Client for an Ollama server's generate API.
package ollama

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lada-dev/lada/pkg/llm"
	"github.com/lada-dev/lada/pkg/llm/engineclient"
)

const (
	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
	// The Ollama root answers a plain 200 when the server is up.
	healthPath = "/"
)

var _ llm.Client = (*Client)(nil)

// Client talks to one Ollama endpoint.
type Client struct {
	engineclient.EngineClient

	// Extra engine options from configuration, merged under every request's
	// options map. Per-request Extra wins on conflict.
	Extra map[string]any
}

// New creates a Client for the given host.
func New(host string, timeout time.Duration, maxRetries int, extra map[string]any) *Client {
	return &Client{
		EngineClient: engineclient.New(llm.EngineOllama, host, timeout, maxRetries),
		Extra:        extra,
	}
}

// Generate performs a non-streaming /api/generate round trip.
func (c *Client) Generate(ctx context.Context, req llm.Request) (llm.Result, error) {
	var resp apiResponse
	if err := c.PostJSON(ctx, generatePath, req.Model, c.buildRequest(req, false), &resp); err != nil {
		return llm.Result{}, err
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}

	return llm.Result{
		Text:       resp.Response,
		Model:      model,
		TokensUsed: resp.EvalCount,
	}, nil
}

// Stream performs a streaming /api/generate call. Ollama answers one JSON
// document per line; the final line carries done=true.
func (c *Client) Stream(ctx context.Context, req llm.Request, fn llm.StreamFunc) error {
	return c.StreamLines(ctx, generatePath, req.Model, c.buildRequest(req, true), func(line []byte) error {
		var chunk apiResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return &llm.EngineError{Engine: llm.EngineOllama, Model: req.Model, Message: "undecodable stream chunk: " + err.Error()}
		}

		if chunk.Response != "" {
			if err := fn(chunk.Response); err != nil {
				return err
			}
		}

		if chunk.Done {
			return engineclient.ErrStop
		}

		return nil
	})
}

// ListModels queries /api/tags for the locally available model names.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var resp tagsResponse
	if err := c.GetJSON(ctx, tagsPath, "", &resp); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}

	return names, nil
}

// IsAvailable probes the server root.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.Probe(ctx, healthPath)
}

func (c *Client) buildRequest(req llm.Request, stream bool) apiRequest {
	options := make(map[string]any, len(c.Extra)+len(req.Extra)+2)

	for k, v := range c.Extra {
		options[k] = v
	}
	for k, v := range req.Extra {
		options[k] = v
	}

	if req.Temperature != 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	return apiRequest{
		Model:   req.Model,
		Prompt:  req.Prompt,
		Stream:  stream,
		Options: options,
	}
}

// --- wire types ---

type apiRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type apiResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

type tagsResponse struct {
	Models []tagModel `json:"models"`
}

type tagModel struct {
	Name       string `json:"name"`
	ModifiedAt string `json:"modified_at"`
	Size       int64  `json:"size"`
	Digest     string `json:"digest"`
}
