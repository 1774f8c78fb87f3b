package mlx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lada-dev/lada/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/completions", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "Qwen2.5-3B-Instruct", req["model"])
		assert.Equal(t, "hello", req["prompt"])
		assert.Equal(t, float64(128), req["max_tokens"])
		assert.NotContains(t, req, "temperature")

		_, _ = w.Write([]byte(`{
			"model": "Qwen2.5-3B-Instruct",
			"choices": [{"text": "hi there"}],
			"usage": {"prompt_tokens": 3, "completion_tokens": 5, "total_tokens": 8}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	result, err := c.Generate(context.Background(), llm.Request{
		Model:     "Qwen2.5-3B-Instruct",
		Prompt:    "hello",
		MaxTokens: 128,
	})

	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Text)
	assert.Equal(t, "Qwen2.5-3B-Instruct", result.Model)
	assert.Equal(t, 5, result.TokensUsed)
	assert.Empty(t, result.Warnings)
}

func TestGenerate_WarnsAboutUnsupportedParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"text":"ok"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	result, err := c.Generate(context.Background(), llm.Request{
		Model:       "m",
		Prompt:      "p",
		Temperature: 0.7,
		Extra:       map[string]any{"seed": 1, "mirostat": 2},
	})

	require.NoError(t, err)
	require.Len(t, result.Warnings, 3)
	assert.Contains(t, result.Warnings[0], "temperature")
	assert.Contains(t, result.Warnings[1], "mirostat")
	assert.Contains(t, result.Warnings[2], "seed")
}

func TestGenerate_EmptyChoicesIsEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	_, err := c.Generate(context.Background(), llm.Request{Model: "m", Prompt: "p"})

	var engineErr *llm.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, llm.EngineMLX, engineErr.Engine)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])

		_, _ = w.Write([]byte(
			`data: {"choices":[{"text":"Hel"}]}` + "\n\n" +
				`data: {"choices":[{"text":"lo"}]}` + "\n\n" +
				`data: [DONE]` + "\n",
		))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	var chunks []string
	err := c.Stream(context.Background(), llm.Request{Model: "m", Prompt: "p"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, chunks)
}

func TestStream_SkipsNonDataAndEmptyChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(
			`: keep-alive comment` + "\n" +
				`data: {"choices":[{"text":""}]}` + "\n" +
				`data: {"choices":[{"text":"only"}]}` + "\n" +
				`data: [DONE]` + "\n",
		))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	var chunks []string
	err := c.Stream(context.Background(), llm.Request{Model: "m", Prompt: "p"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, chunks)
}

func TestStream_UndecodableChunkIsEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data: {broken\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	err := c.Stream(context.Background(), llm.Request{Model: "m", Prompt: "p"}, func(string) error {
		return nil
	})

	var engineErr *llm.EngineError
	assert.ErrorAs(t, err, &engineErr)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id":"Qwen2.5-0.5B-Instruct"},{"id":"GLM-4.5-Air"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0)

	models, err := c.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Qwen2.5-0.5B-Instruct", "GLM-4.5-Air"}, models)
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	c := New(srv.URL, 5*time.Second, 0)

	assert.True(t, c.IsAvailable(context.Background()))

	srv.Close()

	assert.False(t, c.IsAvailable(context.Background()))
}
