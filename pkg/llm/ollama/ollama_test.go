package ollama

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
		require.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		assert.Equal(t, "codellama:7b", req["model"])
		assert.Equal(t, "write a haiku", req["prompt"])
		assert.Equal(t, false, req["stream"])

		options, ok := req["options"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 0.7, options["temperature"])
		assert.Equal(t, float64(256), options["num_predict"])
		assert.Equal(t, float64(42), options["seed"])

		_, _ = w.Write([]byte(`{"model":"codellama:7b","response":"old pond...","done":true,"eval_count":17}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0, map[string]any{"seed": 42})

	result, err := c.Generate(context.Background(), llm.Request{
		Model:       "codellama:7b",
		Prompt:      "write a haiku",
		Temperature: 0.7,
		MaxTokens:   256,
	})

	require.NoError(t, err)
	assert.Equal(t, "old pond...", result.Text)
	assert.Equal(t, "codellama:7b", result.Model)
	assert.Equal(t, 17, result.TokensUsed)
	assert.Empty(t, result.Warnings)
}

func TestGenerate_RequestExtraOverridesClientExtra(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		options := req["options"].(map[string]any)
		assert.Equal(t, float64(7), options["seed"])

		_, _ = w.Write([]byte(`{"response":"ok","done":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0, map[string]any{"seed": 42})

	_, err := c.Generate(context.Background(), llm.Request{
		Model:  "m",
		Prompt: "p",
		Extra:  map[string]any{"seed": 7},
	})

	require.NoError(t, err)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["stream"])

		_, _ = w.Write([]byte(
			`{"response":"Hello","done":false}` + "\n" +
				`{"response":", world","done":false}` + "\n" +
				`{"response":"","done":true,"eval_count":2}` + "\n",
		))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0, nil)

	var chunks []string
	err := c.Stream(context.Background(), llm.Request{Model: "m", Prompt: "p"}, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", ", world"}, chunks)
}

func TestStream_ConsumerCancelMidStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		flusher := w.(http.Flusher)
		for range 100 {
			_, _ = w.Write([]byte(`{"response":"chunk","done":false}` + "\n"))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := 0
	err := c.Stream(ctx, llm.Request{Model: "m", Prompt: "p"}, func(string) error {
		seen++
		if seen == 3 {
			cancel()
		}
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, seen)
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"codellama:7b"},{"name":"llama2:13b"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0, nil)

	models, err := c.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"codellama:7b", "llama2:13b"}, models)
}

func TestListModels_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second, 0, nil)

	models, err := c.ListModels(context.Background())

	require.NoError(t, err)
	assert.Empty(t, models)
}

func TestIsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Ollama is running"))
	}))

	c := New(srv.URL, 5*time.Second, 0, nil)

	assert.True(t, c.IsAvailable(context.Background()))

	srv.Close()

	assert.False(t, c.IsAvailable(context.Background()))
}
