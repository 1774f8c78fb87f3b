// Package llm defines the engine-agnostic surface of the model abstraction
// layer: the EngineKind enumeration, model identifier parsing, the Client
// capability interface every backend satisfies, and the error taxonomy shared
// by all engines.
package llm

import "context"

// EngineKind identifies an inference backend. The set of kinds is closed:
// each value maps to exactly one Client implementation.
type EngineKind string

const (
	EngineOllama EngineKind = "ollama"
	EngineMLX    EngineKind = "mlx"
)

// KnownEngines returns all engine kinds this build can construct clients for.
func KnownEngines() []EngineKind {
	return []EngineKind{EngineOllama, EngineMLX}
}

// Task is the kind of work a caller wants a model for. Configuration may
// select a different model per task.
type Task string

const (
	TaskChat Task = "chat"
	TaskPlan Task = "plan"
	TaskCode Task = "code"
)

// Request describes a single generation call. Model is the engine-native
// model name (no engine prefix). Zero Temperature and MaxTokens mean "use the
// engine default". Extra carries engine-specific options passed through to
// engines that accept them.
type Request struct {
	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int
	Extra       map[string]any
}

// Result is the outcome of a successful generation. Warnings lists request
// parameters the engine does not support and therefore ignored; an ignored
// parameter is surfaced here rather than failing the call.
type Result struct {
	Text       string
	Model      string
	TokensUsed int
	Warnings   []string
}

// StreamFunc receives one chunk of generated text. Returning a non-nil error
// aborts the stream; the client closes the underlying connection before
// Stream returns.
type StreamFunc func(chunk string) error

// Client is the capability interface for one inference engine. A Client is
// safe for reuse across requests; construction and caching is the registry's
// job.
type Client interface {
	// Generate performs a single round-trip generation. Transport failures
	// are retried per the engine's retry policy before a ConnectionError or
	// TimeoutError is returned; engine-reported failures (EngineError) are
	// never retried.
	Generate(ctx context.Context, req Request) (Result, error)

	// Stream generates incrementally, invoking fn once per chunk in
	// generation order. Cancelling ctx or returning an error from fn stops
	// the generation and releases the connection. A stream is not
	// restartable; a new call starts a new generation.
	Stream(ctx context.Context, req Request, fn StreamFunc) error

	// ListModels queries the backend for its available model names. An empty
	// slice is a valid answer, not an error.
	ListModels(ctx context.Context) ([]string, error)

	// IsAvailable reports whether the backend is reachable. It uses a short
	// fixed timeout and never returns an error; unreachable maps to false.
	IsAvailable(ctx context.Context) bool
}
