package llm

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier is returned by ParseIdentifier for model strings that
// cannot name a model.
var ErrInvalidIdentifier = errors.New("llm: invalid model identifier")

// UnknownEngineError is returned when an identifier resolves to an engine
// kind that has no configuration entry or no registered client factory.
type UnknownEngineError struct {
	Kind EngineKind
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("llm: unknown engine %q (no engine configuration for it; known engines: %v)", e.Kind, KnownEngines())
}

// ConnectionError means the engine was unreachable after all retry attempts.
type ConnectionError struct {
	Engine   EngineKind
	Model    string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("llm: %s engine unreachable for model %q after %d attempt(s): %v", e.Engine, e.Model, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// TimeoutError means the engine did not answer within the configured timeout
// after all retry attempts.
type TimeoutError struct {
	Engine   EngineKind
	Model    string
	Attempts int
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("llm: %s engine timed out for model %q after %d attempt(s): %v", e.Engine, e.Model, e.Attempts, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// EngineError is a definitive answer from the backend that the request cannot
// succeed: a non-2xx status (other than 5xx transport trouble) or a response
// body the client cannot decode. It is never retried; an unknown model name
// does not become known by asking again.
type EngineError struct {
	Engine     EngineKind
	Model      string
	StatusCode int // 0 when the response body was malformed rather than the status
	Message    string
}

func (e *EngineError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm: %s engine rejected model %q: status %d: %s", e.Engine, e.Model, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("llm: %s engine returned a malformed response for model %q: %s", e.Engine, e.Model, e.Message)
}
