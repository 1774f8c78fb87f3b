package llm

import (
	"fmt"
	"strings"
)

// Identifier is a parsed model identifier: an engine kind plus the
// engine-native model name (which may itself contain colons, e.g. an Ollama
// tag like "codellama:7b").
type Identifier struct {
	Engine EngineKind
	Name   string
}

// String renders the identifier in its user-facing "engine:name" form.
func (id Identifier) String() string {
	return string(id.Engine) + ":" + id.Name
}

// ParseIdentifier decodes a user-supplied model string into an Identifier.
//
// The check is a fixed closed-set match, not a heuristic: only when the
// segment before the first colon case-insensitively names a known engine is
// the string split there, with everything after that colon (including further
// colons) kept as the model name. Any other string, including names whose
// prefix matches no engine, is taken whole as a model name under the fallback
// engine, so model names containing colons are never silently misparsed.
func ParseIdentifier(raw string, fallback EngineKind) (Identifier, error) {
	if raw == "" {
		return Identifier{}, fmt.Errorf("%w: empty model identifier", ErrInvalidIdentifier)
	}

	if prefix, rest, ok := strings.Cut(raw, ":"); ok {
		if kind, known := matchEngine(prefix); known {
			if rest == "" {
				return Identifier{}, fmt.Errorf("%w: %q has an engine prefix but no model name", ErrInvalidIdentifier, raw)
			}

			return Identifier{Engine: kind, Name: rest}, nil
		}
	}

	return Identifier{Engine: fallback, Name: raw}, nil
}

// matchEngine reports whether s case-insensitively names a known engine.
func matchEngine(s string) (EngineKind, bool) {
	for _, kind := range KnownEngines() {
		if strings.EqualFold(s, string(kind)) {
			return kind, true
		}
	}

	return "", false
}
