package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"

	"github.com/lada-dev/lada/pkg/llm"
)

// ValidationError reports a configuration field that failed schema checking.
// Field is a dotted path into the document (e.g. "model.temperature").
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Reason)
}

// Validate runs schema checks on a migrated configuration. It returns a
// *ValidationError naming the first offending field.
func (c Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ValidationError{Field: "version", Reason: fmt.Sprintf("must be %d after migration, got %d", CurrentVersion, c.Version)}
	}

	if err := c.Model.validate(); err != nil {
		return err
	}

	if c.AutoSaveInterval < 0 {
		return &ValidationError{Field: "auto_save_interval", Reason: "must not be negative"}
	}

	return nil
}

func (m ModelConfig) validate() error {
	if m.DefaultModel == "" {
		return &ValidationError{Field: "model.default_model", Reason: "a default model is required"}
	}

	if m.Temperature < 0 || m.Temperature > 2 {
		return &ValidationError{Field: "model.temperature", Reason: fmt.Sprintf("must be within [0, 2], got %g", m.Temperature)}
	}

	if m.MaxTokens < 0 {
		return &ValidationError{Field: "model.max_tokens", Reason: "must not be negative"}
	}

	for _, kind := range slices.Sorted(maps.Keys(m.Engines)) {
		if err := m.Engines[kind].validate(kind); err != nil {
			return err
		}
	}

	// Every configured model identifier must resolve to an engine that has a
	// connection block.
	for _, sel := range []struct {
		field string
		raw   string
	}{
		{"model.default_model", m.DefaultModel},
		{"model.chat_model", m.ChatModel},
		{"model.plan_model", m.PlanModel},
		{"model.code_model", m.CodeModel},
	} {
		if sel.raw == "" {
			continue
		}

		id, err := llm.ParseIdentifier(sel.raw, llm.EngineOllama)
		if err != nil {
			return &ValidationError{Field: sel.field, Reason: err.Error()}
		}

		if _, ok := m.Engines[id.Engine]; !ok {
			return &ValidationError{Field: sel.field, Reason: fmt.Sprintf("engine %q has no entry under model.engines", id.Engine)}
		}
	}

	return nil
}

func (e EngineConfig) validate(kind llm.EngineKind) error {
	field := func(name string) string { return fmt.Sprintf("model.engines.%s.%s", kind, name) }

	u, err := url.Parse(e.Host)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &ValidationError{Field: field("host"), Reason: fmt.Sprintf("must be an absolute URL, got %q", e.Host)}
	}

	if e.Timeout < 0 {
		return &ValidationError{Field: field("timeout"), Reason: "must not be negative"}
	}

	if e.MaxRetries < 0 {
		return &ValidationError{Field: field("max_retries"), Reason: "must not be negative"}
	}

	return nil
}
