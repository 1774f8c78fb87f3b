package config

import (
	"fmt"
	"maps"
)

// CurrentVersion is the schema version this build reads and writes.
const CurrentVersion = 2

// UnsupportedVersionError is returned for documents from a future schema
// version. The loader refuses to guess at unknown schemas.
type UnsupportedVersionError struct {
	Version int
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("config: unsupported configuration version %d (this build supports up to %d)", e.Version, CurrentVersion)
}

// migrations holds one pure step per version bump, keyed by source version.
// Chaining them reaches CurrentVersion from any historical input.
var migrations = map[int]func(map[string]any) map[string]any{
	1: migrateV1toV2,
}

// Migrate upgrades a raw parsed document to the current schema version. A
// missing version field means v1. Documents already at the current version
// are returned unchanged; input maps are never mutated. Migration never
// touches disk; persisting the upgraded document is the caller's decision.
func Migrate(doc map[string]any) (map[string]any, error) {
	if doc == nil {
		doc = map[string]any{}
	}

	version := docVersion(doc)
	if version > CurrentVersion {
		return nil, &UnsupportedVersionError{Version: version}
	}

	for version < CurrentVersion {
		step, ok := migrations[version]
		if !ok {
			return nil, &UnsupportedVersionError{Version: version}
		}

		doc = step(doc)
		version = docVersion(doc)
	}

	return doc, nil
}

// migrateV1toV2 lifts the flat v1 model block into the per-engine v2 shape:
// ollama_host and timeout move into an engines.ollama entry, default_model
// and the generation parameters stay, and the per-task model fields are left
// unset so they fall back to the default at resolution time. Observable
// generation behavior is unchanged.
func migrateV1toV2(doc map[string]any) map[string]any {
	out := maps.Clone(doc)
	out["version"] = 2

	oldModel := subMap(doc, "model")
	model := maps.Clone(oldModel)
	if model == nil {
		model = map[string]any{}
	}

	host := DefaultOllamaHost
	if h, ok := oldModel["ollama_host"].(string); ok && h != "" {
		host = h
	}

	timeout := DefaultTimeout
	if t, ok := intValue(oldModel["timeout"]); ok {
		timeout = t
	}

	if _, ok := model["default_model"]; !ok {
		model["default_model"] = DefaultModel
	}

	delete(model, "ollama_host")
	delete(model, "timeout")

	model["engines"] = map[string]any{
		"ollama": map[string]any{
			"host":        host,
			"timeout":     timeout,
			"max_retries": DefaultMaxRetries,
		},
	}

	out["model"] = model

	return out
}

// docVersion reads the document's version field; absent means v1.
func docVersion(doc map[string]any) int {
	v, ok := intValue(doc["version"])
	if !ok || v < 1 {
		return 1
	}

	return v
}

func subMap(doc map[string]any, key string) map[string]any {
	m, _ := doc[key].(map[string]any)

	return m
}

// intValue normalizes the numeric types the YAML decoder may produce.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
