// Package config defines the versioned LADA configuration document, its
// on-disk YAML form, schema validation, and the migration chain that upgrades
// older documents to the current version.
package config

import (
	"time"

	"github.com/lada-dev/lada/pkg/llm"
)

// EngineConfig holds per-engine connection settings. Durations are stored as
// whole seconds in YAML. The value is immutable once loaded.
type EngineConfig struct {
	Host       string         `yaml:"host"`
	Timeout    int            `yaml:"timeout"`
	MaxRetries int            `yaml:"max_retries"`
	Extra      map[string]any `yaml:"extra,omitempty"`
}

// TimeoutDuration returns the request timeout as a time.Duration.
func (e EngineConfig) TimeoutDuration() time.Duration {
	return time.Duration(e.Timeout) * time.Second
}

// ModelConfig selects models per task and carries global generation
// parameters plus the engine connection blocks.
type ModelConfig struct {
	DefaultModel string  `yaml:"default_model"`
	ChatModel    string  `yaml:"chat_model,omitempty"`
	PlanModel    string  `yaml:"plan_model,omitempty"`
	CodeModel    string  `yaml:"code_model,omitempty"`
	Temperature  float64 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens,omitempty"`

	Engines map[llm.EngineKind]EngineConfig `yaml:"engines"`
}

// ModelFor returns the raw model identifier for a task: the task-specific
// override when set, otherwise the default model.
func (m ModelConfig) ModelFor(task llm.Task) string {
	switch task {
	case llm.TaskChat:
		if m.ChatModel != "" {
			return m.ChatModel
		}
	case llm.TaskPlan:
		if m.PlanModel != "" {
			return m.PlanModel
		}
	case llm.TaskCode:
		if m.CodeModel != "" {
			return m.CodeModel
		}
	}

	return m.DefaultModel
}

// Config is the root configuration document.
type Config struct {
	Version int         `yaml:"version"`
	Model   ModelConfig `yaml:"model"`

	SessionDir string `yaml:"session_dir"`
	PlanDir    string `yaml:"plan_dir"`
	BackupDir  string `yaml:"backup_dir"`

	AutoSave         bool `yaml:"auto_save"`
	AutoSaveInterval int  `yaml:"auto_save_interval"` // seconds
}

// AutoSaveEvery returns the autosave interval as a time.Duration.
func (c Config) AutoSaveEvery() time.Duration {
	return time.Duration(c.AutoSaveInterval) * time.Second
}
