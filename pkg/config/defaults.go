package config

import "github.com/lada-dev/lada/pkg/llm"

// DefaultPath is the project-relative location of the configuration file.
const DefaultPath = ".lada_config.yml"

// Built-in defaults, used when no configuration file exists and to fill gaps
// during migration.
const (
	DefaultModel      = "codellama:7b"
	DefaultOllamaHost = "http://localhost:11434"
	DefaultMLXHost    = "http://localhost:8080"

	DefaultTimeout          = 120 // seconds
	DefaultMaxRetries       = 3
	DefaultTemperature      = 0.7
	DefaultAutoSaveInterval = 300 // seconds
)

// Default returns the built-in configuration: Ollama on its standard port,
// everything stored under .lada/.
func Default() Config {
	return Config{
		Version: CurrentVersion,
		Model: ModelConfig{
			DefaultModel: DefaultModel,
			Temperature:  DefaultTemperature,
			Engines: map[llm.EngineKind]EngineConfig{
				llm.EngineOllama: {
					Host:       DefaultOllamaHost,
					Timeout:    DefaultTimeout,
					MaxRetries: DefaultMaxRetries,
				},
			},
		},
		SessionDir:       ".lada/sessions",
		PlanDir:          ".lada/plans",
		BackupDir:        ".lada/backups",
		AutoSave:         true,
		AutoSaveInterval: DefaultAutoSaveInterval,
	}
}
