// Package registry resolves task kinds and model overrides to ready backend
// clients, constructing at most one client per distinct engine configuration
// and reusing it for the life of the process.
package registry

import (
	"fmt"
	"sync"

	"github.com/lada-dev/lada/pkg/config"
	"github.com/lada-dev/lada/pkg/llm"
	"github.com/lada-dev/lada/pkg/llm/mlx"
	"github.com/lada-dev/lada/pkg/llm/ollama"
	"github.com/mitchellh/hashstructure/v2"
)

// factories maps each engine kind to its client constructor. The set is
// closed on purpose: backends are added here, not discovered at runtime.
var factories = map[llm.EngineKind]func(config.EngineConfig) llm.Client{
	llm.EngineOllama: func(ec config.EngineConfig) llm.Client {
		return ollama.New(ec.Host, ec.TimeoutDuration(), ec.MaxRetries, ec.Extra)
	},
	llm.EngineMLX: func(ec config.EngineConfig) llm.Client {
		return mlx.New(ec.Host, ec.TimeoutDuration(), ec.MaxRetries)
	},
}

// cacheKey identifies one live client: the engine kind plus a structural hash
// of its resolved connection settings.
type cacheKey struct {
	engine llm.EngineKind
	config uint64
}

// Registry is a construct-once client cache scoped to one process run. The
// zero value is not usable; create instances with New so tests can hold
// independent registries.
type Registry struct {
	mu      sync.Mutex
	clients map[cacheKey]llm.Client
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{clients: make(map[cacheKey]llm.Client)}
}

// Resolve picks the effective model for a task and returns a ready client for
// its engine along with the parsed identifier (callers stamp Request.Model
// from it). Resolution order: the explicit override, then the task-specific
// configuration field, then the default model. Repeated calls that land on
// the same engine configuration return the identical client instance.
func (r *Registry) Resolve(task llm.Task, override string, cfg config.Config) (llm.Client, llm.Identifier, error) {
	raw := override
	if raw == "" {
		raw = cfg.Model.ModelFor(task)
	}

	id, err := llm.ParseIdentifier(raw, llm.EngineOllama)
	if err != nil {
		return nil, llm.Identifier{}, err
	}

	engineCfg, ok := cfg.Model.Engines[id.Engine]
	if !ok {
		return nil, llm.Identifier{}, &llm.UnknownEngineError{Kind: id.Engine}
	}

	client, err := r.client(id.Engine, engineCfg)
	if err != nil {
		return nil, llm.Identifier{}, err
	}

	return client, id, nil
}

// ClientFor returns the cached client for a specific engine kind, using its
// configuration block. It shares the same cache as Resolve.
func (r *Registry) ClientFor(kind llm.EngineKind, cfg config.Config) (llm.Client, error) {
	engineCfg, ok := cfg.Model.Engines[kind]
	if !ok {
		return nil, &llm.UnknownEngineError{Kind: kind}
	}

	return r.client(kind, engineCfg)
}

// client returns the cached client for (kind, engineCfg), constructing it on
// first use. The lock spans construction so concurrent callers cannot build
// duplicate clients for the same key.
func (r *Registry) client(kind llm.EngineKind, engineCfg config.EngineConfig) (llm.Client, error) {
	hash, err := hashstructure.Hash(engineCfg, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, fmt.Errorf("registry: hash engine config: %w", err)
	}

	key := cacheKey{engine: kind, config: hash}

	r.mu.Lock()
	defer r.mu.Unlock()

	if client, ok := r.clients[key]; ok {
		return client, nil
	}

	factory, ok := factories[kind]
	if !ok {
		return nil, &llm.UnknownEngineError{Kind: kind}
	}

	client := factory(engineCfg)
	r.clients[key] = client

	return client, nil
}
