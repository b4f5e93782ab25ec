package breaker

import (
	"sync"
	"time"
)

// Channel threshold defaults. Each delivery channel gets its own breaker so
// one failing downstream cannot block the others.
var defaultConfigs = map[string]Config{
	"webhook":  {MaxFailures: 5, ResetTimeout: 60 * time.Second},
	"email":    {MaxFailures: 3, ResetTimeout: 30 * time.Second},
	"telegram": {MaxFailures: 3, ResetTimeout: 30 * time.Second},
}

// fallbackConfig covers channels without an explicit entry.
var fallbackConfig = Config{MaxFailures: 3, ResetTimeout: 30 * time.Second}

// Registry holds one breaker per named channel. It is constructed explicitly
// and passed to its consumers so tests can build isolated instances instead
// of sharing process-wide state.
type Registry struct {
	mu       sync.Mutex
	configs  map[string]Config
	breakers map[string]*Breaker
}

// NewRegistry creates a registry using the default per-channel thresholds,
// overridden by any entries in overrides.
func NewRegistry(overrides map[string]Config) *Registry {
	configs := make(map[string]Config, len(defaultConfigs)+len(overrides))
	for name, cfg := range defaultConfigs {
		configs[name] = cfg
	}
	for name, cfg := range overrides {
		configs[name] = cfg
	}
	return &Registry{
		configs:  configs,
		breakers: make(map[string]*Breaker),
	}
}

// Get returns the breaker for the named channel, creating it on first use.
func (r *Registry) Get(channel string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.breakers[channel]; ok {
		return b
	}
	cfg, ok := r.configs[channel]
	if !ok {
		cfg = fallbackConfig
	}
	b := New(cfg)
	r.breakers[channel] = b
	return b
}
