package provider

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/config"
)

// Factory builds an adapter from its configuration
type Factory func(cfg Config) (Adapter, error)

// Registry maps provider names to adapter factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry adapters register themselves into from init()
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// RegisterProvider registers a factory with the default registry
func RegisterProvider(name string, factory Factory) {
	if err := defaultRegistry.Register(name, factory); err != nil {
		panic(err)
	}
}

// Register adds a named factory
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("provider factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider '%s' already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Names lists registered providers in alphabetical order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named adapter
func (r *Registry) Create(name string, cfg Config) (Adapter, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Wrapf(errors.ErrProviderNotFound, "provider '%s'", name)
	}
	return factory(cfg)
}

// Resolver turns the current settings into a usable adapter
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver backed by registry
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns the adapter for the configured provider. Every failure wraps
// errors.ErrTranscriptionUnavailable: transcription disabled, provider unset or
// unknown, or credentials missing.
func (r *Resolver) Resolve(settings config.TranscriptionSettings) (Adapter, error) {
	return r.ResolveService(settings, settings.Provider)
}

// ResolveService returns the adapter for a specific provider name, typically the
// service recorded on an existing job.
func (r *Resolver) ResolveService(settings config.TranscriptionSettings, name string) (Adapter, error) {
	if !settings.Enabled {
		return nil, errors.Wrap(errors.ErrTranscriptionUnavailable, errors.ErrTranscriptionDisabled.Error())
	}
	if name == "" {
		return nil, errors.Wrap(errors.ErrTranscriptionUnavailable, "no provider selected")
	}

	ps := settings.ProviderSettings(name)
	adapter, err := r.registry.Create(name, Config{
		APIKey:      ps.APIKey,
		BaseURL:     ps.BaseURL,
		SpeechModel: ps.SpeechModel,
		Timeout:     time.Duration(ps.TimeoutSec) * time.Second,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrTranscriptionUnavailable, err.Error())
	}
	if !adapter.IsConfigured() {
		return nil, errors.Wrapf(errors.ErrTranscriptionUnavailable, "provider '%s' is missing credentials", name)
	}
	return adapter, nil
}
