package notify

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Builder creates a Notifier from a config entry.
type Builder func(cfg NotifierConfig, log *zap.Logger) (Notifier, error)

// Registry maps notifier types to builders.
type Registry interface {
	Register(typ string, builder Builder)
	NotifierFor(cfg NotifierConfig, log *zap.Logger) (Notifier, error)
}

type registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry returns a registry with optional pre-registered builders.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{
		builders: make(map[string]Builder),
	}
	for typ, b := range builders {
		r.Register(typ, b)
	}
	return r
}

// Register associates a builder with a notifier type.
func (r *registry) Register(typ string, builder Builder) {
	if typ = strings.TrimSpace(strings.ToLower(typ)); typ == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[typ] = builder
	r.mu.Unlock()
}

// NotifierFor returns the notifier built for the provided config.
func (r *registry) NotifierFor(cfg NotifierConfig, log *zap.Logger) (Notifier, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("notifier %q has no type configured", cfg.ID)
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no notifier registered for type %q", cfg.Type)
	}
	return builder(cfg, log)
}

// DefaultRegistry wires up known notifiers.
func DefaultRegistry() Registry {
	builders := map[string]Builder{
		TypeHTTP: newHTTPNotifier,
		TypeLog:  newLogNotifier,
	}
	return NewRegistry(builders)
}

// BuildAll instantiates notifiers for configs using the registry.
func BuildAll(reg Registry, cfgs []NotifierConfig, log *zap.Logger) ([]Notifier, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	var sinks []Notifier
	for _, cfg := range cfgs {
		sink, err := reg.NotifierFor(cfg, log)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}
