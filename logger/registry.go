package logger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tracknine/spoor"
)

// A Registry caches facades by a logical key - typically the target
// log file or a component name - so repeated lookups reuse sinks
// instead of re-provisioning them.
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

func NewRegistry() *Registry {
	return &Registry{loggers: make(map[string]*Logger)}
}

// GetOrCreate returns the cached facade for key, constructing and
// caching one from cfg on first lookup.
//
// The whole check-then-create region runs under the registry lock, so
// concurrent first lookups of the same key provision sinks at most
// once. A reused facade is renamed to cfg.Name when one is given.
func (r *Registry) GetOrCreate(key string, cfg Config, opts ...LoggerOptFn) (*Logger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[key]; ok {
		if cfg.Name != "" {
			l.SetName(cfg.Name)
		}
		return l, nil
	}

	l, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	r.loggers[key] = l
	return l, nil
}

// Close releases the sinks of the facade cached under key and evicts it.
func (r *Registry) Close(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.loggers[key]
	if !ok {
		return fmt.Errorf("%w: logger %q", spoor.ErrNotExist, key)
	}

	delete(r.loggers, key)
	return l.Close()
}

// CloseAll releases every cached facade's sinks and empties the
// registry. Closing is attempted on all facades even when one fails.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for key, l := range r.loggers {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", key, err))
		}
		delete(r.loggers, key)
	}

	return errors.Join(errs...)
}

// Len reports how many facades are cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loggers)
}

var defaultRegistry = NewRegistry()

// GetOrCreate looks key up in the process-wide default registry.
func GetOrCreate(key string, cfg Config, opts ...LoggerOptFn) (*Logger, error) {
	return defaultRegistry.GetOrCreate(key, cfg, opts...)
}

// Close evicts key from the process-wide default registry.
func Close(key string) error { return defaultRegistry.Close(key) }

// CloseAll empties the process-wide default registry.
func CloseAll() error { return defaultRegistry.CloseAll() }
