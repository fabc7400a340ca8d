package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/olapd/olapd/pkg/logging"
	"github.com/olapd/olapd/pkg/metrics"
)

// Registry caches catalogs loaded from a Source. It is safe for concurrent use.
type Registry struct {
	source Source
	log    *slog.Logger

	mu     sync.RWMutex
	loaded map[string]*Catalog

	// loads dedupes concurrent first activations of the same name.
	loads singleflight.Group
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used by the registry.
func WithLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRegistry creates a registry over src.
func NewRegistry(src Source, opts ...RegistryOption) *Registry {
	r := &Registry{
		source: src,
		log:    logging.Nop(),
		loaded: make(map[string]*Catalog),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Names lists the catalogs of the underlying source.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	return r.source.Names(ctx)
}

// Activate returns the named catalog, loading it on first use. Activating
// an already loaded catalog returns the cached value without touching the
// source. Loading one catalog never blocks activations of others.
func (r *Registry) Activate(ctx context.Context, name string) (*Catalog, error) {
	if cat, ok := r.cached(name); ok {
		return cat, nil
	}

	v, err, _ := r.loads.Do(name, func() (any, error) {
		if cat, ok := r.cached(name); ok {
			return cat, nil
		}
		cat, err := r.source.Load(ctx, name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.loaded[name] = cat
		n := len(r.loaded)
		r.mu.Unlock()

		if metrics.CatalogsLoaded != nil {
			metrics.CatalogsLoaded.Set(float64(n))
		}
		r.log.Info("catalog activated", "catalog", name, "cubes", len(cat.Cubes))
		return cat, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate catalog %s: %w", name, err)
	}
	return v.(*Catalog), nil
}

func (r *Registry) cached(name string) (*Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cat, ok := r.loaded[name]
	return cat, ok
}

// Catalogs activates and returns every catalog of the source. Catalogs that
// fail to load are logged and skipped.
func (r *Registry) Catalogs(ctx context.Context) ([]*Catalog, error) {
	names, err := r.Names(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Catalog, 0, len(names))
	for _, name := range names {
		cat, err := r.Activate(ctx, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			r.log.Warn("skipping catalog", "catalog", name, "error", err)
			continue
		}
		out = append(out, cat)
	}
	return out, nil
}

// Totals delegates to the source.
func (r *Registry) Totals(ctx context.Context, cube *Cube, measures []string) ([]float64, error) {
	return r.source.Totals(ctx, cube, measures)
}

// Forget drops a catalog from the cache so the next activation reloads it.
func (r *Registry) Forget(name string) {
	r.mu.Lock()
	delete(r.loaded, name)
	n := len(r.loaded)
	r.mu.Unlock()
	if metrics.CatalogsLoaded != nil {
		metrics.CatalogsLoaded.Set(float64(n))
	}
}

// Close closes the underlying source.
func (r *Registry) Close() error {
	return r.source.Close()
}
