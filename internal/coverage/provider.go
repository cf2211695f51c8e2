package coverage

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Provider hands out the process-wide catalog. Concurrent first callers share
// a single build; once built, the catalog is returned without locking the
// build path again. A failed build is retried by the next caller.
type Provider struct {
	builder   *Builder
	cachePath string

	group singleflight.Group

	mu      sync.RWMutex
	catalog Catalog
}

// NewProvider creates a catalog provider over the given builder and cache
// artifact location.
func NewProvider(builder *Builder, cachePath string) *Provider {
	return &Provider{builder: builder, cachePath: cachePath}
}

// Catalog returns the shared catalog, building it on first use.
func (p *Provider) Catalog(ctx context.Context) (Catalog, error) {
	p.mu.RLock()
	catalog := p.catalog
	p.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}

	v, err, _ := p.group.Do("catalog", func() (interface{}, error) {
		built, err := p.builder.LoadOrBuild(ctx, p.cachePath)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.catalog = built
		p.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Catalog), nil
}
