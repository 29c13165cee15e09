package kitchen

import (
	"context"
	"sync"
)

// Registry holds one engine per tenant. Engines load lazily on first use.
type Registry struct {
	store Store
	opts  []Option

	mu      sync.Mutex
	engines map[string]*Engine
	loadMu  map[string]*sync.Mutex
}

func NewRegistry(store Store, opts ...Option) *Registry {
	return &Registry{
		store:   store,
		opts:    opts,
		engines: make(map[string]*Engine),
		loadMu:  make(map[string]*sync.Mutex),
	}
}

// Engine returns the loaded engine for tenant, loading it if needed. A failed
// load is retried on the next call.
func (r *Registry) Engine(ctx context.Context, tenant string) (*Engine, error) {
	r.mu.Lock()
	e, ok := r.engines[tenant]
	if !ok {
		e = NewEngine(tenant, r.store, r.opts...)
		r.engines[tenant] = e
		r.loadMu[tenant] = &sync.Mutex{}
	}
	lm := r.loadMu[tenant]
	r.mu.Unlock()

	if e.Loaded() {
		return e, nil
	}
	lm.Lock()
	defer lm.Unlock()
	if e.Loaded() {
		return e, nil
	}
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply routes a feed event to its tenant's engine. Events for a tenant
// nobody has opened yet still land, so the first Load can reconcile them.
func (r *Registry) Apply(ev ChangeEvent) {
	if ev.TenantSlug == "" {
		return
	}
	r.mu.Lock()
	e, ok := r.engines[ev.TenantSlug]
	if !ok {
		e = NewEngine(ev.TenantSlug, r.store, r.opts...)
		r.engines[ev.TenantSlug] = e
		r.loadMu[ev.TenantSlug] = &sync.Mutex{}
	}
	r.mu.Unlock()
	e.Apply(ev)
}

// Tenants lists the tenants with an engine.
func (r *Registry) Tenants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.engines))
	for t := range r.engines {
		out = append(out, t)
	}
	return out
}
