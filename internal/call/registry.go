package call

import "fmt"

// Registry maps widget identifiers to their proxies. It is built once,
// before the owner loop starts, and never mutated afterwards, so lookups
// need no locking.
type Registry struct {
	proxies map[string]*Proxy
}

// NewRegistry builds the registry from a complete proxy set.
func NewRegistry(proxies map[string]*Proxy) *Registry {
	m := make(map[string]*Proxy, len(proxies))
	for id, p := range proxies {
		m[id] = p
	}
	return &Registry{proxies: m}
}

// Lookup returns the proxy for id. An unregistered id is a wiring bug, not
// a runtime race, so it fails immediately with ErrUnknownTarget.
func (r *Registry) Lookup(id string) (*Proxy, error) {
	p, ok := r.proxies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return p, nil
}

// IDs returns the registered identifiers, for diagnostics.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.proxies))
	for id := range r.proxies {
		ids = append(ids, id)
	}
	return ids
}
