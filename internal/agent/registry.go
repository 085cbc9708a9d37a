package agent

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gosuda/frontdesk/internal/domain"
)

// Registry maps domains to their handlers. Registration happens once at
// startup; there is no API to rebind a domain or to hand a handler another
// handler's tools.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.Domain]Handler
}

func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[domain.Domain]Handler),
	}
}

// Register binds a handler to its primary domain. Rebinding is a wiring
// bug.
func (r *Registry) Register(h Handler) error {
	return r.RegisterAs(h.Domain(), h)
}

// RegisterAs binds a handler to an additional domain. Used for handlers
// that serve several domains, like the conversation agent.
func (r *Registry) RegisterAs(d domain.Domain, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[d]; exists {
		return fmt.Errorf("agent.Registry.RegisterAs(%s): %w", d, domain.ErrConflict)
	}
	r.handlers[d] = h

	return nil
}

// Resolve returns the handler for a domain.
func (r *Registry) Resolve(d domain.Domain) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[d]
	if !ok {
		return nil, fmt.Errorf("agent.Registry.Resolve(%s): %w", d, domain.ErrNotFound)
	}

	return h, nil
}

// Domains returns registered domains in sorted order.
func (r *Registry) Domains() []domain.Domain {
	r.mu.RLock()
	defer r.mu.RUnlock()

	domains := make([]domain.Domain, 0, len(r.handlers))
	for d := range r.handlers {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

	return domains
}
