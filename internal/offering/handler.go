package offering

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Handler is the contract every offering implements.
//
// Validate must be pure and fast, rejecting malformed requests before any
// paid work. QuotePrice describes the charge rationale and may be requested
// independently of execution. Execute may perform arbitrary I/O but must
// never propagate a failure: every failure mode becomes an ExecutionResult
// with Error set and a deliverable that explains it in human terms.
// Handlers must be safe under concurrent invocation.
type Handler interface {
	ID() string
	Description() string
	Validate(req Request) ValidationResult
	QuotePrice(req Request) string
	Execute(ctx context.Context, req Request) ExecutionResult
}

// Catalog maps offering identifiers to handlers. Registration happens once at
// daemon startup; lookups are concurrent.
type Catalog struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{handlers: make(map[string]Handler)}
}

// Register adds a handler, rejecting duplicate identifiers.
func (c *Catalog) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("register offering: nil handler")
	}
	id := h.ID()
	if id == "" {
		return fmt.Errorf("register offering: empty id")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.handlers[id]; exists {
		return fmt.Errorf("register offering: duplicate id %q", id)
	}
	c.handlers[id] = h
	return nil
}

// Resolve returns the handler for id.
func (c *Catalog) Resolve(id string) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handlers[id]
	return h, ok
}

// IDs returns all registered offering identifiers, sorted.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.handlers))
	for id := range c.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered offerings.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}
