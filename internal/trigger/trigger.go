// Package trigger is a small named-callback registry. Components register
// handlers against a trigger name and the host fires it when the condition
// occurs, e.g. after the projects grid is swapped in.
package trigger

import (
	"context"
	"sync"
)

const (
	ProjectsRendered = "projects:rendered"
	ProjectsFailed   = "projects:failed"
	ContactSubmitted = "contact:submitted"
)

// Event describes one firing.
type Event struct {
	Name  string
	Count int
	Err   error
}

type Handler func(ctx context.Context, ev Event)

// Registry is safe for concurrent use. A nil *Registry ignores Fire.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Registry {
	return &Registry{handlers: make(map[string][]Handler)}
}

func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = append(r.handlers[name], h)
}

// Fire runs the handlers for ev.Name in registration order.
func (r *Registry) Fire(ctx context.Context, ev Event) {
	if r == nil {
		return
	}
	r.mu.RLock()
	hs := append([]Handler(nil), r.handlers[ev.Name]...)
	r.mu.RUnlock()

	for _, h := range hs {
		h(ctx, ev)
	}
}
