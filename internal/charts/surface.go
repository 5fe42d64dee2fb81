package charts

import (
	"fmt"
	"html/template"
	"sync"
)

// Container is the element that holds a surface. Replacing its content
// detaches the surface from the page.
type Container struct {
	ID string

	mu       sync.Mutex
	content  template.HTML
	replaced bool
}

// Replace overwrites the container content.
func (c *Container) Replace(content template.HTML) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
	c.replaced = true
}

// Content returns the replacement content and whether it was set.
func (c *Container) Content() (template.HTML, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content, c.replaced
}

// Surface is a drawable region identified by ID.
type Surface struct {
	ID        string
	Container *Container

	mu       sync.Mutex
	instance *Instance
}

// Bind attaches a rendered instance to the surface.
func (s *Surface) Bind(inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instance = inst
}

// Instance returns the instance most recently bound to the surface.
func (s *Surface) Instance() *Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instance
}

// Board is the set of surfaces of one page. It is safe for concurrent use.
type Board struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface
	order    []string
}

// NewBoard creates a board with one surface per id, each in its own container.
func NewBoard(ids ...string) *Board {
	b := &Board{surfaces: make(map[string]*Surface, len(ids))}
	for _, id := range ids {
		b.Add(id)
	}
	return b
}

// Add registers a surface and returns it. Adding an existing id returns the
// existing surface.
func (b *Board) Add(id string) *Surface {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.surfaces[id]; ok {
		return s
	}
	s := &Surface{ID: id, Container: &Container{ID: id + "-container"}}
	b.surfaces[id] = s
	b.order = append(b.order, id)
	return s
}

// Surface resolves a surface identifier.
func (b *Board) Surface(id string) (*Surface, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSurfaceNotFound, id)
	}
	return s, nil
}

// Surfaces returns all surfaces in insertion order.
func (b *Board) Surfaces() []*Surface {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Surface, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.surfaces[id])
	}
	return out
}
