package shape

import "sync"

// Collection is the client-side shape cache: an insertion-ordered set
// keyed by shape id. Insertion order is the stacking order for rendering
// and (reversed) the probe order for the eraser. The server's store is
// the durable source of truth; a Collection is rebuilt wholesale on
// (re)join.
type Collection struct {
	mu     sync.RWMutex
	shapes []Shape
}

func NewCollection() *Collection {
	return &Collection{}
}

// Append adds a committed or inbound shape. A duplicate id is a no-op:
// the server echoes chat messages back to their sender, and the sender
// already holds the shape.
func (c *Collection) Append(s Shape) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := s.Meta().ID
	for _, existing := range c.shapes {
		if existing.Meta().ID == id {
			return false
		}
	}
	c.shapes = append(c.shapes, s)
	return true
}

// Remove deletes by id. Removing an id that is not present is a no-op;
// two clients may erase the same shape concurrently.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.shapes {
		if s.Meta().ID == id {
			c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// All returns the shapes in insertion order. The returned slice is a
// copy; the shapes themselves are immutable after commit.
func (c *Collection) All() []Shape {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Shape, len(c.shapes))
	copy(out, c.shapes)
	return out
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.shapes)
}

// Reset discards the cache, then replays history oldest-first.
func (c *Collection) Reset(history []Shape) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shapes = c.shapes[:0]
	for _, s := range history {
		c.shapes = append(c.shapes, s)
	}
}
