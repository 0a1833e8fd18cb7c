package nodecache

import (
	"sync"

	"driveqa/internal/domain"
)

// Cache holds the nodes of the most recent listing of one session, keyed by their
// dotted number path. Replacing the listing drops every previous binding.
type Cache struct {
	mu    sync.RWMutex
	nodes map[string]domain.Node
	order []string
}

func New() *Cache { return &Cache{nodes: make(map[string]domain.Node)} }

// Replace binds the nodes of listing, invalidating all earlier number paths.
func (c *Cache) Replace(listing domain.ListingResult) {
	nodes := make(map[string]domain.Node, len(listing.Nodes))
	order := make([]string, 0, len(listing.Nodes))
	for _, n := range listing.Nodes {
		key := n.Number.String()
		if _, dup := nodes[key]; !dup {
			order = append(order, key)
		}
		nodes[key] = n
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = nodes
	c.order = order
}

// Lookup returns the node bound to path.
func (c *Cache) Lookup(path domain.NumberPath) (domain.Node, bool) {
	return c.LookupString(path.String())
}

// LookupString returns the node bound to a dotted number such as "2.3".
func (c *Cache) LookupString(number string) (domain.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.nodes[number]
	return n, ok
}

// Nodes returns the cached nodes in listing order.
func (c *Cache) Nodes() []domain.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Node, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.nodes[k])
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Clear drops every binding.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = make(map[string]domain.Node)
	c.order = nil
}
