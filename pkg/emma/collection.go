package emma

import (
	"context"
)

// Collection is a lazily populated set of entities belonging to one relation
// of a parent entity. The first FetchAll issues a single request and memoizes
// the result; later calls are served from the cache until Refresh discards
// it. A Collection carries private mutable state and must not be shared
// between goroutines without external locking.
type Collection[K comparable, E any] struct {
	fetch func(ctx context.Context) (map[K]E, error)
	items map[K]E
}

func newCollection[K comparable, E any](fetch func(ctx context.Context) (map[K]E, error)) *Collection[K, E] {
	return &Collection[K, E]{fetch: fetch}
}

func (c *Collection[K, E]) FetchAll(ctx context.Context) (map[K]E, error) {
	if c.items != nil {
		return c.items, nil
	}

	items, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = map[K]E{}
	}

	c.items = items

	return c.items, nil
}

// Refresh discards the cache and fetches the relation again. Staleness is the
// caller's problem; nothing in this layer refreshes on its own.
func (c *Collection[K, E]) Refresh(ctx context.Context) (map[K]E, error) {
	c.items = nil
	return c.FetchAll(ctx)
}

// Len returns the number of cached entities, or zero if the collection has
// not been fetched yet.
func (c *Collection[K, E]) Len() int {
	return len(c.items)
}
