package cache

import (
	"sync/atomic"

	"github.com/buendia/tictactoe/move"
)

// CountingStore wraps a Store and counts traffic through it.
type CountingStore struct {
	Store

	gets atomic.Uint64
	hits atomic.Uint64
	sets atomic.Uint64
}

func NewCountingStore(s Store) *CountingStore {
	return &CountingStore{Store: s}
}

func (c *CountingStore) Get(key string) (move.Move, bool, error) {
	c.gets.Add(1)
	m, ok, err := c.Store.Get(key)
	if ok && err == nil {
		c.hits.Add(1)
	}
	return m, ok, err
}

func (c *CountingStore) Set(key string, m move.Move) error {
	c.sets.Add(1)
	return c.Store.Set(key, m)
}

// Counts returns the number of gets, hits on those gets, and sets.
func (c *CountingStore) Counts() (gets, hits, sets uint64) {
	return c.gets.Load(), c.hits.Load(), c.sets.Load()
}
