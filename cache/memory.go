package cache

import (
	"sync"

	"github.com/buendia/tictactoe/move"
)

// MemoryStore keeps entries in a map. It does not survive the process.
type MemoryStore struct {
	sync.RWMutex
	moves map[string]move.Move
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{moves: make(map[string]move.Move)}
}

func (s *MemoryStore) Get(key string) (move.Move, bool, error) {
	s.RLock()
	defer s.RUnlock()
	m, ok := s.moves[key]
	return m, ok, nil
}

func (s *MemoryStore) Set(key string, m move.Move) error {
	s.Lock()
	defer s.Unlock()
	s.moves[key] = m
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.moves)
}

func (s *MemoryStore) Close() error {
	return nil
}
