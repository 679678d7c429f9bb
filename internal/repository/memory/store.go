package memory

import (
	"context"
	"sync"

	"quanturl/internal/repository"
)

// Store keeps mappings in an in-process map. It is the simplest registry a
// caller can layer around the stateless engine; nothing survives the
// process.
type Store struct {
	mu     sync.RWMutex
	byCode map[string]repository.Mapping
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{byCode: make(map[string]repository.Mapping)}
}

func (s *Store) Save(_ context.Context, m repository.Mapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[m.Code]; ok {
		return repository.ErrCodeExists
	}
	s.byCode[m.Code] = m
	return nil
}

func (s *Store) Get(_ context.Context, code string) (repository.Mapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byCode[code]
	if !ok {
		return repository.Mapping{}, repository.ErrNotFound
	}
	return m, nil
}

func (s *Store) Close() error { return nil }

// Len reports how many mappings are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}
