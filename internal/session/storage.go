package session

import (
	"context"
	"errors"
	"sync"
)

// Fixed keys under which the session material is persisted.
const (
	tokenKey = "console:session:token"
	userKey  = "console:session:user"
)

// ErrNotFound is returned by Storage.Get when the key has no value.
var ErrNotFound = errors.New("session: key not found")

// Storage is the durable key/value backing for the session store.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type memoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage builds an in-memory storage for testing.
func NewMemoryStorage() Storage {
	return &memoryStorage{values: make(map[string]string)}
}

func (s *memoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *memoryStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
