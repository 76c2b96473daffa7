package storage

import (
	"context"
	"slices"
	"sync"
)

type MemKV struct {
	mu sync.RWMutex
	m  map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{m: map[string][]byte{}}
}

func (s *MemKV) Ping(ctx context.Context) error { return nil }

func (s *MemKV) Close() error { return nil }

func (s *MemKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.m[key]
	return slices.Clone(v), ok, nil
}

func (s *MemKV) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = slices.Clone(value)
	return nil
}
