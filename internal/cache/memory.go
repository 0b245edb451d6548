package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is an in-process LRU cache. Suitable for single-node runs
// and tests.
type Memory[V any] struct {
	lru *lru.Cache[string, V]
}

// NewMemory builds an LRU cache holding at most size entries.
func NewMemory[V any](size int) (*Memory[V], error) {
	l, err := lru.New[string, V](size)
	if err != nil {
		return nil, err
	}
	return &Memory[V]{lru: l}, nil
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool, error) {
	v, ok := m.lru.Get(key)
	return v, ok, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V) error {
	m.lru.Add(key, value)
	return nil
}

func (m *Memory[V]) Remove(_ context.Context, key string) error {
	m.lru.Remove(key)
	return nil
}
