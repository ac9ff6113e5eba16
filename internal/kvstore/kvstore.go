// Package kvstore provides the string key/value store everything else
// persists through: order partitions, accounts, integration settings and
// rider locations are all JSON values under well-known keys.
package kvstore

import (
	"context"
	"strings"
	"sync"
)

// Store is a flat ordered-value store keyed by string. Values are opaque;
// callers do their own JSON encoding.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// GetByPrefix returns every key/value pair whose key starts with prefix.
	GetByPrefix(ctx context.Context, prefix string) (map[string]string, error)
}

// Memory is a mutex-guarded in-process Store, used in tests and for
// single-node runs without Postgres.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) GetByPrefix(_ context.Context, prefix string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range m.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = v
		}
	}
	return out, nil
}
