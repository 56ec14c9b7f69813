package cache

import (
	"bytes"
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implementa Client con go-cache. mu serializa escrituras con los compare-and-*.
type Memory struct {
	mu sync.Mutex
	c  *gocache.Cache
}

// NewMemory crea un cache en memoria; defaultTTL 0 = sin expiración.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	b, _ := v.([]byte)
	return b, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// copia: el caller puede reutilizar el slice
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Memory) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) CompareAndSet(ctx context.Context, key string, old, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.holds(key, old) {
		return false, nil
	}
	m.c.Set(key, append([]byte(nil), value...), ttl)
	return true, nil
}

func (m *Memory) CompareAndDelete(ctx context.Context, key string, old []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.holds(key, old) {
		return false, nil
	}
	m.c.Delete(key)
	return true, nil
}

func (m *Memory) holds(key string, want []byte) bool {
	v, ok := m.c.Get(key)
	if !ok {
		return false
	}
	b, _ := v.([]byte)
	return bytes.Equal(b, want)
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
func (m *Memory) Close() error                   { return nil }
func (m *Memory) Driver() string                 { return "memory" }
