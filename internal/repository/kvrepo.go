// Package repository defines durable client storage implemented by concrete backends.
package repository

import (
	"context"
	"sync"
)

// Fixed storage keys. No other state is persisted.
const (
	KeyToken    = "token"
	KeyDarkMode = "darkMode"
)

// KVRepository is durable string storage keyed by fixed names.
type KVRepository interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Memory is a process-local KVRepository, used for the "memory" storage mode and in tests.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

var _ KVRepository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory { return &Memory{m: map[string]string{}} }

// Get implements KVRepository.
func (r *Memory) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[key]
	return v, ok, nil
}

// Set implements KVRepository.
func (r *Memory) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = value
	return nil
}

// Delete implements KVRepository.
func (r *Memory) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key)
	return nil
}
