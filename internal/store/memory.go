package store

import (
	"context"
	"fmt"
	"sync"
)

// Sync-storage style capacity limits.
const (
	maxItemBytes = 8192
	maxItems     = 512
)

// Memory is an in-memory KV with the capacity limits of a browser synced
// store. It backs tests and ephemeral sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// failIn counts down operations until one reports
	// ErrStorageUnavailable. Test hook, 0 means disarmed.
	failIn int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// FailNext makes the next operation fail with ErrStorageUnavailable.
func (m *Memory) FailNext() {
	m.FailAfter(1)
}

// FailAfter makes the n-th upcoming operation fail with
// ErrStorageUnavailable; the calls before it succeed.
func (m *Memory) FailAfter(n int) {
	m.mu.Lock()
	m.failIn = n
	m.mu.Unlock()
}

func (m *Memory) takeFailure() bool {
	if m.failIn == 0 {
		return false
	}
	m.failIn--

	return m.failIn == 0
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

// GetAll returns a copy of the entire namespace.
func (m *Memory) GetAll(ctx context.Context) (Namespace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return nil, ErrStorageUnavailable
	}

	ns := make(Namespace, len(m.data))
	for k, v := range m.data {
		ns[k] = append([]byte(nil), v...)
	}

	return ns, nil
}

// Get returns the records for the given keys.
func (m *Memory) Get(ctx context.Context, keys ...string) (Namespace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return nil, ErrStorageUnavailable
	}

	ns := make(Namespace, len(keys))
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			ns[k] = append([]byte(nil), v...)
		}
	}

	return ns, nil
}

// Set writes every record in the mapping, enforcing the per-item and
// item-count quotas. A rejected write leaves the store untouched.
func (m *Memory) Set(ctx context.Context, records Namespace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrStorageUnavailable
	}

	newKeys := 0
	for k, v := range records {
		if k == "" {
			return ErrKeyEmpty
		}
		if len(k)+len(v) > maxItemBytes {
			return fmt.Errorf("%w: item %q exceeds %d bytes", ErrQuotaExceeded, k, maxItemBytes)
		}
		if _, ok := m.data[k]; !ok {
			newKeys++
		}
	}
	if len(m.data)+newKeys > maxItems {
		return fmt.Errorf("%w: more than %d items", ErrQuotaExceeded, maxItems)
	}

	for k, v := range records {
		m.data[k] = append([]byte(nil), v...)
	}

	return nil
}

// Remove deletes the given keys. Missing keys are ignored.
func (m *Memory) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.takeFailure() {
		return ErrStorageUnavailable
	}

	for _, k := range keys {
		delete(m.data, k)
	}

	return nil
}
