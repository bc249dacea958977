package blob

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	perr "brreg/internal/platform/errors"
)

// Memory is an in-process store for tests
type Memory struct {
	mu    sync.RWMutex
	data  map[string][]byte
	locks map[string]string

	// FailGet makes Get return an IO error for matching keys (tests)
	FailGet func(key string) bool
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte), locks: make(map[string]string)}
}

// Driver implements Store
func (m *Memory) Driver() Driver { return DriverMemory }

// Location implements Store
func (m *Memory) Location() string { return "memory://" }

// Get implements Store
func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	if m.FailGet != nil && m.FailGet(k) {
		return nil, perr.IOf(io.ErrUnexpectedEOF, "read %s", k)
	}
	m.mu.RLock()
	b, ok := m.data[k]
	m.mu.RUnlock()
	if !ok {
		return nil, perr.NotFoundf("%s not found", k)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Put implements Store
func (m *Memory) Put(_ context.Context, key string, r io.Reader) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return perr.IOf(err, "read body for %s", k)
	}
	m.mu.Lock()
	m.data[k] = b
	m.mu.Unlock()
	return nil
}

// Exists implements Store
func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.data[k]
	m.mu.RUnlock()
	return ok, nil
}

// List implements Store
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if !hidden(k) && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Lock implements Store
func (m *Memory) Lock(_ context.Context, owner string) (Release, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if holder, held := m.locks[LockKey]; held {
		return nil, lockConflict(m.Location(), holder)
	}
	m.locks[LockKey] = owner
	return func() error {
		m.mu.Lock()
		delete(m.locks, LockKey)
		m.mu.Unlock()
		return nil
	}, nil
}

// Bytes returns the stored content of key (tests)
func (m *Memory) Bytes(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	return b, ok
}
