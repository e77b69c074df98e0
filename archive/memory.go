// SPDX-License-Identifier: MIT

package archive

import (
	"slices"
	"sync"
)

// Memory is an in-process archive tree. Safe for concurrent use.
type Memory struct {
	datasets
	path   string
	mu     *sync.RWMutex // shared by the whole tree
	values map[string][]byte
	groups map[string]*Memory
}

// NewMemory returns an empty root group.
func NewMemory() *Memory {
	return newMemory("/", &sync.RWMutex{})
}

func newMemory(path string, mu *sync.RWMutex) *Memory {
	m := &Memory{
		path:   path,
		mu:     mu,
		values: make(map[string][]byte),
		groups: make(map[string]*Memory),
	}
	m.datasets = datasets{s: m}

	return m
}

// Path returns the group path.
func (m *Memory) Path() string { return m.path }

// CreateGroup returns the subgroup key, creating it if needed.
func (m *Memory) CreateGroup(key string) (Group, error) {
	if key == "" {
		return nil, archiveErrorf(m.path, key, ErrEmptyKey)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return nil, archiveErrorf(m.path, key, ErrKeyConflict)
	}
	g, ok := m.groups[key]
	if !ok {
		g = newMemory(childPath(m.path, key), m.mu)
		m.groups[key] = g
	}

	return g, nil
}

// OpenGroup returns an existing subgroup.
func (m *Memory) OpenGroup(key string) (Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.groups[key]
	if !ok {
		return nil, archiveErrorf(m.path, key, ErrNotFound)
	}

	return g, nil
}

// Has reports whether key exists as a dataset or subgroup.
func (m *Memory) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, v := m.values[key]
	_, g := m.groups[key]

	return v || g
}

// Keys lists dataset and subgroup keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values)+len(m.groups))
	for k := range m.values {
		keys = append(keys, k)
	}
	for k := range m.groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

func (m *Memory) get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	return v, nil
}

func (m *Memory) put(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.groups[key]; ok {
		return ErrKeyConflict
	}
	m.values[key] = val

	return nil
}
