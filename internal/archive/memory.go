package archive

import (
	"slices"
	"sync"

	"archive-mapper/internal/common"
)

// Memory is an in-memory archive. It keeps insertion order, so archives
// written back out keep the manifest where it was. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
}

var _ Archive = (*Memory)(nil)

// NewMemory returns an archive holding the given entries.
func NewMemory(entries ...Entry) *Memory {
	m := &Memory{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		m.Put(e)
	}

	return m
}

// Entries implements Reader.
func (m *Memory) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.entries[name])
	}

	return out
}

// Entry implements Reader.
func (m *Memory) Entry(name string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[name]

	return e, ok
}

// Put implements Writer.
func (m *Memory) Put(e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[e.Name]; !ok {
		m.order = append(m.order, e.Name)
	}

	m.entries[e.Name] = e
}

// Remove implements Writer.
func (m *Memory) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[name]; !ok {
		return
	}

	delete(m.entries, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.order)
}

// Snapshot returns an independent copy of the archive. Entry data is shared,
// entries are never mutated in place.
func (m *Memory) Snapshot() *Memory {
	return NewMemory(m.Entries()...)
}

// ClassNames returns the internal names of every class entry of r,
// in archive order. Classes of a multi-release jar are listed once.
func ClassNames(r Reader) []string {
	var names []string

	seen := map[string]struct{}{}

	for _, e := range r.Entries() {
		_, base := common.SplitVersioned(e.Name)

		name, ok := common.ClassNameOf(base)
		if !ok {
			continue
		}

		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}
