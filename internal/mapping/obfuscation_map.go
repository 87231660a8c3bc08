package mapping

// ObfuscationMap is an immutable table of entries indexed by both their real
// and their fake name. Both indexes are built once at construction; a name
// that occurs on more than one entry resolves to the last of them.
type ObfuscationMap[V Named] struct {
	entries []V
	byReal  map[string]V
	byFake  map[string]V
}

// NewObfuscationMap indexes entries. The slice is copied.
func NewObfuscationMap[V Named](entries []V) *ObfuscationMap[V] {
	m := &ObfuscationMap[V]{
		entries: append([]V(nil), entries...),
		byReal:  make(map[string]V, len(entries)),
		byFake:  make(map[string]V, len(entries)),
	}

	for _, e := range m.entries {
		id := e.Names()
		m.byReal[id.Real] = e
		m.byFake[id.Fake] = e
	}

	return m
}

// ByReal looks an entry up by its real name.
func (m *ObfuscationMap[V]) ByReal(name string) (V, bool) {
	v, ok := m.byReal[name]
	return v, ok
}

// ByFake looks an entry up by its fake name.
func (m *ObfuscationMap[V]) ByFake(name string) (V, bool) {
	v, ok := m.byFake[name]
	return v, ok
}

// Get looks an entry up by its name on the given side.
func (m *ObfuscationMap[V]) Get(side Side, name string) (V, bool) {
	if side == Fake {
		return m.ByFake(name)
	}

	return m.ByReal(name)
}

// All returns the backing entries in construction order.
// Callers must not modify the returned slice.
func (m *ObfuscationMap[V]) All() []V {
	return m.entries
}

// Len returns the number of backing entries, duplicates included.
func (m *ObfuscationMap[V]) Len() int {
	return len(m.entries)
}
