package mapping

import (
	"archive-mapper/internal/diagnostic"
)

// ArchiveMapping is the symbol table of one archive between two namespaces.
// It is read-only once built and safe for concurrent use.
type ArchiveMapping struct {
	// RealNamespace labels the real side, e.g. "named".
	RealNamespace string
	// FakeNamespace labels the fake side, e.g. "obf".
	FakeNamespace string

	classes *ObfuscationMap[*ClassEntry]
}

// New builds an ArchiveMapping over the given class entries.
func New(realNamespace, fakeNamespace string, classes []*ClassEntry) *ArchiveMapping {
	return &ArchiveMapping{
		RealNamespace: realNamespace,
		FakeNamespace: fakeNamespace,
		classes:       NewObfuscationMap(classes),
	}
}

// Classes returns the class table.
func (m *ArchiveMapping) Classes() *ObfuscationMap[*ClassEntry] {
	return m.classes
}

// Direction returns the direction that translates names from namespace
// `from` into namespace `to`.
func (m *ArchiveMapping) Direction(from, to string) (Direction, error) {
	switch {
	case m.RealNamespace == m.FakeNamespace:
		return 0, diagnostic.New(diagnostic.InvalidUsage, from,
			"mapping has the same label %q on both sides", m.RealNamespace)
	case from == m.FakeNamespace && to == m.RealNamespace:
		return ToReal, nil
	case from == m.RealNamespace && to == m.FakeNamespace:
		return ToFake, nil
	default:
		return 0, diagnostic.New(diagnostic.InvalidUsage, from+"->"+to,
			"mapping translates between %q and %q only", m.RealNamespace, m.FakeNamespace)
	}
}

// Namespace returns the label of the given side.
func (m *ArchiveMapping) Namespace(side Side) string {
	if side == Fake {
		return m.FakeNamespace
	}

	return m.RealNamespace
}
