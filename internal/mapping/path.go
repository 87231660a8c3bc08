package mapping

import (
	"errors"
	"fmt"
	"strings"

	"archive-mapper/internal/common"
)

// SymbolKind tells which kind of symbol a SymbolRef names.
type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolField
	SymbolMethod
)

// String returns a human-readable kind name.
func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolField:
		return "field"
	case SymbolMethod:
		return "method"
	default:
		return common.UnknownStr
	}
}

// SymbolRef is a parsed symbol reference.
// Supports: "a/b/C", "a/b/C.field", "a/b/C.method(I)V".
// Source-form owners ("a.b.C#field") are accepted too.
type SymbolRef struct {
	Owner string
	Name  string
	Desc  string
}

// Kind returns the kind of symbol the reference names.
func (r SymbolRef) Kind() SymbolKind {
	switch {
	case r.Name == "":
		return SymbolClass
	case r.Desc == "":
		return SymbolField
	default:
		return SymbolMethod
	}
}

// String formats the reference the way ParseSymbol accepts it.
func (r SymbolRef) String() string {
	if r.Name == "" {
		return r.Owner
	}

	return r.Owner + "." + r.Name + r.Desc
}

// ParseSymbol parses a symbol reference string.
func ParseSymbol(s string) (SymbolRef, error) {
	if s == "" {
		return SymbolRef{}, errors.New("empty symbol")
	}

	var owner, member string

	if i := strings.IndexByte(s, '#'); i >= 0 {
		owner, member = common.InternalName(s[:i]), s[i+1:]
	} else {
		head := s
		if p := strings.IndexByte(s, '('); p >= 0 {
			head = s[:p]
		}

		if i := strings.LastIndexByte(head, '.'); i >= 0 {
			owner, member = s[:i], s[i+1:]
		} else {
			owner = s
		}
	}

	if owner == "" {
		return SymbolRef{}, fmt.Errorf("invalid symbol %q: empty owner", s)
	}

	ref := SymbolRef{Owner: owner, Name: member}

	if p := strings.IndexByte(member, '('); p >= 0 {
		ref.Name, ref.Desc = member[:p], member[p:]
	}

	if member != "" && ref.Name == "" {
		return SymbolRef{}, fmt.Errorf("invalid symbol %q: empty member name", s)
	}

	return ref, nil
}

// Lookup translates every part of a symbol reference. The boolean reports
// whether the symbol itself (the class, or the member) was in the table;
// the owner and descriptor are translated either way.
func (m *ArchiveMapping) Lookup(ref SymbolRef, dir Direction) (SymbolRef, bool, error) {
	out := SymbolRef{Owner: m.MapClassOrType(ref.Owner, dir), Name: ref.Name, Desc: ref.Desc}

	switch ref.Kind() {
	case SymbolClass:
		_, ok := m.MapClassName(ref.Owner, dir)
		return out, ok, nil
	case SymbolField:
		name, ok := m.MapFieldName(ref.Owner, ref.Name, dir)
		if ok {
			out.Name = name
		}

		return out, ok, nil
	default:
		desc, err := m.MapMethodDesc(ref.Desc, dir)
		if err != nil {
			return SymbolRef{}, false, err
		}

		out.Desc = desc

		name, ok := m.MapMethodName(ref.Owner, ref.Name, ref.Desc, dir)
		if ok {
			out.Name = name
		}

		return out, ok, nil
	}
}
