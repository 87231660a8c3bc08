package archive

// Delegating returns a reader that queries readers in order. The first
// reader holding a name wins, both for Entry and Entries.
func Delegating(readers ...Reader) Reader {
	return delegating(readers)
}

type delegating []Reader

func (d delegating) Entries() []Entry {
	seen := map[string]struct{}{}

	var out []Entry

	for _, r := range d {
		for _, e := range r.Entries() {
			if _, ok := seen[e.Name]; ok {
				continue
			}

			seen[e.Name] = struct{}{}
			out = append(out, e)
		}
	}

	return out
}

func (d delegating) Entry(name string) (Entry, bool) {
	for _, r := range d {
		if e, ok := r.Entry(name); ok {
			return e, true
		}
	}

	return Entry{}, false
}
