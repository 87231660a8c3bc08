package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// --- FieldDefs YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for FieldDefs.
// Accepts either a list of {real, fake} objects or a "real: fake" map.
func (f *FieldDefs) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var defs []FieldDef

		err := node.Decode(&defs)
		if err != nil {
			return err
		}

		*f = defs

		return nil

	case yaml.MappingNode:
		// Walk the node pairs so the file order is kept.
		defs := make(FieldDefs, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			var realName, fakeName string

			if err := node.Content[i].Decode(&realName); err != nil {
				return err
			}

			if err := node.Content[i+1].Decode(&fakeName); err != nil {
				return fmt.Errorf("field %q: %w", realName, err)
			}

			defs = append(defs, FieldDef{Real: realName, Fake: fakeName})
		}

		*f = defs

		return nil

	default:
		return fmt.Errorf("expected list or map of fields, got %v", node.Kind)
	}
}

// --- FieldDefs TOML methods ---

// UnmarshalTOML implements toml.Unmarshaler for FieldDefs.
// Accepts an array of tables or a table of "real = fake" pairs; the
// shorthand table is ordered by real name.
func (f *FieldDefs) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case []map[string]any:
		defs := make(FieldDefs, 0, len(v))

		for _, t := range v {
			d, err := fieldDefFromTable(t)
			if err != nil {
				return err
			}

			defs = append(defs, d)
		}

		*f = defs

		return nil

	case []any:
		defs := make(FieldDefs, 0, len(v))

		for _, item := range v {
			t, ok := item.(map[string]any)
			if !ok {
				return fmt.Errorf("expected table in fields array, got %T", item)
			}

			d, err := fieldDefFromTable(t)
			if err != nil {
				return err
			}

			defs = append(defs, d)
		}

		*f = defs

		return nil

	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		defs := make(FieldDefs, 0, len(keys))

		for _, realName := range keys {
			fakeName, ok := v[realName].(string)
			if !ok {
				return fmt.Errorf("field %q: expected string, got %T", realName, v[realName])
			}

			defs = append(defs, FieldDef{Real: realName, Fake: fakeName})
		}

		*f = defs

		return nil

	default:
		return fmt.Errorf("expected array or table of fields, got %T", data)
	}
}

func fieldDefFromTable(t map[string]any) (FieldDef, error) {
	var d FieldDef

	for key, dst := range map[string]*string{"real": &d.Real, "fake": &d.Fake} {
		raw, ok := t[key]
		if !ok {
			continue
		}

		s, ok := raw.(string)
		if !ok {
			return FieldDef{}, fmt.Errorf("field %s: expected string, got %T", key, raw)
		}

		*dst = s
	}

	return d, nil
}
