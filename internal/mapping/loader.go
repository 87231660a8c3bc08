package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"archive-mapper/internal/common"
	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/jvmtype"
)

// Default namespace labels used when a file leaves them out.
const (
	DefaultRealNamespace = "named"
	DefaultFakeNamespace = "obf"
)

// LoadFile loads and parses a mapping file from the given path.
// Files ending in ".toml" are read as TOML, everything else as YAML.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return ParseTOML(data)
	}

	return Parse(data)
}

// Parse parses YAML data into a MappingFile.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// ParseTOML parses TOML data into a MappingFile.
func ParseTOML(data []byte) (*MappingFile, error) {
	var mf MappingFile

	_, err := toml.Decode(string(data), &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping TOML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values and normalizes class names to
// internal form.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	if mf.Namespaces.Real == "" {
		mf.Namespaces.Real = DefaultRealNamespace
	}

	if mf.Namespaces.Fake == "" {
		mf.Namespaces.Fake = DefaultFakeNamespace
	}

	for i := range mf.Classes {
		c := &mf.Classes[i]
		c.Real = common.InternalName(c.Real)
		c.Fake = common.InternalName(c.Fake)
	}
}

// Build turns a parsed mapping file into an ArchiveMapping. A method
// descriptor given on one side only is translated to the other side
// through the class table.
func Build(mf *MappingFile) (*ArchiveMapping, error) {
	if mf == nil {
		return nil, diagnostic.New(diagnostic.InvalidUsage, "", "mapping file is nil")
	}

	// Class-only table used to derive the missing descriptor side.
	bare := make([]*ClassEntry, 0, len(mf.Classes))
	for _, c := range mf.Classes {
		bare = append(bare, NewClassEntry(Identity{Real: c.Real, Fake: c.Fake}, nil, nil))
	}

	classTable := New(mf.Namespaces.Real, mf.Namespaces.Fake, bare)

	classes := make([]*ClassEntry, 0, len(mf.Classes))

	for i := range mf.Classes {
		c := &mf.Classes[i]

		methods := make([]*MethodEntry, 0, len(c.Methods))

		for j := range c.Methods {
			me, err := buildMethod(classTable, &c.Methods[j])
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", c.Real, err)
			}

			methods = append(methods, me)
		}

		fields := make([]*FieldEntry, 0, len(c.Fields))
		for _, f := range c.Fields {
			fields = append(fields, &FieldEntry{
				Real: FieldIdentifier{Name: f.Real, Side: Real},
				Fake: FieldIdentifier{Name: f.Fake, Side: Fake},
			})
		}

		classes = append(classes, NewClassEntry(Identity{Real: c.Real, Fake: c.Fake}, methods, fields))
	}

	return New(mf.Namespaces.Real, mf.Namespaces.Fake, classes), nil
}

func buildMethod(classTable *ArchiveMapping, md *MethodDef) (*MethodEntry, error) {
	realDesc, fakeDesc := md.Desc, md.FakeDesc

	var err error

	switch {
	case realDesc == "" && fakeDesc == "":
		return nil, diagnostic.New(diagnostic.InvalidUsage, md.Real, "method has no descriptor")
	case fakeDesc == "":
		fakeDesc, err = classTable.MapMethodDesc(realDesc, ToFake)
	case realDesc == "":
		realDesc, err = classTable.MapMethodDesc(fakeDesc, ToReal)
	}

	if err != nil {
		return nil, fmt.Errorf("method %s: %w", md.Real, err)
	}

	realType, err := jvmtype.ParseMethod(realDesc)
	if err != nil {
		return nil, diagnostic.Wrap(diagnostic.InvalidUsage, md.Real+realDesc, err)
	}

	fakeType, err := jvmtype.ParseMethod(fakeDesc)
	if err != nil {
		return nil, diagnostic.Wrap(diagnostic.InvalidUsage, md.Fake+fakeDesc, err)
	}

	return &MethodEntry{
		Real: MethodIdentifier{Name: md.Real, Params: realType.Params, Side: Real},
		Fake: MethodIdentifier{Name: md.Fake, Params: fakeType.Params, Side: Fake},
	}, nil
}

// Load reads, validates and builds a mapping file in one step. Validation
// errors fail the load; warnings are returned alongside the mapping.
func Load(path string) (*ArchiveMapping, *diagnostic.Diagnostics, error) {
	mf, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	diags := Validate(mf)
	if err := diags.Error(); err != nil {
		return nil, diags, fmt.Errorf("invalid mapping file %s: %w", path, err)
	}

	m, err := Build(mf)
	if err != nil {
		return nil, diags, fmt.Errorf("build mapping %s: %w", path, err)
	}

	return m, diags, nil
}
