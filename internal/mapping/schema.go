package mapping

// MappingFile represents the root of a mapping file.
type MappingFile struct {
	// Version is the schema version (currently "1").
	Version string `yaml:"version" toml:"version"`
	// Namespaces labels the two sides of the table.
	Namespaces Namespaces `yaml:"namespaces" toml:"namespaces"`
	// Classes lists the mapped classes.
	Classes []ClassDef `yaml:"classes" toml:"classes"`
}

// Namespaces holds the labels of the two sides.
type Namespaces struct {
	Real string `yaml:"real" toml:"real"`
	Fake string `yaml:"fake" toml:"fake"`
}

// ClassDef maps one class. Names are internal names ("com/example/Widget");
// source-form names ("com.example.Widget") are normalized on load.
type ClassDef struct {
	Real    string      `yaml:"real" toml:"real"`
	Fake    string      `yaml:"fake" toml:"fake"`
	Fields  FieldDefs   `yaml:"fields,omitempty" toml:"fields,omitempty"`
	Methods []MethodDef `yaml:"methods,omitempty" toml:"methods,omitempty"`
}

// FieldDef maps one field.
type FieldDef struct {
	Real string `yaml:"real" toml:"real"`
	Fake string `yaml:"fake" toml:"fake"`
}

// FieldDefs is a list of field mappings. In a file it is either a list of
// {real, fake} objects or a "real: fake" shorthand map.
type FieldDefs []FieldDef

// MethodDef maps one method. At least one of Desc and FakeDesc is required.
type MethodDef struct {
	Real string `yaml:"real" toml:"real"`
	Fake string `yaml:"fake" toml:"fake"`
	// Desc is the method descriptor on the real side.
	Desc string `yaml:"desc,omitempty" toml:"desc,omitempty"`
	// FakeDesc is the method descriptor on the fake side.
	FakeDesc string `yaml:"fake_desc,omitempty" toml:"fake_desc,omitempty"`
}
