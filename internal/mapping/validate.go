package mapping

import (
	"fmt"
	"strings"

	"archive-mapper/internal/diagnostic"
	"archive-mapper/internal/jvmtype"
	"archive-mapper/internal/match"
)

// maxSuggestions caps the "did you mean" list of a diagnostic.
const maxSuggestions = 3

// Validate checks a mapping file structurally. Duplicate names are reported
// as warnings since the last entry wins; everything that makes Build fail is
// an error.
func Validate(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if mf.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported mapping version %q", mf.Version), "", "")
	}

	if mf.Namespaces.Real == mf.Namespaces.Fake {
		res.AddError("same_namespace",
			fmt.Sprintf("both sides are labeled %q", mf.Namespaces.Real), "", "")
	}

	seenReal := map[string]struct{}{}
	seenFake := map[string]struct{}{}

	for i := range mf.Classes {
		c := &mf.Classes[i]

		if c.Real == "" || c.Fake == "" {
			res.AddError("empty_class_name",
				fmt.Sprintf("class #%d needs both a real and a fake name", i+1), c.Real+c.Fake, "")

			continue
		}

		if _, ok := seenReal[c.Real]; ok {
			res.AddWarning("duplicate_real_class", "real class name mapped twice; the last entry wins", c.Real, "")
		}

		if _, ok := seenFake[c.Fake]; ok {
			res.AddWarning("duplicate_fake_class", "fake class name mapped twice; the last entry wins", c.Fake, "")
		}

		seenReal[c.Real] = struct{}{}
		seenFake[c.Fake] = struct{}{}

		validateFields(res, c)
		validateMethods(res, c)
	}

	return res
}

func validateFields(res *diagnostic.Diagnostics, c *ClassDef) {
	seen := map[string]struct{}{}

	for _, f := range c.Fields {
		if f.Real == "" || f.Fake == "" {
			res.AddError("empty_field_name", "field needs both a real and a fake name", c.Real, f.Real+f.Fake)
			continue
		}

		for _, key := range []string{"real:" + f.Real, "fake:" + f.Fake} {
			if _, ok := seen[key]; ok {
				res.AddWarning("duplicate_field", "field mapped twice; the last entry wins", c.Real, f.Real)
			}

			seen[key] = struct{}{}
		}
	}
}

func validateMethods(res *diagnostic.Diagnostics, c *ClassDef) {
	seen := map[string]struct{}{}

	for _, md := range c.Methods {
		if md.Real == "" || md.Fake == "" {
			res.AddError("empty_method_name", "method needs both a real and a fake name", c.Real, md.Real+md.Fake)
			continue
		}

		if md.Desc == "" && md.FakeDesc == "" {
			res.AddError("missing_descriptor", "method needs desc or fake_desc", c.Real, md.Real)
			continue
		}

		realType, realOK := checkDescriptor(res, c.Real, md.Real, md.Desc)
		fakeType, fakeOK := checkDescriptor(res, c.Real, md.Real, md.FakeDesc)

		if realOK && fakeOK && md.Desc != "" && md.FakeDesc != "" &&
			len(realType.Params) != len(fakeType.Params) {
			res.AddError("descriptor_arity_mismatch",
				fmt.Sprintf("desc %s and fake_desc %s take different parameter counts", md.Desc, md.FakeDesc),
				c.Real, md.Real)
		}

		if md.Desc != "" && realOK {
			key := "real:" + md.Real + jvmtype.ParamsDescriptor(realType.Params)
			if _, ok := seen[key]; ok {
				res.AddWarning("duplicate_method", "method overload mapped twice; the last entry wins", c.Real, md.Real+md.Desc)
			}

			seen[key] = struct{}{}
		}
	}
}

func checkDescriptor(res *diagnostic.Diagnostics, class, member, desc string) (jvmtype.MethodType, bool) {
	if desc == "" {
		return jvmtype.MethodType{}, true
	}

	if !strings.HasPrefix(desc, "(") {
		res.AddError("invalid_descriptor",
			fmt.Sprintf("descriptor %q must start with '(' and carry no name", desc), class, member)

		return jvmtype.MethodType{}, false
	}

	mt, err := jvmtype.ParseMethod(desc)
	if err != nil {
		res.AddError("invalid_descriptor", err.Error(), class, member)
		return jvmtype.MethodType{}, false
	}

	return mt, true
}

// ValidateCoverage reports mapped classes whose name on the given side is not
// among the classes present in an archive, with "did you mean" suggestions.
func ValidateCoverage(m *ArchiveMapping, side Side, present []string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	have := make(map[string]struct{}, len(present))
	for _, name := range present {
		have[name] = struct{}{}
	}

	for _, c := range m.Classes().All() {
		name := c.Name(side)
		if _, ok := have[name]; ok {
			continue
		}

		res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticWarning,
			Code:        "class_not_in_archive",
			Message:     fmt.Sprintf("%s class not found in archive", m.Namespace(side)),
			Class:       name,
			Suggestions: match.SuggestNames(name, present, maxSuggestions),
		})
	}

	return res
}
