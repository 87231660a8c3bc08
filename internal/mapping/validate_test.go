package mapping

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(diags []string) map[string]int {
	out := map[string]int{}
	for _, c := range diags {
		out[c]++
	}

	return out
}

func TestValidate_Clean(t *testing.T) {
	mf, err := Parse([]byte(widgetYAML))
	require.NoError(t, err)

	res := Validate(mf)
	assert.True(t, res.IsValid(), spew.Sdump(res))
	assert.Empty(t, res.Warnings, spew.Sdump(res))
}

func TestValidate_Nil(t *testing.T) {
	res := Validate(nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "mapping_is_nil", res.Errors[0].Code)
}

func TestValidate_Problems(t *testing.T) {
	mf, err := Parse([]byte(`
namespaces:
  real: same
  fake: same
classes:
  - real: x/A
    fake: a
    fields:
      - real: f
        fake: a
      - real: g
        fake: a
      - real: ""
        fake: b
    methods:
      - real: m
        fake: a
        desc: (I)V
      - real: m
        fake: b
        desc: (I)I
      - real: n
        fake: c
      - real: o
        fake: d
        desc: o(I)V
      - real: p
        fake: e
        desc: (IJ)V
        fake_desc: (I)V
  - real: x/A
    fake: b
  - real: x/B
    fake: b
  - real: x/C
`))
	require.NoError(t, err)

	res := Validate(mf)

	var errs, warns []string
	for _, d := range res.Errors {
		errs = append(errs, d.Code)
	}

	for _, d := range res.Warnings {
		warns = append(warns, d.Code)
	}

	assert.Equal(t, map[string]int{
		"same_namespace":            1,
		"empty_field_name":          1,
		"missing_descriptor":        1,
		"invalid_descriptor":        1,
		"descriptor_arity_mismatch": 1,
		"empty_class_name":          1,
	}, codes(errs), spew.Sdump(res.Errors))

	assert.Equal(t, map[string]int{
		"duplicate_field":      1,
		"duplicate_method":     1,
		"duplicate_real_class": 1,
		"duplicate_fake_class": 1,
	}, codes(warns), spew.Sdump(res.Warnings))
}

func TestValidateCoverage(t *testing.T) {
	m := widgetMapping(t)

	res := ValidateCoverage(m, Fake, []string{"a/b", "a/b$e", "a/dd"})
	require.Len(t, res.Warnings, 1)

	w := res.Warnings[0]
	assert.Equal(t, "class_not_in_archive", w.Code)
	assert.Equal(t, "a/d", w.Class)
	assert.Equal(t, "obf class not found in archive", w.Message)
	assert.Equal(t, []string{"a/dd"}, w.Suggestions)
}
