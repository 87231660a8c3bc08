package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const widgetYAML = `
version: "1"
namespaces:
  real: named
  fake: obf
classes:
  - real: com/example/Widget
    fake: a/b
    fields:
      count: c
      name: d
    methods:
      - real: resize
        fake: a
        desc: (Lcom/example/Widget;I)V
      - real: resize
        fake: b
        desc: (J)V
      - real: getName
        fake: c
        desc: ()Ljava/lang/String;
  - real: com/example/Widget$Part
    fake: a/b$e
  - real: com.example.Holder
    fake: a.d
    methods:
      - real: hold
        fake: a
        fake_desc: (La/b;)La/d;
`

func widgetMapping(t *testing.T) *ArchiveMapping {
	t.Helper()

	mf, err := Parse([]byte(widgetYAML))
	require.NoError(t, err)

	m, err := Build(mf)
	require.NoError(t, err)

	return m
}
