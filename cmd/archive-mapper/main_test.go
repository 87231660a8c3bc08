package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archive-mapper/internal/archive"
	"archive-mapper/internal/classfile"
)

const testMapping = `
namespaces:
  real: named
  fake: obf
classes:
  - real: com/Example
    fake: a/A
    fields:
      value: a
    methods:
      - real: doThing
        fake: b
        desc: (I)V
  - real: com/Named
    fake: a/N
`

// run executes the CLI in a scratch working directory so no config or
// dotenv file of the caller is picked up.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := newRootCmd()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}

func writeMapping(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testMapping), 0o644))

	return path
}

func obfClass(t *testing.T) []byte {
	t.Helper()

	node := &classfile.ClassNode{
		MajorVersion: 52,
		Access:       classfile.AccPublic | classfile.AccSuper,
		Name:         "a/A",
		Super:        classfile.ObjectClass,
		Fields:       []*classfile.Field{{Access: classfile.AccPublic, Name: "a", Desc: "I"}},
		Methods: []*classfile.Method{{
			Access: classfile.AccPublic,
			Name:   "b",
			Desc:   "(I)V",
			Code: &classfile.Code{
				MaxStack:     2,
				MaxLocals:    2,
				Instructions: []classfile.Instruction{&classfile.Insn{Op: classfile.OpReturn}},
			},
		}},
	}

	data, err := (&classfile.Writer{}).Write(node)
	require.NoError(t, err)

	return data
}

func classDir(t *testing.T) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "classes")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "A.class"), obfClass(t), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "res.txt"), []byte("keep"), 0o644))

	return dir
}

func TestRemap_Directory(t *testing.T) {
	dir := classDir(t)
	mp := writeMapping(t, t.TempDir())

	stdout, _, err := run(t, "remap", dir, "--mapping", mp, "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "remapped 1 classes from obf to named (1 renamed)")

	out := dir + "-named"
	assert.FileExists(t, filepath.Join(out, "res.txt"))
	assert.NoFileExists(t, filepath.Join(out, "a", "A.class"))

	data, err := os.ReadFile(filepath.Join(out, "com", "Example.class"))
	require.NoError(t, err)

	node, err := classfile.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "com/Example", node.Name)
	require.Len(t, node.Methods, 1)
	assert.Equal(t, "doThing", node.Methods[0].Name)
	require.Len(t, node.Fields, 1)
	assert.Equal(t, "value", node.Fields[0].Name)
}

func TestRemap_Jar(t *testing.T) {
	tmp := t.TempDir()
	jar := filepath.Join(tmp, "game.jar")
	out := filepath.Join(tmp, "out.jar")

	in := archive.NewMemory(archive.Entry{Name: "a/A.class", Data: obfClass(t)})
	require.NoError(t, in.WriteZipFile(jar))

	_, _, err := run(t, "remap", jar, "-m", writeMapping(t, tmp), "-o", out, "--compute-frames=false")
	require.NoError(t, err)

	got, err := archive.OpenZip(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"com/Example"}, archive.ClassNames(got))
}

func TestRemap_RequiresMapping(t *testing.T) {
	_, _, err := run(t, "remap", classDir(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mapping file")
}

func TestRemap_SameNamespace(t *testing.T) {
	_, _, err := run(t, "remap", classDir(t), "-m", writeMapping(t, t.TempDir()), "--from", "named")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestCheck(t *testing.T) {
	stdout, stderr, err := run(t, "check", "--mapping", writeMapping(t, t.TempDir()), classDir(t))
	require.NoError(t, err)

	assert.Contains(t, stdout, "2 classes")
	assert.Contains(t, stderr, "class_not_in_archive")
	assert.Contains(t, stderr, "a/N")
}

func TestLookup(t *testing.T) {
	stdout, _, err := run(t, "lookup", "-m", writeMapping(t, t.TempDir()),
		"a/A", "a/A.b(I)V", "a/A.a", "a/A.zz", "a.A#b(I)V")
	require.NoError(t, err)

	assert.Equal(t, "a/A -> com/Example\n"+
		"a/A.b(I)V -> com/Example.doThing(I)V\n"+
		"a/A.a -> com/Example.value\n"+
		"a/A.zz -> com/Example.zz (field not mapped)\n"+
		"a/A.b(I)V -> com/Example.doThing(I)V\n", stdout)
}

func TestLookup_Reverse(t *testing.T) {
	stdout, _, err := run(t, "lookup", "-m", writeMapping(t, t.TempDir()),
		"--from", "named", "--to", "obf", "com/Example.doThing(I)V")
	require.NoError(t, err)
	assert.Equal(t, "com/Example.doThing(I)V -> a/A.b(I)V\n", stdout)
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input string
		isDir bool
		want  string
	}{
		{input: "lib/game.jar", want: "lib/game-named.jar"},
		{input: "game", want: "game-named"},
		{input: "build/classes/", isDir: true, want: "build/classes-named"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, defaultOutput(tt.input, "named", tt.isDir))
		})
	}
}
