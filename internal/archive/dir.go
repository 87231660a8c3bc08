package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// OpenDir reads an exploded archive directory into memory. Entry names use
// forward slashes relative to root, in lexical walk order.
func OpenDir(root string) (*Memory, error) {
	m := NewMemory()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		m.Put(Entry{Name: filepath.ToSlash(rel), Data: data, Modified: info.ModTime()})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", root, err)
	}

	return m, nil
}

// WriteDir writes every entry below outputDir, creating directories as
// needed. Entry names that would escape outputDir are rejected.
func (m *Memory) WriteDir(outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, e := range m.Entries() {
		rel := filepath.FromSlash(e.Name)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("entry %s escapes the output directory", e.Name)
		}

		outputPath := filepath.Join(outputDir, rel)

		if e.Name[len(e.Name)-1] == '/' {
			if err := os.MkdirAll(outputPath, dirPerm); err != nil {
				return fmt.Errorf("creating directory %s: %w", e.Name, err)
			}

			continue
		}

		if err := os.MkdirAll(filepath.Dir(outputPath), dirPerm); err != nil {
			return fmt.Errorf("creating directory for %s: %w", e.Name, err)
		}

		if err := os.WriteFile(outputPath, e.Data, filePerm); err != nil {
			return fmt.Errorf("writing file %s: %w", e.Name, err)
		}
	}

	return nil
}
