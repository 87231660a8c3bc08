package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
)

// OpenZip reads a zip or jar file into memory.
func OpenZip(path string) (*Memory, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer func() { _ = zr.Close() }()

	m, err := readZip(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", path, err)
	}

	return m, nil
}

// ReadZip reads a zip archive from memory.
func ReadZip(data []byte) (*Memory, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return readZip(zr)
}

func readZip(zr *zip.Reader) (*Memory, error) {
	m := NewMemory()

	for _, f := range zr.File {
		e := Entry{Name: f.Name, Modified: f.Modified}

		if !f.FileInfo().IsDir() {
			data, err := readZipFile(f)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", f.Name, err)
			}

			e.Data = data
		}

		m.Put(e)
	}

	return m, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

// WriteZip writes the archive as a zip stream in archive order.
func (m *Memory) WriteZip(w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, e := range m.Entries() {
		if err := addEntryToZip(zw, e); err != nil {
			_ = zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}

	return nil
}

// WriteZipFile writes the archive to a zip file, replacing it.
func (m *Memory) WriteZipFile(path string) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", path, err)
	}

	if err := m.WriteZip(outFile); err != nil {
		_ = outFile.Close()
		return fmt.Errorf("writing archive %s: %w", path, err)
	}

	return outFile.Close()
}

func addEntryToZip(zw *zip.Writer, e Entry) error {
	header := &zip.FileHeader{
		Name:     e.Name,
		Method:   zip.Deflate,
		Modified: e.Modified,
	}

	if strings.HasSuffix(e.Name, "/") {
		header.Method = zip.Store
	}

	writer, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to create zip entry %s: %w", e.Name, err)
	}

	if _, err := writer.Write(e.Data); err != nil {
		return fmt.Errorf("failed to write zip entry %s: %w", e.Name, err)
	}

	return nil
}
