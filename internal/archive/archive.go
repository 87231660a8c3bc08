package archive

import (
	"time"
)

// Entry is one named file of an archive.
type Entry struct {
	Name string
	Data []byte
	// Modified is the stored modification time; zero means unknown.
	Modified time.Time
}

// Reader gives read access to archive entries.
type Reader interface {
	// Entries returns all entries in archive order.
	Entries() []Entry
	// Entry looks up one entry by its full name.
	Entry(name string) (Entry, bool)
}

// Writer gives write access to archive entries.
type Writer interface {
	// Put adds an entry or replaces the entry of the same name.
	Put(e Entry)
	// Remove deletes an entry. Removing a missing entry is a no-op.
	Remove(name string)
}

// Archive is a readable and writable archive.
type Archive interface {
	Reader
	Writer
}
