package embeds

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Document is the storage behind a Store: a single blob holding every template.
// Read must return an error satisfying errors.Is(err, fs.ErrNotExist) when the
// document has not been created yet. Lock serializes read-modify-write cycles
// across every user of the same document until the returned function is called.
type Document interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Lock() (unlock func(), err error)
}

// FileDocument is a Document stored as a file.
// Writes go through a temporary file and a rename so readers never observe a
// partially written document. Lock takes an exclusive OS lock on a sibling
// ".lock" file, which also excludes other processes.
type FileDocument struct {
	path string
}

var _ Document = (*FileDocument)(nil)

// NewFileDocument creates a FileDocument at path.
func NewFileDocument(path string) *FileDocument {
	return &FileDocument{path: path}
}

func (d *FileDocument) Read() ([]byte, error) {
	return os.ReadFile(d.path)
}

func (d *FileDocument) Write(data []byte) error {
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}

	return os.Rename(tmp.Name(), d.path)
}

func (d *FileDocument) Lock() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(d.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("lock %s: %w", f.Name(), err)
	}

	return func() {
		_ = unlockFile(f)
		_ = f.Close()
	}, nil
}

// MemoryDocument is an in-memory Document.
// A zero value behaves as a document that does not exist yet.
type MemoryDocument struct {
	// WriteErr, when set, is returned by every Write.
	WriteErr error

	mu      sync.Mutex
	lock    sync.Mutex
	data    []byte
	created bool
}

var _ Document = (*MemoryDocument)(nil)

// NewMemoryDocument creates an existing MemoryDocument holding data.
func NewMemoryDocument(data string) *MemoryDocument {
	return &MemoryDocument{data: []byte(data), created: true}
}

func (d *MemoryDocument) Read() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.created {
		return nil, fs.ErrNotExist
	}
	return bytes.Clone(d.data), nil
}

func (d *MemoryDocument) Write(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.WriteErr != nil {
		return d.WriteErr
	}
	d.data = bytes.Clone(data)
	d.created = true
	return nil
}

func (d *MemoryDocument) Lock() (func(), error) {
	d.lock.Lock()
	return d.lock.Unlock, nil
}

// String returns the current content.
func (d *MemoryDocument) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return string(d.data)
}

// entry is one top-level member of the document, kept undecoded so templates
// written by hand survive rewrites of their neighbors.
type entry struct {
	name string
	raw  json.RawMessage
}

// document is the decoded top-level object in its original member order.
type document struct {
	entries []entry
}

func decodeDocument(data []byte) (*document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentCorrupt, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level value is not an object", ErrDocumentCorrupt)
	}

	doc := &document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDocumentCorrupt, err)
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: template %q: %w", ErrDocumentCorrupt, name, err)
		}
		doc.set(name, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentCorrupt, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top level object", ErrDocumentCorrupt)
	}

	return doc, nil
}

func (d *document) names() []string {
	names := make([]string, 0, len(d.entries))
	for _, e := range d.entries {
		names = append(names, e.name)
	}
	return names
}

func (d *document) lookup(name string) (json.RawMessage, bool) {
	for _, e := range d.entries {
		if e.name == name {
			return e.raw, true
		}
	}
	return nil, false
}

// set replaces the member in place or appends it.
func (d *document) set(name string, raw json.RawMessage) {
	for i := range d.entries {
		if d.entries[i].name == name {
			d.entries[i].raw = raw
			return
		}
	}
	d.entries = append(d.entries, entry{name: name, raw: raw})
}

func (d *document) remove(name string) bool {
	for i := range d.entries {
		if d.entries[i].name == name {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			return true
		}
	}
	return false
}

// encode writes the object with two-space indentation.
func (d *document) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")

		key, err := json.Marshal(e.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteString(": ")

		if err := json.Indent(&buf, e.raw, "  ", "  "); err != nil {
			return nil, fmt.Errorf("template %q: %w", e.name, err)
		}
	}
	if len(d.entries) > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
