// Package output persists extracted contact records to disk.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JakeFAU/contact-scraper/internal/extract"
)

// ContactWriter rewrites the full list of contacts as a JSON array.
type ContactWriter struct {
	path string
}

// NewContactWriter returns a writer targeting path.
func NewContactWriter(path string) (*ContactWriter, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("output path is required")
	}
	return &ContactWriter{path: path}, nil
}

// Path returns the output file location.
func (w *ContactWriter) Path() string {
	return w.path
}

// Write replaces the output file with contacts, indented by four spaces and
// with non-ASCII and HTML characters left unescaped.
func (w *ContactWriter) Write(contacts []extract.Contact) error {
	if contacts == nil {
		contacts = []extract.Contact{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(contacts); err != nil {
		return fmt.Errorf("marshal contacts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o750); err != nil {
		return fmt.Errorf("creating output dir for %s: %w", w.path, err)
	}
	if err := os.WriteFile(w.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write contacts to %s: %w", w.path, err)
	}
	return nil
}

// Read loads the contacts currently stored at the output path.
func (w *ContactWriter) Read() ([]extract.Contact, error) {
	// #nosec G304 -- output path comes from operator configuration.
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("read contacts from %s: %w", w.path, err)
	}
	var contacts []extract.Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts from %s: %w", w.path, err)
	}
	return contacts, nil
}
