// Package persist loads and saves the whole journal as one JSON document.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hyperengineering/mindful/internal/journal"
)

// ErrCorruptData matches any CorruptDataError via errors.Is.
var ErrCorruptData = errors.New("corrupt journal data")

// CorruptDataError reports a journal file that exists but cannot be decoded.
type CorruptDataError struct {
	Path string
	Err  error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt journal data in %s: %v", e.Path, e.Err)
}

func (e *CorruptDataError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCorruptData) match.
func (e *CorruptDataError) Is(target error) bool {
	return target == ErrCorruptData
}

// indent matches the four-space layout of existing journal files.
const indent = "    "

// FileAdapter reads and writes a journal file. It keeps no state besides
// the path.
type FileAdapter struct {
	path string
}

// NewFileAdapter returns an adapter for the file at path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Path returns the backing file path.
func (a *FileAdapter) Path() string {
	return a.path
}

// Load reads the journal. A missing file yields an empty document; a file
// that is not a JSON object of entries yields a *CorruptDataError.
func (a *FileAdapter) Load() (*journal.Document, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("journal file not found, starting empty",
				"component", "persist",
				"path", a.path,
			)
			return journal.NewDocument(), nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}

	doc := journal.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, &CorruptDataError{Path: a.path, Err: err}
	}

	slog.Debug("journal loaded",
		"component", "persist",
		"path", a.path,
		"entries", len(doc.Entries),
	)
	return doc, nil
}

// Save overwrites the journal file with doc. The document is written to a
// temporary file in the same directory and renamed into place.
func (a *FileAdapter) Save(doc *journal.Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(a.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create journal directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(a.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close journal: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod journal: %w", err)
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace journal: %w", err)
	}

	slog.Debug("journal saved",
		"component", "persist",
		"path", a.path,
		"entries", len(doc.Entries),
		"bytes", len(data),
	)
	return nil
}

// Encode renders doc in the on-disk format: indented JSON with sorted keys
// and a trailing newline.
func Encode(doc *journal.Document) ([]byte, error) {
	if doc == nil {
		doc = journal.NewDocument()
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode journal: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return nil, fmt.Errorf("indent journal: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
