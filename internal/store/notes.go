// Package store persists notes and smartphrase templates as flat text files.
// There is no locking: concurrent writes to the same filename race and the
// last write wins. That matches the service's documented consistency model.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// NoteExtension is the extension of every persisted note and template.
	NoteExtension = ".txt"

	// DefaultService is used when a service abbreviation is empty after
	// sanitization.
	DefaultService = "GENERAL"

	// filenamePrefix is constant so lexicographic order of note filenames is
	// determined by the embedded YYYYMMDD_HHMM timestamp.
	filenamePrefix = "notedraft"

	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrNotFound reports a missing note, template, or storage directory.
var ErrNotFound = errors.New("not found")

// NoteStore reads and writes generated notes in a single flat directory,
// created lazily on first save.
type NoteStore struct {
	dir string
	now func() time.Time
}

// NewNoteStore creates a store rooted at dir.
func NewNoteStore(dir string) *NoteStore {
	return &NoteStore{dir: dir, now: time.Now}
}

// NewNoteStoreAt creates a store with a fixed clock, for deterministic
// filename tests.
func NewNoteStoreAt(dir string, now func() time.Time) *NoteStore {
	return &NoteStore{dir: dir, now: now}
}

// SanitizeServiceAbbreviation replaces every character outside [A-Za-z0-9_]
// with an underscore and falls back to DefaultService when nothing survives.
// Sanitizing an already-sanitized value is a no-op.
func SanitizeServiceAbbreviation(abbr string) string {
	var b strings.Builder
	for _, r := range abbr {
		if isAlphanumeric(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	safe := b.String()
	if safe == "" {
		return DefaultService
	}
	return safe
}

// FileNameFor derives a note filename from the service abbreviation and the
// current timestamp: notedraft_YYYYMMDD_HHMM_SERVICE.txt. Two calls within
// the same minute for the same service collide; the later save wins.
func (s *NoteStore) FileNameFor(serviceAbbreviation string) string {
	now := s.now()
	return fmt.Sprintf("%s_%s_%s_%s%s",
		filenamePrefix,
		now.Format("20060102"),
		now.Format("1504"),
		SanitizeServiceAbbreviation(serviceAbbreviation),
		NoteExtension)
}

// Save writes content to filename, creating the directory on demand.
func (s *NoteStore) Save(filename, content string) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create notes directory %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, filename)
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return fmt.Errorf("failed to save note to %s: %w", path, err)
	}
	return nil
}

// List returns the note filenames sorted descending, which is newest-first
// given the timestamped naming convention. A missing directory reports
// ErrNotFound so callers can distinguish it from an empty one.
func (s *NoteStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to list notes in %s: %w", s.dir, err)
	}

	notes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), NoteExtension) {
			notes = append(notes, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(notes)))
	return notes, nil
}

// Read returns the content of a stored note.
func (s *NoteStore) Read(filename string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read note %s: %w", filename, err)
	}
	return string(data), nil
}

// Exists reports whether filename refers to a stored note file.
func (s *NoteStore) Exists(filename string) bool {
	info, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil && info.Mode().IsRegular()
}

// Delete removes a stored note.
func (s *NoteStore) Delete(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// DeleteAll removes every note file and reports the deleted count alongside
// per-file failure messages; a partial failure does not abort the sweep.
func (s *NoteStore) DeleteAll() (int, []string) {
	names, err := s.List()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, nil
		}
		return 0, []string{err.Error()}
	}

	deleted := 0
	var failures []string
	for _, name := range names {
		if err := s.Delete(name); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		deleted++
	}
	return deleted, failures
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
