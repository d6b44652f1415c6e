package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidFilename reports a template filename that is empty or reduces to
// nothing after sanitization.
var ErrInvalidFilename = errors.New("invalid or empty filename after sanitization")

// TemplateStore persists user-saved smartphrase templates in their own flat
// directory, under user-chosen (sanitized) filenames.
type TemplateStore struct {
	dir string
}

// NewTemplateStore creates a store rooted at dir.
func NewTemplateStore(dir string) *TemplateStore {
	return &TemplateStore{dir: dir}
}

// SanitizeTemplateFilename reduces a user-supplied filename to its base name,
// coerces the note extension, and replaces every character outside the
// allow-list (alphanumeric, underscore, hyphen, dot) with an underscore.
// Idempotent: sanitizing a sanitized name returns it unchanged.
func SanitizeTemplateFilename(filename string) (string, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", ErrInvalidFilename
	}
	if !strings.HasSuffix(base, NoteExtension) {
		base += NoteExtension
	}

	var b strings.Builder
	for _, r := range base {
		if isAlphanumeric(r) || r == '_' || r == '-' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	safe := b.String()

	if safe == NoteExtension || strings.TrimSuffix(safe, NoteExtension) == "" {
		return "", ErrInvalidFilename
	}
	return safe, nil
}

// Save writes a template, creating the directory on demand, and returns the
// sanitized filename actually used.
func (s *TemplateStore) Save(filename, content string) (string, error) {
	safe, err := SanitizeTemplateFilename(filename)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create template directory %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, safe)
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return "", fmt.Errorf("failed to save template to %s: %w", path, err)
	}
	return safe, nil
}

// List returns template filenames sorted ascending for a stable picker order.
// A missing directory reports ErrNotFound.
func (s *TemplateStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to list templates in %s: %w", s.dir, err)
	}

	templates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), NoteExtension) {
			templates = append(templates, entry.Name())
		}
	}
	sort.Strings(templates)
	return templates, nil
}

// Delete removes a template, sanitizing the supplied name the same way Save
// does, and returns the sanitized filename that was targeted.
func (s *TemplateStore) Delete(filename string) (string, error) {
	safe, err := SanitizeTemplateFilename(filename)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, safe)
	info, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		return safe, ErrNotFound
	}
	if statErr == nil && !info.Mode().IsRegular() {
		return safe, fmt.Errorf("path %s is not a file", safe)
	}

	if err := os.Remove(path); err != nil {
		return safe, fmt.Errorf("failed to delete template %s: %w", safe, err)
	}
	return safe, nil
}
