package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filename derives the store filename for an identifier. The mapping is
// deterministic and lossless for the legal identifier alphabet.
func Filename(id string) string {
	return strings.ReplaceAll(id, "/", "_") + ".yaml"
}

// Load reads and validates a single record file. Malformed files are hard
// errors: the store cannot be assumed partially usable.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rec.Description = strings.TrimRight(rec.Description, "\n")
	if abs, err := filepath.Abs(path); err == nil {
		rec.Path = abs
	} else {
		rec.Path = path
	}
	return &rec, nil
}

// LoadDir loads every record in a store directory, keyed by identifier.
func LoadDir(dir string) (map[string]*Record, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("store is not a directory: %s", dir)
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	records := make(map[string]*Record, len(paths))
	for _, p := range paths {
		rec, err := Load(p)
		if err != nil {
			return nil, err
		}
		records[rec.ID] = rec
	}
	return records, nil
}

// Save writes the record into dir under its deterministic filename. The
// write is atomic: content goes to a temp file in the same directory first
// and is renamed over the target, so a failed write never leaves a
// half-written record behind.
func Save(dir string, rec *Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal record %s: %w", rec.ID, err)
	}

	target := filepath.Join(dir, Filename(rec.ID))
	if err := writeFileAtomic(target, data); err != nil {
		return "", fmt.Errorf("write record %s: %w", rec.ID, err)
	}
	return target, nil
}

func writeFileAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// Merge combines a freshly harvested record with the record already on disk.
//
// Harvest owns description, signature, source_file, categories, and each
// title it produced; it only adds example keys and language snippets it
// parsed itself. Hand-authored snippets for other languages, and whole
// example keys absent from the new harvest, are carried forward untouched.
func Merge(existing, harvested *Record) *Record {
	if existing == nil {
		return harvested
	}

	merged := *harvested
	if merged.Description == "" {
		merged.Description = existing.Description
	}

	if existing.Examples.Len() == 0 {
		return &merged
	}

	out := NewExamples()
	if merged.Examples != nil {
		for _, key := range merged.Examples.Keys() {
			ex, _ := merged.Examples.Get(key)
			out.Set(key, ex)
		}
	}
	for _, key := range existing.Examples.Keys() {
		old, _ := existing.Examples.Get(key)
		cur, ok := out.Get(key)
		if !ok {
			out.Set(key, old)
			continue
		}

		code := make(map[string]string, len(old.Code)+len(cur.Code))
		for lang, snippet := range old.Code {
			code[lang] = snippet
		}
		for lang, snippet := range cur.Code {
			// Freshly harvested snippets win over stored ones.
			code[lang] = snippet
		}
		cur.Code = code
		if cur.Title == "" {
			cur.Title = old.Title
		}
	}
	merged.Examples = out
	return &merged
}
