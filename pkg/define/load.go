// Package define loads diagram definition files and builds the diagram
// model the layout engine consumes.
//
// A definition file is a YAML document (JSON is valid YAML and therefore
// accepted) with the sections diagram, rows, blocks, connections, styles,
// groups, and include. Loading proceeds in three steps:
//
//  1. Include resolution: included files are merged depth-first before the
//     including file, each file at most once. CSV includes contribute rows
//     only.
//  2. Building: the merged document is decoded into a Definition with all
//     attribute keys type-checked (see Build).
//  3. Diagram construction: the Definition is placed on the grid and
//     validated (see NewDiagram).
package define

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yorgath/orthogram/pkg/errors"
)

// Load reads a definition file, resolves its includes, and builds the
// Definition.
func Load(path string) (*Definition, error) {
	doc, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// LoadRaw reads a definition file and resolves its includes, returning the
// merged raw document. The result is what Build consumes; callers that
// need a cache key can marshal it.
func LoadRaw(path string) (map[string]any, error) {
	if err := errors.ValidateInputPath(path); err != nil {
		return nil, err
	}
	l := &loader{visited: make(map[string]struct{})}
	doc := make(map[string]any)
	if err := l.loadYAML(path, doc); err != nil {
		return nil, err
	}
	delete(doc, "include")
	return doc, nil
}

type loader struct {
	visited map[string]struct{}
}

// loadYAML loads one YAML file and merges it into acc, includes first.
func (l *loader) loadYAML(path string, acc map[string]any) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "resolving path %q", path)
	}
	if _, seen := l.visited[abs]; seen {
		// Already loaded through another include chain; cycles and
		// duplicates are deduplicated silently.
		return nil
	}
	l.visited[abs] = struct{}{}

	data, err := os.ReadFile(abs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "reading definition file %q", path)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeDefinition, err, "parsing %q", path)
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	// Includes merge before the including file so that the including
	// file's definitions win.
	if incVal, ok := doc["include"]; ok {
		if err := l.loadIncludes(incVal, filepath.Dir(abs), acc); err != nil {
			return err
		}
		delete(doc, "include")
	}

	mergeDoc(acc, doc)
	return nil
}

// includeEntry is one entry of the include section.
type includeEntry struct {
	path      string
	fileType  string
	delimiter string
}

func (l *loader) loadIncludes(v any, baseDir string, acc map[string]any) error {
	seq, ok := v.([]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "include section must be a sequence, got %T", v)
	}
	for i, item := range seq {
		entry, err := decodeInclude(item)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDefinition, err, "include entry %d", i)
		}
		path := entry.path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		switch fileTypeOf(entry) {
		case "csv":
			if err := l.loadCSV(path, entry.delimiter, acc); err != nil {
				return err
			}
		case "yaml":
			if err := l.loadYAML(path, acc); err != nil {
				return err
			}
		default:
			return errors.New(errors.ErrCodeDefinition, "include entry %d: unknown type %q", i, entry.fileType)
		}
	}
	return nil
}

func decodeInclude(v any) (includeEntry, error) {
	switch val := v.(type) {
	case string:
		return includeEntry{path: val}, nil
	case map[string]any:
		entry := includeEntry{}
		for _, key := range sortedKeys(val) {
			s, err := toString(val[key])
			if err != nil {
				return entry, errors.New(errors.ErrCodeDefinition, "%s: %v", key, err)
			}
			switch key {
			case "path":
				entry.path = s
			case "type":
				entry.fileType = s
			case "delimiter":
				entry.delimiter = s
			default:
				return entry, errors.New(errors.ErrCodeDefinition, "unknown key %q", key)
			}
		}
		if entry.path == "" {
			return entry, errors.New(errors.ErrCodeDefinition, "missing path")
		}
		return entry, nil
	}
	return includeEntry{}, errors.New(errors.ErrCodeDefinition, "must be a path or mapping, got %T", v)
}

// fileTypeOf returns the effective type of an include entry, falling back
// to extension-based detection.
func fileTypeOf(entry includeEntry) string {
	if entry.fileType != "" {
		return entry.fileType
	}
	switch strings.ToLower(filepath.Ext(entry.path)) {
	case ".csv", ".txt":
		return "csv"
	}
	return "yaml"
}

// loadCSV loads a CSV file and appends its records to the rows section.
// CSV includes contribute rows only.
func (l *loader) loadCSV(path, delimiter string, acc map[string]any) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "resolving path %q", path)
	}
	if _, seen := l.visited[abs]; seen {
		return nil
	}
	l.visited[abs] = struct{}{}

	f, err := os.Open(abs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "reading rows file %q", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if delimiter != "" {
		runes := []rune(delimiter)
		if len(runes) != 1 {
			return errors.New(errors.ErrCodeDefinition, "delimiter must be a single character, got %q", delimiter)
		}
		r.Comma = runes[0]
	}
	records, err := r.ReadAll()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDefinition, err, "parsing rows file %q", path)
	}

	rows, _ := acc["rows"].([]any)
	for _, record := range records {
		row := make([]any, len(record))
		for i, field := range record {
			row[i] = field
		}
		rows = append(rows, row)
	}
	acc["rows"] = rows
	return nil
}

// mergeDoc merges src into dst: mappings merge recursively, sequences
// append, scalars from src override.
func mergeDoc(dst, src map[string]any) {
	for key, srcVal := range src {
		dstVal, exists := dst[key]
		if !exists {
			dst[key] = srcVal
			continue
		}
		switch sv := srcVal.(type) {
		case map[string]any:
			if dm, ok := dstVal.(map[string]any); ok {
				mergeDoc(dm, sv)
				continue
			}
		case []any:
			if ds, ok := dstVal.([]any); ok {
				dst[key] = append(ds, sv...)
				continue
			}
		}
		dst[key] = srcVal
	}
}
