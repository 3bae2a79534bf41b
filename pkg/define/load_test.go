package define

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yorgath/orthogram/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.yaml", `
rows:
  - [a, b]
blocks:
  - name: a
  - name: b
`)
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(def.Rows) != 1 || len(def.Blocks) != 2 {
		t.Errorf("rows = %d blocks = %d, want 1 and 2", len(def.Rows), len(def.Blocks))
	}
}

func TestLoadYAMLInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
diagram:
  scale: 2
  font_size: 10
rows:
  - [a]
blocks:
  - name: a
`)
	path := writeFile(t, dir, "main.yaml", `
include:
  - base.yaml
diagram:
  scale: 3
rows:
  - [b]
blocks:
  - name: b
`)
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// The including file wins for scalars; untouched keys survive.
	if def.Diagram.Scale == nil || *def.Diagram.Scale != 3 {
		t.Errorf("scale = %v, want 3 from including file", def.Diagram.Scale)
	}
	if def.Diagram.FontSize == nil || *def.Diagram.FontSize != 10 {
		t.Errorf("font_size = %v, want 10 from include", def.Diagram.FontSize)
	}
	// Sequences append: included rows first, then the including file's.
	if len(def.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(def.Rows))
	}
	if def.Rows[0][0] != "a" || def.Rows[1][0] != "b" {
		t.Errorf("rows = %v, want [[a] [b]]", def.Rows)
	}
	if len(def.Blocks) != 2 || def.Blocks[0].Name != "a" || def.Blocks[1].Name != "b" {
		t.Errorf("blocks out of order: %+v", def.Blocks)
	}
}

func TestLoadCSVInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grid.csv", "a,b\n,c\n")
	path := writeFile(t, dir, "main.yaml", `
include:
  - grid.csv
blocks:
  - name: a
  - name: b
  - name: c
`)
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(def.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(def.Rows))
	}
	if def.Rows[0][0] != "a" || def.Rows[0][1] != "b" {
		t.Errorf("row 0 = %v, want [a b]", def.Rows[0])
	}
	if def.Rows[1][0] != "" || def.Rows[1][1] != "c" {
		t.Errorf("row 1 = %v, want [ c]", def.Rows[1])
	}
}

func TestLoadCSVDelimiter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "grid.txt", "a;b\n")
	path := writeFile(t, dir, "main.yaml", `
include:
  - path: grid.txt
    delimiter: ";"
blocks:
  - name: a
  - name: b
`)
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(def.Rows) != 1 || len(def.Rows[0]) != 2 {
		t.Fatalf("rows = %v, want one row of two cells", def.Rows)
	}
}

func TestLoadIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yaml", `
include:
  - two.yaml
rows:
  - [a]
`)
	writeFile(t, dir, "two.yaml", `
include:
  - one.yaml
blocks:
  - name: a
`)
	def, err := Load(filepath.Join(dir, "one.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, cycles must be deduplicated silently", err)
	}
	if len(def.Rows) != 1 || len(def.Blocks) != 1 {
		t.Errorf("rows = %d blocks = %d, want 1 and 1", len(def.Rows), len(def.Blocks))
	}
}

func TestLoadDuplicateIncludeOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.yaml", `
rows:
  - [a]
`)
	path := writeFile(t, dir, "main.yaml", `
include:
  - shared.yaml
  - shared.yaml
blocks:
  - name: a
`)
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(def.Rows) != 1 {
		t.Errorf("rows = %d, want 1 (file loaded at most once)", len(def.Rows))
	}
}

func TestLoadMissingInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.yaml", `
include:
  - missing.yaml
`)
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("Load() error = %v, want IO_ERROR", err)
	}
}

func TestLoadBadIncludeType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.yaml", "rows: []\n")
	path := writeFile(t, dir, "main.yaml", `
include:
  - path: data.yaml
    type: ini
`)
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeDefinition) {
		t.Fatalf("Load() error = %v, want DEFINITION_ERROR", err)
	}
}

func TestLoadJSONDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.json", `{"rows": [["a"]], "blocks": [{"name": "a"}]}`)
	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(def.Blocks) != 1 || def.Blocks[0].Name != "a" {
		t.Errorf("blocks = %+v, want one block a", def.Blocks)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.yaml", "rows: [\n")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeDefinition) {
		t.Fatalf("Load() error = %v, want DEFINITION_ERROR", err)
	}
}
