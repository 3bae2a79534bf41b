package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

const testDiagram = `
diagram:
  label: CLI test
rows:
  - [a]
  - [~, b]
blocks:
  - name: a
    label: Start
  - name: b
    label: End
connections:
  - start: a
    end: b
`

func TestApplyConfigFillsUnsetFlags(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.renderCommand()

	opts := renderOpts{}
	applyConfig(cmd, &opts, Config{Format: "png", Refinement: 4, Scale: 2, NoCache: true})

	if opts.format != "png" {
		t.Errorf("format = %q, want png from config", opts.format)
	}
	if opts.refinement != 4 {
		t.Errorf("refinement = %d, want 4 from config", opts.refinement)
	}
	if opts.scale != 2 {
		t.Errorf("scale = %v, want 2 from config", opts.scale)
	}
	if !opts.noCache {
		t.Error("noCache should come from config")
	}
}

func TestApplyConfigFlagsWin(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.renderCommand()
	if err := cmd.Flags().Set("format", "svg"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	if err := cmd.Flags().Set("refinement", "5"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}

	opts := renderOpts{format: "svg", refinement: 5}
	applyConfig(cmd, &opts, Config{Format: "png", Refinement: 4})

	if opts.format != "svg" {
		t.Errorf("format = %q, explicit flag should win", opts.format)
	}
	if opts.refinement != 5 {
		t.Errorf("refinement = %d, explicit flag should win", opts.refinement)
	}
}

func TestRenderCommandWritesOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "diagram.yaml")
	if err := os.WriteFile(input, []byte(testDiagram), 0o644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	output := filepath.Join(dir, "out.svg")

	// Point the config lookup somewhere empty so host config cannot
	// leak into the test.
	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", dir)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", input, "-o", output, "--no-cache"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render command error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Error("output is not an SVG document")
	}
}

func TestRenderCommandMissingInput(t *testing.T) {
	dir := t.TempDir()

	oldXdg := os.Getenv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", dir)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CONFIG_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	}()

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"render", filepath.Join(dir, "absent.yaml"), "--no-cache"})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("render should fail for a missing input file")
	}
}
