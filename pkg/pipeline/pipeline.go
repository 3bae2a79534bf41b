// Package pipeline runs the complete load → layout → compose → render
// chain that turns a diagram definition file into an image. The CLI is
// a thin wrapper over this package, so anything the CLI can do is also
// available programmatically.
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "diagram.yaml",
//	    Output: "diagram.png",
//	})
//
// Rendering is deterministic, so finished artifacts are cached by the
// hash of the merged definition document plus the render options.
package pipeline

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yorgath/orthogram/pkg/cache"
	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/draw"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/layout"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
}

// DefaultFormat is used when neither the format option nor the output
// file extension decides.
const DefaultFormat = FormatSVG

// Options configures a pipeline run.
type Options struct {
	// Input is the path of the diagram definition file.
	Input string `json:"input"`

	// Output is the path of the image to write. Empty derives it from
	// the input path and the format.
	Output string `json:"output,omitempty"`

	// Format selects the output format. Empty derives it from the
	// output extension, falling back to SVG.
	Format string `json:"format,omitempty"`

	// Refinement is the number of refinement lines per logical cell
	// axis. Zero means the default.
	Refinement int `json:"refinement,omitempty"`

	// Scale overrides the diagram's own scale attribute when positive.
	Scale float64 `json:"scale,omitempty"`

	// Refresh bypasses the artifact cache and overwrites the entry.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and fills in derived
// ones. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateInputPath(o.Input); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = formatFromPath(o.Output)
	}
	if !ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format %q (must be png or svg)", o.Format)
	}
	if o.Output == "" {
		base := strings.TrimSuffix(o.Input, filepath.Ext(o.Input))
		o.Output = base + "." + o.Format
	}
	if o.Refinement == 0 {
		o.Refinement = layout.DefaultRefinement
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options of this run.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     o.Format,
		Refinement: o.Refinement,
		Scale:      o.Scale,
	}
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG
	case ".svg":
		return FormatSVG
	}
	return DefaultFormat
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the built diagram, nil when the artifact came from
	// the cache.
	Diagram *define.Diagram

	// Drawing is the composed drawing, nil on a cache hit.
	Drawing *draw.Drawing

	// Artifact holds the rendered output bytes.
	Artifact []byte

	// OutputPath is where the artifact was written.
	OutputPath string

	// DocHash is the content hash of the merged definition document.
	DocHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information for a run.
type Stats struct {
	Blocks      int
	Connections int

	LoadTime    time.Duration
	LayoutTime  time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo reports whether the artifact came from the cache.
type CacheInfo struct {
	ArtifactHit bool
}
