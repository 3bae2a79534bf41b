package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/yorgath/orthogram/pkg/cache"
	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/draw"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/layout"
	"github.com/yorgath/orthogram/pkg/render"
	"github.com/yorgath/orthogram/pkg/render/raster"
	"github.com/yorgath/orthogram/pkg/render/svg"
)

// Runner executes the pipeline with artifact caching. It is stateless
// apart from the cache and logger, so one Runner can serve multiple
// runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// keyer selects the default key scheme.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs load → layout → compose → render and writes the image.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	result := &Result{OutputPath: opts.Output}

	// Stage 1: load and build the definition.
	loadStart := time.Now()
	doc, err := define.LoadRaw(opts.Input)
	if err != nil {
		return nil, err
	}
	result.DocHash, err = hashDoc(doc)
	if err != nil {
		return nil, err
	}

	// The artifact key covers the merged document and every option
	// that changes the output, so a hit can skip all later stages.
	cacheKey := r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
				return nil, errors.Wrap(errors.ErrCodeIO, err, "writing %s", opts.Output)
			}
			result.Artifact = data
			result.CacheInfo.ArtifactHit = true
			logger.Info("reused cached artifact", "output", opts.Output)
			return result, nil
		}
	}

	def, err := define.Build(doc)
	if err != nil {
		return nil, err
	}
	diagram, err := define.NewDiagram(def)
	if err != nil {
		return nil, err
	}
	result.Diagram = diagram
	result.Stats.Blocks = len(diagram.Blocks)
	result.Stats.Connections = len(diagram.Connections)
	result.Stats.LoadTime = time.Since(loadStart)
	logger.Info("built diagram",
		"blocks", result.Stats.Blocks,
		"connections", result.Stats.Connections,
		"duration", result.Stats.LoadTime)

	// Stage 2: layout and routing.
	layoutStart := time.Now()
	l, err := layout.New(diagram, opts.Refinement)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	logger.Info("computed layout",
		"routes", len(l.Routes),
		"duration", result.Stats.LayoutTime)

	// Stage 3: compose the drawing. The canvas doubles as the text
	// measurer so composition and painting agree on extents.
	composeStart := time.Now()
	canvas := newCanvas(opts.Format)
	drawing, err := draw.Compose(l, canvas)
	if err != nil {
		return nil, err
	}
	if opts.Scale > 0 {
		drawing.Scale = opts.Scale
	}
	result.Drawing = drawing
	result.Stats.ComposeTime = time.Since(composeStart)
	logger.Info("composed drawing",
		"width", drawing.Width,
		"height", drawing.Height,
		"duration", result.Stats.ComposeTime)

	// Stage 4: render to the output file.
	renderStart := time.Now()
	if err := drawing.Render(canvas, opts.Output); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)
	logger.Info("rendered artifact",
		"format", opts.Format,
		"output", opts.Output,
		"duration", result.Stats.RenderTime)

	data, err := os.ReadFile(opts.Output)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "reading back %s", opts.Output)
	}
	result.Artifact = data
	_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)

	return result, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func newCanvas(format string) render.Canvas {
	if format == FormatPNG {
		return raster.New()
	}
	return svg.New()
}

// hashDoc fingerprints the merged definition document. YAML
// marshalling sorts map keys, so equivalent documents hash equally.
func hashDoc(doc map[string]any) (string, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hashing definition document")
	}
	return cache.Hash(data), nil
}
