package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yorgath/orthogram/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string  // output file path; empty derives it from the input
	format     string  // output format: "png" or "svg"
	refinement int     // refinement lines per logical cell axis
	scale      float64 // scale override; 0 keeps the diagram's own scale
	noCache    bool    // disable the artifact cache entirely
	refresh    bool    // re-render even when a cached artifact exists
}

// renderCommand creates the render command. It wires flags and config
// file defaults into pipeline options and executes the pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a diagram definition to PNG or SVG",
		Long: `Render reads a YAML or CSV diagram definition and writes a PNG or SVG
image. The format follows the --format flag, then the output file
extension, then defaults to SVG.

Finished artifacts are cached by definition content, so re-rendering an
unchanged file is instant. Use --refresh to force a re-render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadUserConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, &opts, cfg)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png or svg (default: from output extension)")
	cmd.Flags().IntVar(&opts.refinement, "refinement", 0, "refinement lines per cell axis (default: 3)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "scale factor (default: diagram attribute)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")

	return cmd
}

// applyConfig fills in options the user did not set on the command
// line from the config file. Explicit flags always win.
func applyConfig(cmd *cobra.Command, opts *renderOpts, cfg Config) {
	flags := cmd.Flags()
	if !flags.Changed("format") && cfg.Format != "" {
		opts.format = cfg.Format
	}
	if !flags.Changed("refinement") && cfg.Refinement > 0 {
		opts.refinement = cfg.Refinement
	}
	if !flags.Changed("scale") && cfg.Scale > 0 {
		opts.scale = cfg.Scale
	}
	if !flags.Changed("no-cache") && cfg.NoCache {
		opts.noCache = true
	}
}

// runRender executes the pipeline and prints the outcome. In verbose
// mode the pipeline's stage logs replace the spinner.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	verbose := logger.GetLevel() <= log.DebugLevel

	pipelineLogger := logger
	var spin *Spinner
	var prog *progress
	if verbose {
		prog = newProgress(logger)
	} else {
		// The spinner owns stderr while the pipeline runs.
		pipelineLogger = newLogger(io.Discard, log.InfoLevel)
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
		spin.Start()
	}

	result, err := runner.Execute(ctx, pipeline.Options{
		Input:      input,
		Output:     opts.output,
		Format:     opts.format,
		Refinement: opts.refinement,
		Scale:      opts.scale,
		Refresh:    opts.refresh,
		Logger:     pipelineLogger,
	})
	if err != nil {
		if spin != nil {
			if spin.Cancelled() {
				spin.Stop()
				return ctx.Err()
			}
			spin.StopWithError(fmt.Sprintf("Rendering %s failed", input))
		}
		return err
	}
	if spin != nil {
		spin.Stop()
	}
	if prog != nil {
		prog.done(fmt.Sprintf("Rendered %s", input))
	}

	printSuccess("Rendered %s", input)
	printFile(result.OutputPath)
	printStats(result.Stats.Blocks, result.Stats.Connections, result.CacheInfo.ArtifactHit)
	if result.CacheInfo.ArtifactHit {
		printHint("Force a re-render", fmt.Sprintf("%s render --refresh %s", appName, input))
	} else {
		printDetail("load %s · layout %s · compose %s · render %s",
			result.Stats.LoadTime.Round(time.Millisecond),
			result.Stats.LayoutTime.Round(time.Millisecond),
			result.Stats.ComposeTime.Round(time.Millisecond),
			result.Stats.RenderTime.Round(time.Millisecond))
	}
	return nil
}
