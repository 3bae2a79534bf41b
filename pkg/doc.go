// Package pkg provides the core libraries of the orthogram diagram
// engine.
//
// # Overview
//
// Orthogram turns a declarative diagram definition into a finished
// image. Blocks are placed on a logical grid of rows and columns,
// connections are routed as orthogonal wires over a refined version of
// that grid, and the result is painted to PNG or SVG.
//
// The typical data flow:
//
//	YAML/CSV definition
//	         ↓
//	    [define] package (load, merge, build the diagram)
//	         ↓
//	    [layout] package (grid, routing, segment optimization)
//	         ↓
//	    [draw] package (sizing and paint op composition)
//	         ↓
//	    [render] package (PNG via raster, SVG via svg)
//
// # Quick Start
//
// Render a definition file with the pipeline:
//
//	import "github.com/yorgath/orthogram/pkg/pipeline"
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:  "diagram.yaml",
//	    Output: "diagram.svg",
//	})
//
// Or drive the stages directly:
//
//	doc, _ := define.LoadRaw("diagram.yaml")
//	def, _ := define.Build(doc)
//	diagram, _ := define.NewDiagram(def)
//	l, _ := layout.New(diagram, layout.DefaultRefinement)
//	canvas := svg.New()
//	drawing, _ := draw.Compose(l, canvas)
//	_ = drawing.Render(canvas, "diagram.svg")
//
// # Main Packages
//
// [define] - Definition loading and the diagram model: attributes with
// inheritance, blocks, connections, row layout.
//
// [layout] - The layout engine: logical grid, refinement node graph,
// lexicographic orthogonal router, and the segment optimizer that
// reorders and collapses parallel wires.
//
// [draw] - Sizing via the constraint solver and composition of paint
// operations; labels for blocks and connections.
//
// [render] - The canvas contract plus the raster (PNG) and svg
// back-ends. [fonts] supplies embedded Go font faces for both.
//
// [solver] - A small Cassowary-style linear constraint solver used by
// the sizer.
//
// [pipeline] - Orchestration of the full chain with artifact caching
// from [cache].
package pkg
