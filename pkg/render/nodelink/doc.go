// Package nodelink renders positioned networks as node-link previews.
//
// The renderer performs no layout of its own: [ToDOT] pins every node at the
// pixel position computed by the pipeline, and [RenderSVG] runs Graphviz's
// neato engine in-process (github.com/goccy/go-graphviz) only to draw.
//
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Styling is intentionally plain (points and thin edges on a transparent
// background); final artwork is the job of an external renderer reading the
// JSON layout.
package nodelink
