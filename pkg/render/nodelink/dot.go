package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netweave/pkg/graph"
)

// Options configures node-link preview rendering.
type Options struct {
	// NodeSize is the node diameter in pixels (default 4).
	NodeSize float64

	// Labels draws node ids inside larger circles instead of bare points.
	Labels bool
}

const defaultNodeSize = 4.0

// ToDOT converts a positioned layout to Graphviz DOT for the neato engine.
//
// Every node is pinned at its pixel position (inputscale=72, so one DOT
// point is one pixel) with the y axis flipped, since Graphviz grows y
// upward. Two invisible corner nodes pin the full frame so the rendered
// canvas matches Width x Height.
func ToDOT(l graph.Layout, opts Options) string {
	size := opts.NodeSize
	if size <= 0 {
		size = defaultNodeSize
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", l.Network)
	buf.WriteString("  graph [bgcolor=\"transparent\", inputscale=72, notranslate=true, splines=false, outputorder=edgesfirst];\n")
	if opts.Labels {
		fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%s, fontsize=8];\n", inches(size*3))
	} else {
		fmt.Fprintf(&buf, "  node [shape=point, width=%s];\n", inches(size))
	}
	buf.WriteString("  edge [penwidth=0.5];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  frame_lo [style=invis, pos=%q];\n", pin(0, 0))
	fmt.Fprintf(&buf, "  frame_hi [style=invis, pos=%q];\n", pin(l.Width, l.Height))
	for _, n := range l.Nodes {
		attrs := []string{fmt.Sprintf("pos=%q", pin(n.X, l.Height-n.Y))}
		if opts.Labels {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.Itoa(n.ID)))
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pin(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64) + "!"
}

func inches(px float64) string {
	return strconv.FormatFloat(px/72, 'f', 4, 64)
}

// RenderSVG renders DOT produced by [ToDOT] to SVG with neato, keeping
// every pinned position.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's fixed-unit <svg> header with a
// scalable one that keeps the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
