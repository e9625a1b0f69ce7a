package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/render/nodelink"
)

// Render generates output artifacts for a layout in the requested formats.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatDOT, FormatSVG:
			if dot == "" {
				dot = nodelink.ToDOT(l, nodelink.Options{Labels: opts.Labels})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
