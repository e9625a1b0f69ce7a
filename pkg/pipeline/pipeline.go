// Package pipeline runs netweave's generate → layout → normalize → render
// pipeline.
//
// The CLI and the HTTP server both go through this package, so defaults,
// validation, caching and determinism are the same at every entry point.
//
// # Architecture
//
// A run has four stages sharing one random stream seeded from Options.Seed:
//
//  1. Generate: build the network (package generate)
//  2. Layout: place the nodes (package layout)
//  3. Normalize: map positions onto the pixel frame (package normalize)
//  4. Render: encode the result as JSON, DOT or an SVG preview
//
// Generation and layout+normalize are cached separately. The graph entry
// stores the stream state after generation, so a cache hit leaves the stream
// exactly where an uncached run would.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Network: "watts_strogatz",
//	    Nodes:   120,
//	    Layout:  "spring",
//	    Formats: []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// The stage functions [GenerateGraph], [ComputeLayout] and
// [NormalizePositions] are also exported for callers without a runner.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/normalize"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultNetwork is the default generator.
	DefaultNetwork = string(generate.KindBarabasiAlbert)

	// DefaultLayout is the default layout algorithm.
	DefaultLayout = string(layout.KindSpring)

	// DefaultNodes is the default node count.
	DefaultNodes = 100

	// MaxNodes bounds the node count accepted by the pipeline. The spring
	// layout is quadratic in the node count.
	MaxNodes = 20000

	// MaxEdges bounds the expected edge count of a generated network, after
	// parameters are resolved.
	MaxEdges = 2_000_000

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	Network string          `json:"network,omitempty"`
	Nodes   int             `json:"nodes,omitempty"`
	Seed    uint64          `json:"seed,omitempty"`
	Params  generate.Params `json:"params,omitzero"`
	Refresh bool            `json:"refresh,omitempty"` // Skip cache reads

	// Layout options
	Layout          string  `json:"layout,omitempty"`
	Iterations      int     `json:"iterations,omitempty"`
	K               float64 `json:"k,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
	Shells          int     `json:"shells,omitempty"`
	PreferEmbedding *bool   `json:"prefer_embedding,omitempty"` // Default true

	// Normalize options
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Margin float64 `json:"margin,omitempty"`
	Strict bool    `json:"strict,omitempty"` // Fail on collinear layouts instead of centring

	// Render options
	Formats []string `json:"formats,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// Graph is the generated network.
	Graph *network.Graph

	// Params holds the generator parameters after derivation.
	Params generate.Params

	// Raw holds layout coordinates before normalization.
	Raw layout.Positions

	// Positions holds the final pixel coordinates.
	Positions layout.Positions

	// Degenerate reports that a collinear axis was centred.
	Degenerate bool

	// Layout is the renderer handoff document.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GenerateTime time.Duration
	LayoutTime   time.Duration // Layout and normalize
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the network came from cache
	LayoutHit bool // Whether positions came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate validates and sets defaults for generation.
func (o *Options) ValidateForGenerate() error {
	if o.Network == "" {
		o.Network = DefaultNetwork
	}
	if o.Nodes == 0 {
		o.Nodes = DefaultNodes
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	o.setLogger()

	if _, err := generate.ParseKind(o.Network); err != nil {
		return err
	}
	if err := errors.ValidateNodeCount(o.Nodes); err != nil {
		return err
	}
	if o.Nodes > MaxNodes {
		return errors.InvalidParameter("num_nodes=%d exceeds the maximum of %d", o.Nodes, MaxNodes)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout and normalization.
func (o *Options) SetLayoutDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Width == 0 {
		o.Width = normalize.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = normalize.DefaultHeight
	}
	if o.Margin == 0 {
		o.Margin = normalize.DefaultMargin
	}
	if o.PreferEmbedding == nil {
		prefer := true
		o.PreferEmbedding = &prefer
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout and
// normalization.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if _, err := layout.ParseKind(o.Layout); err != nil {
		return err
	}
	if err := o.Hints().Validate(); err != nil {
		return err
	}
	return o.Frame().Validate()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Hints returns the layout hints described by the options.
func (o *Options) Hints() layout.Hints {
	return layout.Hints{
		Iterations:      o.Iterations,
		K:               o.K,
		Temperature:     o.Temperature,
		Workers:         o.Workers,
		Shells:          o.Shells,
		PreferEmbedding: o.PreferEmbedding != nil && *o.PreferEmbedding,
	}
}

// Frame returns the normalization frame.
func (o *Options) Frame() normalize.Frame {
	return normalize.Frame{Width: o.Width, Height: o.Height, Margin: o.Margin}
}

// GraphKeyOpts returns cache key options for the generate stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Network: o.Network,
		Nodes:   o.Nodes,
		Seed:    o.Seed,
		Params:  o.Params,
	}
}

// LayoutKeyOpts returns cache key options for the layout and normalize
// stages.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	h := o.Hints()
	return cache.LayoutKeyOpts{
		Layout:          o.Layout,
		Iterations:      h.Iterations,
		K:               h.K,
		Temperature:     h.Temperature,
		Shells:          h.Shells,
		PreferEmbedding: h.PreferEmbedding,
		Width:           o.Width,
		Height:          o.Height,
		Margin:          o.Margin,
	}
}

// Summary returns a one-line description for logs.
func (o *Options) Summary() string {
	return fmt.Sprintf("%s(n=%d, seed=%d) → %s", o.Network, o.Nodes, o.Seed, o.Layout)
}
