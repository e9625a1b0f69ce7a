package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/network"
	"github.com/matzehuels/netweave/pkg/observability"
	"github.com/matzehuels/netweave/pkg/rng"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph  = "graph"
	keyTypeLayout = "layout"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options; each run owns its stream.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the default entry lifetime of both stages when non-zero.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// graphEntry is the cached output of the generate stage. Stream holds the
// stream snapshot taken right after generation.
type graphEntry struct {
	Graph  graph.Graph     `json:"graph"`
	Params generate.Params `json:"params"`
	Stream []byte          `json:"stream"`
}

// layoutEntry is the cached output of the layout and normalize stages.
type layoutEntry struct {
	Raw        layout.Positions `json:"raw"`
	Positions  layout.Positions `json:"positions"`
	Degenerate bool             `json:"degenerate,omitempty"`
}

// Generated is the output of [Runner.Generate]: the network, its resolved
// parameters, and the stream positioned where layout continues.
type Generated struct {
	Graph  *network.Graph
	Params generate.Params
	Stream *rng.Stream
	Key    string
	Hit    bool
}

// Placed is the output of [Runner.Place].
type Placed struct {
	Raw        layout.Positions
	Positions  layout.Positions
	Degenerate bool
	Hit        bool
}

// Execute runs the complete generate → layout → normalize → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID)

	// Stage 1: Generate
	genStart := time.Now()
	gen, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Graph = gen.Graph
	result.Params = gen.Params
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.NodeCount = gen.Graph.N()
	result.Stats.EdgeCount = gen.Graph.EdgeCount()
	result.CacheInfo.GraphHit = gen.Hit

	logger.Info("generated network",
		"network", opts.Network,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", gen.Hit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Layout and normalize
	layoutStart := time.Now()
	placed, err := r.Place(ctx, gen, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Raw = placed.Raw
	result.Positions = placed.Positions
	result.Degenerate = placed.Degenerate
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = placed.Hit

	if placed.Degenerate {
		logger.Warn("collinear layout centred in frame", "layout", opts.Layout)
	}
	logger.Info("computed layout",
		"layout", opts.Layout,
		"cached", placed.Hit,
		"duration", result.Stats.LayoutTime)

	doc, err := graph.NewLayout(gen.Graph, placed.Positions, opts.Frame())
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	doc.RunID = result.RunID
	doc.Layout = opts.Layout
	doc.Seed = opts.Seed
	doc.Params = gen.Params
	result.Layout = doc

	// Stage 3: Render
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	renderStart := time.Now()
	artifacts, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generate runs the generate stage with caching. The returned stream is
// positioned after generation whether or not the cache was hit.
func (r *Runner) Generate(ctx context.Context, opts Options) (*Generated, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	key := r.Keyer.GraphKey(opts.GraphKeyOpts())
	hooks := observability.Pipeline()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if gen, ok := r.loadGraph(ctx, key, opts.Logger); ok {
			return gen, nil
		}
	}

	hooks.OnGenerateStart(ctx, opts.Network, opts.Nodes)
	start := time.Now()
	s := rng.New(opts.Seed)
	g, params, err := GenerateGraph(s, opts)
	edges := 0
	if g != nil {
		edges = g.EdgeCount()
	}
	hooks.OnGenerateComplete(ctx, opts.Network, edges, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	gen := &Generated{Graph: g, Params: params, Stream: s, Key: key}
	r.storeGraph(ctx, gen, opts.Logger)
	return gen, nil
}

func (r *Runner) loadGraph(ctx context.Context, key string, logger *log.Logger) (*Generated, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("graph cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
		return nil, false
	}

	var entry graphEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Debug("discarding unreadable graph entry", "error", err)
		return nil, false
	}
	g, err := graph.ToNetwork(entry.Graph)
	if err != nil {
		logger.Debug("discarding invalid graph entry", "error", err)
		return nil, false
	}
	s := &rng.Stream{}
	if err := s.UnmarshalBinary(entry.Stream); err != nil {
		logger.Debug("discarding graph entry without stream state", "error", err)
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, keyTypeGraph)
	return &Generated{Graph: g, Params: entry.Params, Stream: s, Key: key, Hit: true}, true
}

func (r *Runner) storeGraph(ctx context.Context, gen *Generated, logger *log.Logger) {
	state, err := gen.Stream.MarshalBinary()
	if err != nil {
		logger.Debug("skip graph cache write", "error", err)
		return
	}
	data, err := json.Marshal(graphEntry{
		Graph:  graph.FromNetwork(gen.Graph),
		Params: gen.Params,
		Stream: state,
	})
	if err != nil {
		logger.Debug("skip graph cache write", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, gen.Key, data, r.ttl(cache.GraphTTL)); err != nil {
		logger.Debug("graph cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeGraph, len(data))
}

// Place runs the layout and normalize stages for a generated network with
// caching. It consumes gen.Stream on a cache miss.
func (r *Runner) Place(ctx context.Context, gen *Generated, opts Options) (*Placed, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	key := r.Keyer.LayoutKey(gen.Key, opts.LayoutKeyOpts())
	if !opts.Refresh {
		if placed, ok := r.loadLayout(ctx, key, gen.Graph.N(), opts.Logger); ok {
			return placed, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Layout, gen.Graph.N())
	start := time.Now()
	raw, err := ComputeLayout(gen.Graph, gen.Stream, opts)
	hooks.OnLayoutComplete(ctx, opts.Layout, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	start = time.Now()
	pos, degenerate, err := NormalizePositions(raw, opts)
	hooks.OnNormalizeComplete(ctx, degenerate, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	placed := &Placed{Raw: raw, Positions: pos, Degenerate: degenerate}
	if data, err := json.Marshal(layoutEntry{Raw: raw, Positions: pos, Degenerate: degenerate}); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.LayoutTTL)); err != nil {
			opts.Logger.Debug("layout cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return placed, nil
}

func (r *Runner) loadLayout(ctx context.Context, key string, n int, logger *log.Logger) (*Placed, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Debug("layout cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return nil, false
	}

	var entry layoutEntry
	if err := json.Unmarshal(data, &entry); err != nil || len(entry.Positions) != n || len(entry.Raw) != n {
		logger.Debug("discarding invalid layout entry", "key", key)
		return nil, false
	}

	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	return &Placed{
		Raw:        entry.Raw,
		Positions:  entry.Positions,
		Degenerate: entry.Degenerate,
		Hit:        true,
	}, true
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// checkContext reports a cancelled run. Stages do not observe ctx, so the
// runner checks it between them.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCanceled, err, "run cancelled")
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
