package pipeline

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/netweave/pkg/cache"
	"github.com/matzehuels/netweave/pkg/errors"
	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/rng"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}

	if opts.Network != DefaultNetwork {
		t.Errorf("Network = %q, want %q", opts.Network, DefaultNetwork)
	}
	if opts.Layout != DefaultLayout {
		t.Errorf("Layout = %q, want %q", opts.Layout, DefaultLayout)
	}
	if opts.Nodes != DefaultNodes {
		t.Errorf("Nodes = %d, want %d", opts.Nodes, DefaultNodes)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.Width != 1200 || opts.Height != 1200 || opts.Margin != 100 {
		t.Errorf("frame = %vx%v margin %v, want 1200x1200 margin 100", opts.Width, opts.Height, opts.Margin)
	}
	if opts.PreferEmbedding == nil || !*opts.PreferEmbedding {
		t.Error("PreferEmbedding should default to true")
	}
	if !slices.Equal(opts.Formats, []string{FormatJSON}) {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown network", Options{Network: "lattice"}, errors.ErrCodeUnsupportedKind},
		{"unknown layout", Options{Layout: "kamada_kawai"}, errors.ErrCodeUnsupportedKind},
		{"negative nodes", Options{Nodes: -3}, errors.ErrCodeInvalidParameter},
		{"too many nodes", Options{Nodes: MaxNodes + 1}, errors.ErrCodeInvalidParameter},
		{"negative iterations", Options{Iterations: -1}, errors.ErrCodeInvalidParameter},
		{"too many iterations", Options{Iterations: layout.MaxIterations + 1}, errors.ErrCodeInvalidParameter},
		{"margin too wide", Options{Margin: 600}, errors.ErrCodeInvalidParameter},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestOptionsKeyOpts(t *testing.T) {
	a := Options{Network: "erdos_renyi", Nodes: 50, Workers: 1}
	b := Options{Network: "erdos_renyi", Nodes: 50, Workers: 8}
	for _, o := range []*Options{&a, &b} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}

	keyer := cache.NewDefaultKeyer()
	if keyer.GraphKey(a.GraphKeyOpts()) != keyer.GraphKey(b.GraphKeyOpts()) {
		t.Error("graph key should not depend on workers")
	}
	gk := keyer.GraphKey(a.GraphKeyOpts())
	if keyer.LayoutKey(gk, a.LayoutKeyOpts()) != keyer.LayoutKey(gk, b.LayoutKeyOpts()) {
		t.Error("layout key should not depend on workers")
	}

	b.Width = 800
	if keyer.LayoutKey(gk, a.LayoutKeyOpts()) == keyer.LayoutKey(gk, b.LayoutKeyOpts()) {
		t.Error("layout key should depend on the frame")
	}
}

func TestGenerateGraphResolvesParams(t *testing.T) {
	opts := Options{Network: "erdos_renyi", Nodes: 60, Seed: 9}
	g, params, err := GenerateGraph(rng.New(9), opts)
	if err != nil {
		t.Fatal(err)
	}
	if g.N() != 60 {
		t.Errorf("N() = %d, want 60", g.N())
	}
	if params.P == nil {
		t.Fatal("derived p missing from resolved params")
	}
	if *params.P < 0.02 || *params.P >= 0.08 {
		t.Errorf("derived p = %v, want [0.02, 0.08)", *params.P)
	}

	// Feeding the resolved params back reproduces the graph.
	again, _, err := GenerateGraph(rng.New(9), Options{Network: "erdos_renyi", Nodes: 60, Params: params})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(g.Edges(), again.Edges()) {
		t.Error("explicit resolved params should reproduce the graph")
	}
}

func TestNormalizePositionsStrict(t *testing.T) {
	raw := layout.Positions{{X: 0, Y: 0}, {X: 0, Y: 1}}

	_, _, err := NormalizePositions(raw, Options{Strict: true})
	if !errors.Is(err, errors.ErrCodeDegenerateLayout) {
		t.Fatalf("strict normalize error = %v, want DEGENERATE_LAYOUT", err)
	}

	pos, degenerate, err := NormalizePositions(raw, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !degenerate {
		t.Error("lenient normalize should report the collinear axis")
	}
	if pos[0].X != 600 || pos[1].X != 600 {
		t.Errorf("collinear axis not centred: %v", pos)
	}
}

func TestExecuteDeterministic(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)

	for _, network := range generate.Kinds() {
		for _, kind := range layout.Kinds() {
			opts := Options{Network: string(network), Nodes: 40, Seed: 7, Layout: string(kind), Iterations: 10}
			a, err := runner.Execute(ctx, opts)
			if err != nil {
				t.Fatalf("%s/%s: %v", network, kind, err)
			}
			b, err := runner.Execute(ctx, opts)
			if err != nil {
				t.Fatalf("%s/%s: %v", network, kind, err)
			}
			if !slices.Equal(a.Graph.Edges(), b.Graph.Edges()) {
				t.Errorf("%s/%s: edges differ between runs", network, kind)
			}
			if !slices.Equal(a.Positions, b.Positions) {
				t.Errorf("%s/%s: positions differ between runs", network, kind)
			}
			if a.RunID == b.RunID {
				t.Errorf("%s/%s: run ids should be unique", network, kind)
			}
		}
	}
}

func TestExecuteFillsResult(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		Network: "watts_strogatz",
		Nodes:   30,
		Layout:  "circular",
		Width:   400,
		Height:  300,
		Margin:  20,
		Formats: []string{FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.NodeCount != 30 || res.Stats.EdgeCount != res.Graph.EdgeCount() {
		t.Errorf("stats = %+v", res.Stats)
	}
	if len(res.Raw) != 30 || len(res.Positions) != 30 {
		t.Fatalf("got %d raw and %d final positions", len(res.Raw), len(res.Positions))
	}
	for i, p := range res.Positions {
		if p.X < 20 || p.X > 380 || p.Y < 20 || p.Y > 280 {
			t.Errorf("node %d at %v outside frame", i, p)
		}
	}
	if res.Params.K == 0 || res.Params.P == nil {
		t.Errorf("resolved params incomplete: %+v", res.Params)
	}

	doc, err := graph.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.RunID != res.RunID || doc.Layout != "circular" || doc.Network != "watts_strogatz" {
		t.Errorf("layout provenance = %q %q %q", doc.RunID, doc.Layout, doc.Network)
	}
	if len(doc.Nodes) != 30 || len(doc.Edges) != res.Graph.EdgeCount() {
		t.Errorf("layout has %d nodes and %d edges", len(doc.Nodes), len(doc.Edges))
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), `graph "watts_strogatz" {`) {
		t.Errorf("dot artifact = %.60s", res.Artifacts[FormatDOT])
	}
}

func TestExecuteUsesEmbedding(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{Network: "random_geometric", Nodes: 50})
	if err != nil {
		t.Fatal(err)
	}
	emb, ok := res.Graph.Embedding()
	if !ok {
		t.Fatal("random geometric graph has no embedding")
	}
	if !slices.Equal(res.Raw, layout.Positions(emb)) {
		t.Error("raw layout should be the embedding when it is preferred")
	}

	off := false
	res, err = runner.Execute(context.Background(), Options{Network: "random_geometric", Nodes: 50, PreferEmbedding: &off, Iterations: 5})
	if err != nil {
		t.Fatal(err)
	}
	if slices.Equal(res.Raw, layout.Positions(emb)) {
		t.Error("raw layout should be computed when the embedding is not preferred")
	}
}

func TestExecuteSingleNode(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	res, err := runner.Execute(context.Background(), Options{Network: "erdos_renyi", Nodes: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Degenerate {
		t.Error("single node should be reported as degenerate")
	}
	if res.Positions[0].X != 600 || res.Positions[0].Y != 600 {
		t.Errorf("single node at %v, want frame centre", res.Positions[0])
	}

	_, err = runner.Execute(context.Background(), Options{Network: "erdos_renyi", Nodes: 1, Strict: true})
	if !errors.Is(err, errors.ErrCodeDegenerateLayout) {
		t.Errorf("strict single node error = %v, want DEGENERATE_LAYOUT", err)
	}
}

func TestGenerateGraphEdgeBudget(t *testing.T) {
	opts := Options{Network: "erdos_renyi", Nodes: 3000, Params: generate.Params{P: generate.Float(1)}}
	_, _, err := GenerateGraph(rng.New(1), opts)
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Fatalf("err = %v, want INVALID_PARAMETER", err)
	}

	opts.Params.P = generate.Float(0.01)
	if _, _, err := GenerateGraph(rng.New(1), opts); err != nil {
		t.Fatalf("sparse graph rejected: %v", err)
	}
}

func TestExecuteStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(ctx, Options{Nodes: 400, Iterations: 400})
	if !errors.Is(err, errors.ErrCodeCanceled) {
		t.Fatalf("err = %v, want CANCELED", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v does not wrap context.Canceled", err)
	}
}

func TestPlaceStopsWhenCancelled(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{Network: "watts_strogatz", Nodes: 40}
	gen, err := runner.Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Place(ctx, gen, opts); !errors.Is(err, errors.ErrCodeCanceled) {
		t.Errorf("err = %v, want CANCELED", err)
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Network: "powerlaw_cluster", Nodes: 60, Seed: 3, Iterations: 20}
	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.GraphHit || first.CacheInfo.LayoutHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.GraphHit || !second.CacheInfo.LayoutHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !slices.Equal(first.Graph.Edges(), second.Graph.Edges()) {
		t.Error("cached graph differs")
	}
	if !slices.Equal(first.Positions, second.Positions) || !slices.Equal(first.Raw, second.Raw) {
		t.Error("cached positions differ")
	}
	if *first.Params.P != *second.Params.P || first.Params.M != second.Params.M {
		t.Errorf("cached params = %+v, want %+v", second.Params, first.Params)
	}

	refreshed := opts
	refreshed.Refresh = true
	third, err := runner.Execute(ctx, refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.GraphHit || third.CacheInfo.LayoutHit {
		t.Errorf("refresh should skip cache reads: %+v", third.CacheInfo)
	}
	if !slices.Equal(first.Positions, third.Positions) {
		t.Error("refreshed run differs from the first run")
	}
}

func TestExecuteGraphHitResumesStream(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cached := NewRunner(fc, nil, nil)
	uncached := NewRunner(nil, nil, nil)

	// Warm the graph entry with a layout that draws nothing.
	base := Options{Network: "erdos_renyi", Nodes: 80, Seed: 11}
	warm := base
	warm.Layout = "circular"
	if _, err := cached.Execute(ctx, warm); err != nil {
		t.Fatal(err)
	}

	// A random layout drawn after a graph hit must match an uncached run.
	rand := base
	rand.Layout = "random"
	got, err := cached.Execute(ctx, rand)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CacheInfo.GraphHit || got.CacheInfo.LayoutHit {
		t.Fatalf("cache info = %+v, want graph hit only", got.CacheInfo)
	}
	want, err := uncached.Execute(ctx, rand)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Raw, want.Raw) {
		t.Error("layout after a graph cache hit differs from an uncached run")
	}
}

func TestRenderFormats(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{Nodes: 12, Layout: "shell", Shells: 2})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := Render(context.Background(), res.Layout, Options{Formats: []string{FormatDOT}, Labels: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := artifacts[FormatJSON]; ok {
		t.Error("unrequested json artifact rendered")
	}
	if !strings.Contains(string(artifacts[FormatDOT]), `label="11"`) {
		t.Error("labelled dot output missing node label")
	}

	if testing.Short() {
		return
	}
	artifacts, err = Render(context.Background(), res.Layout, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("svg: %v", err)
	}
	if !strings.Contains(string(artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact is not SVG")
	}
}
