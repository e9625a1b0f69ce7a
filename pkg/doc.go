// Package pkg provides the core libraries for netweave network generation
// and layout.
//
// # Overview
//
// netweave builds random network topologies, places their nodes in the plane
// and maps the positions into a pixel frame for an external renderer. Every
// run is reproducible: one seeded random stream drives all stages. The pkg
// directory is organized into three areas:
//
//  1. Core - [rng], [network], [generate], [layout], [normalize]
//  2. Handoff - [graph] serialization and [render/nodelink] previews
//  3. Orchestration - [pipeline], [cache], [params], [config], [server]
//
// # Architecture
//
// The data flow through a run:
//
//	seed → [rng] stream
//	         ↓
//	    [generate] package (network topology, optional embedding)
//	         ↓
//	    [layout] package (raw 2D positions, same stream)
//	         ↓
//	    [normalize] package (pixel positions inside the frame)
//	         ↓
//	    [graph] Layout document → JSON / DOT / SVG
//
// # Quick Start
//
// Generate a small-world network and lay it out with the spring algorithm:
//
//	import (
//	    "github.com/matzehuels/netweave/pkg/generate"
//	    "github.com/matzehuels/netweave/pkg/layout"
//	    "github.com/matzehuels/netweave/pkg/normalize"
//	    "github.com/matzehuels/netweave/pkg/rng"
//	)
//
//	s := rng.New(42)
//	g, _ := generate.Generate(generate.KindWattsStrogatz, 100, s, generate.Params{})
//	raw, _ := layout.Compute(g, layout.KindSpring, s, layout.Hints{})
//	pos, _ := normalize.Normalize(raw, normalize.DefaultFrame())
//
// [pipeline.Runner] does the same with validation, caching and rendering.
//
// # Main Packages
//
// [rng] - Seeded pseudo-random stream shared by all stages. Its state can be
// snapshotted so cached stages resume the identical sequence.
//
// [network] - Immutable undirected simple graph with an optional planar
// embedding, plus structural statistics backed by gonum.
//
// [generate] - Barabási-Albert, Watts-Strogatz, random geometric,
// Erdős-Rényi and Holme-Kim power-law cluster generators. Missing parameters
// are derived from the node count and the stream.
//
// [layout] - Spring (Fruchterman-Reingold), circular, shell and random
// layouts.
//
// [normalize] - Affine mapping of raw positions into a width × height frame
// with a margin.
//
// [graph] - JSON formats for generated networks and for the layout document
// handed to renderers.
//
// [render/nodelink] - Graphviz DOT with pinned positions and SVG previews.
//
// [pipeline] - Options, validation and the cached generate → layout →
// normalize → render runner shared by the CLI and the HTTP server.
//
// [params] - YAML schemas of parameter distributions for sampling scenes.
//
// [cache] - File and Redis stage caches.
//
// [rng]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/rng
// [network]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/network
// [generate]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/generate
// [layout]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/layout
// [normalize]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/normalize
// [graph]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/cache
// [params]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/params
// [config]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/netweave/pkg/server
package pkg
