// Package network provides the undirected graph model produced by the
// netweave generators and consumed by the layout engine.
//
// # Overview
//
// A [Graph] holds N nodes with ids 0..N-1 and a set of undirected edges.
// It never contains self-loops or duplicate edges, and it is immutable once
// built. Generators assemble graphs with a [Builder], which keeps neighbor
// lists in insertion order so that neighborhood sampling stays reproducible,
// then freeze them with [Builder.Build].
//
//	b := network.NewBuilder(3)
//	b.AddEdge(0, 1)
//	b.AddEdge(1, 2)
//	g := b.Build("example")
//
// Graphs produced by the random-geometric generator additionally carry an
// embedding: one point in the unit square per node, available through
// [Graph.Embedding].
//
// # Analysis
//
// [Graph.Components], [Graph.IsConnected] and [Graph.Stats] mirror the graph
// into gonum and report connectivity, degree distribution and clustering.
//
// # Concurrency
//
// A built Graph is safe for concurrent reads. A Builder is not safe for
// concurrent use.
package network
