// Package graph provides serialization types for networks and layouts.
//
// This package defines netweave's wire format, used for JSON files, API
// responses and cache entries.
//
// # Architecture
//
// The package sits at the serialization boundary:
//
//   - [Graph], [Layout]: serialization types (this package)
//   - network.Graph: in-memory network
//   - layout.Positions: raw or normalized coordinates
//
// Use [FromNetwork]/[ToNetwork] and [NewLayout] to convert between them.
//
// # Graph Serialization
//
// Node ids are the integers 0..num_nodes-1, so only the edge list is stored:
//
//	{
//	  "kind": "erdos_renyi",
//	  "num_nodes": 3,
//	  "edges": [{"source": 0, "target": 2}]
//	}
//
// Random geometric graphs also carry an "embedding" array of points.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("net.json")   // File → network
//	graph.WriteGraphFile(g, "out.json")       // network → File
//	data, _ := graph.MarshalGraph(g)          // network → []byte
//
// # Layout Serialization
//
// A [Layout] is the complete renderer handoff: pixel positions, the edge
// list, the frame, and the generator, layout, seed and parameters that
// produced it. Reading a layout validates that node ids are dense and edges
// reference listed nodes.
package graph
