package graph_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/netweave/pkg/graph"
	"github.com/matzehuels/netweave/pkg/network"
)

func ExampleWriteGraph() {
	// Build a small path graph
	b := network.NewBuilder(3)
	b.AddEdge(0, 1)
	b.AddEdge(2, 1)
	g := b.Build("watts_strogatz")

	var buf bytes.Buffer
	if err := graph.WriteGraph(g, &buf); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(buf.String())
	// Output:
	// {
	//   "kind": "watts_strogatz",
	//   "num_nodes": 3,
	//   "edges": [
	//     {
	//       "source": 0,
	//       "target": 1
	//     },
	//     {
	//       "source": 1,
	//       "target": 2
	//     }
	//   ]
	// }
}

func ExampleReadGraph() {
	jsonData := `{
		"kind": "erdos_renyi",
		"num_nodes": 4,
		"edges": [
			{"source": 0, "target": 3},
			{"source": 3, "target": 1}
		]
	}`

	g, err := graph.ReadGraph(bytes.NewReader([]byte(jsonData)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("Nodes:", g.N())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Neighbors of 3:", g.Neighbors(3))
	// Output:
	// Nodes: 4
	// Edges: 2
	// Neighbors of 3: [0 1]
}

func ExampleReadGraphFile() {
	path := filepath.Join(os.TempDir(), "netweave-example-graph.json")
	jsonData := []byte(`{
		"kind": "random_geometric",
		"num_nodes": 2,
		"edges": [{"source": 0, "target": 1}],
		"embedding": [{"x": 0.25, "y": 0.5}, {"x": 0.3, "y": 0.45}]
	}`)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer os.Remove(path)

	g, err := graph.ReadGraphFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	emb, _ := g.Embedding()
	fmt.Println("Kind:", g.Kind())
	fmt.Println("First point:", emb[0].X, emb[0].Y)
	// Output:
	// Kind: random_geometric
	// First point: 0.25 0.5
}
