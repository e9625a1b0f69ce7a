package generate_test

import (
	"fmt"

	"github.com/matzehuels/netweave/pkg/generate"
	"github.com/matzehuels/netweave/pkg/rng"
)

func ExampleGenerate() {
	s := rng.New(42)
	g, err := generate.Generate(generate.KindBarabasiAlbert, 10, s, generate.Params{M: 2})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(g.Kind(), g.N(), g.EdgeCount())
	// Output: barabasi_albert 10 16
}

func ExampleResolve() {
	// Integer parameters are derived from the node count alone.
	p, err := generate.Resolve(generate.KindBarabasiAlbert, 100, rng.New(1), generate.Params{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("m =", p.M)
	// Output: m = 5
}

func ExampleErdosRenyi() {
	g, err := generate.ErdosRenyi(5, 1, rng.New(7))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(g.EdgeCount())
	// Output: 10
}
