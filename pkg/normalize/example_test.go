package normalize_test

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/netweave/pkg/layout"
	"github.com/matzehuels/netweave/pkg/normalize"
)

func ExampleNormalize() {
	raw := layout.Positions{{X: 0, Y: 0}, {X: 1, Y: 2}}
	pos, err := normalize.Normalize(raw, normalize.Frame{Width: 200, Height: 100, Margin: 10})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, p := range pos {
		fmt.Printf("(%.0f, %.0f)\n", p.X, p.Y)
	}
	// Output:
	// (10, 10)
	// (190, 90)
}

func ExampleNormalizeLenient() {
	// Every node on one vertical line: the x axis is centred.
	raw := layout.Positions{r2.Vec{X: 3, Y: 0}, r2.Vec{X: 3, Y: 1}}
	pos, err := normalize.NormalizeLenient(raw, normalize.Frame{Width: 200, Height: 100, Margin: 10})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, p := range pos {
		fmt.Printf("(%.0f, %.0f)\n", p.X, p.Y)
	}
	// Output:
	// (100, 10)
	// (100, 90)
}
