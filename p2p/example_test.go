package p2p_test

import (
	"context"
	"fmt"
	"math"

	"github.com/pointfield/sumkit/kernel"
	"github.com/pointfield/sumkit/p2p"
)

// ExampleApply computes the 2-D Laplace potential of a unit charge at
// the origin, observed at distance e — where log r is exactly 1, so
// the result is the bare scaling constant −1/(2π).
func ExampleApply() {
	lap, err := kernel.NewLaplace(2)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	ap, err := p2p.NewApply([]kernel.Kernel{lap})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	targets := [][]float64{{math.E, 0}}
	sources := [][]float64{{0, 0}}
	strengths := [][]complex128{{1}}

	results, err := ap.Evaluate(context.Background(), targets, sources, strengths, nil)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("potential = %.4f\n", real(results[0][0]))
	// Output:
	// potential = -0.1592
}

// ExampleBlockIndexSet shows the flattened layout of two interaction
// blocks of sizes 2×3 and 3×1.
func ExampleBlockIndexSet() {
	set, err := p2p.NewBlockIndexSet(
		[]int{0, 1, 2, 3, 4},
		[]int{0, 1, 2, 3},
		[]int{0, 2, 5},
		[]int{0, 3, 4},
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	rows, cols := set.LinearIndices()
	fmt.Println("ranges:", set.BlockRanges())
	fmt.Println("rows:  ", rows)
	fmt.Println("cols:  ", cols)
	// Output:
	// ranges: [0 6 9]
	// rows:   [0 0 0 1 1 1 2 3 4]
	// cols:   [0 1 2 0 1 2 3 3 3]
}
