package layout_test

import (
	"fmt"

	"github.com/matzehuels/fsnav/pkg/layout"
)

func ExampleSpiral() {
	for _, p := range layout.Spiral(3, layout.Default()) {
		fmt.Printf("%.3f %.3f %.2f\n", p.X, p.Y, p.Z)
	}
	// Output:
	// 1.225 0.000 0.00
	// 1.776 1.558 -0.25
	// 0.456 3.470 -0.50
}
