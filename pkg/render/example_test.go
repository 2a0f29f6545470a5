package render_test

import (
	"fmt"

	"github.com/matzehuels/fsnav/pkg/render"
)

func ExampleFileColorIndex() {
	for _, name := range []string{"notes.md", "config.txt", "data.json"} {
		fmt.Println(name, render.FileColorIndex(name, len(render.DefaultPalette().Files)))
	}
	// Output:
	// notes.md 2
	// config.txt 0
	// data.json 2
}
