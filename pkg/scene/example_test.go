package scene_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/fsnav/pkg/camera"
	"github.com/matzehuels/fsnav/pkg/geom"
	"github.com/matzehuels/fsnav/pkg/layout"
	"github.com/matzehuels/fsnav/pkg/scene"
)

func ExampleCompute() {
	nodes := scene.BuildNodes([]scene.Entry{
		{Path: "/home", Name: "home", Kind: scene.Directory},
	}, 0, layout.Default())

	pts := scene.Compute(nodes, camera.Camera{Dist: 5, FOV: 1}, geom.Size{W: 800, H: 600})
	for _, p := range pts {
		fmt.Printf("%s at (%.0f, %.0f)\n", p.Node.Name, p.X, p.Y)
	}
	// Output:
	// home at (579, 300)
}

func ExampleView_Handle() {
	fs := scene.ListerFunc(func(_ context.Context, dir string, _ int) ([]scene.Entry, error) {
		return []scene.Entry{{Path: dir + "/readme.md", Name: "readme.md"}}, nil
	})
	v := scene.NewView(context.Background(), fs, "/srv", scene.ViewOptions{Size: geom.Size{W: 800, H: 600}})

	p := v.Points[0]
	v, open := v.Handle(context.Background(), scene.Clicked{X: p.X, Y: p.Y})
	fmt.Println(v.Hint())
	fmt.Println(open.Path)
	// Output:
	// file: /srv/readme.md
	// /srv/readme.md
}
