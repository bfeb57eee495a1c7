package main

import (
	_ "embed"

	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/internal/engine/shader"
	"github.com/Faultbox/skydome/pkg/math"
)

var (
	//go:embed shaders/ground.vert
	groundVertexShader string
	//go:embed shaders/ground.frag
	groundFragmentShader string
)

// groundPlane is a flat square on y=0 that gives the camera something to
// move against while the sky stays put.
type groundPlane struct {
	extent float32
}

func (g groundPlane) Bound() (math.Vec3, float32) {
	return math.Vec3{}, g.extent * 1.4142135
}

func (g groundPlane) VertexData() []float32 {
	e := g.extent
	return []float32{
		// position, normal, texcoord
		-e, 0, -e, 0, 1, 0, 0, 0, 0,
		e, 0, -e, 0, 1, 0, 1, 0, 0,
		e, 0, e, 0, 1, 0, 1, 1, 0,
		-e, 0, e, 0, 1, 0, 0, 1, 0,
	}
}

func (g groundPlane) IndexData() []uint32 {
	return []uint32{0, 2, 1, 0, 3, 2}
}

// newGround builds the ground drawable with its own program.
func newGround(extent, cell float32) (*scene.Drawable, error) {
	prog, err := shader.Compile("ground", groundVertexShader, groundFragmentShader)
	if err != nil {
		return nil, err
	}

	d := scene.NewDrawable(groundPlane{extent: extent})
	ss := d.GetOrCreateStateSet()
	ss.SetProgram(prog)
	prog.Release()
	ss.SetMode(scene.CullFace, scene.On)
	ss.SetUniform("uColor", math.Vec3{X: 0.33, Y: 0.36, Z: 0.30})
	ss.SetUniform("uCell", cell)
	return d, nil
}
