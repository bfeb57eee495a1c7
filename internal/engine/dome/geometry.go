// Package dome builds the sphere geometry the sky is painted on.
package dome

import (
	"errors"
	"fmt"
	gomath "math"
	"slices"

	"github.com/Faultbox/skydome/pkg/math"
)

// ErrInvalidParameter is returned by Build when the mesh parameters are out of range.
var ErrInvalidParameter = errors.New("dome: invalid parameter")

// Minimum subdivision counts.
const (
	MinLongitudeSteps = 3
	MinLatitudeSteps  = 1
	// MinSphereLatitudeSteps applies to full spheres, which need at least
	// one ring between the two poles.
	MinSphereLatitudeSteps = 2
)

// FloatsPerVertex is the interleaved layout size: position, normal, texcoord (3 each).
const FloatsPerVertex = 9

// Params describes the dome to build.
type Params struct {
	Radius         float32
	LongitudeSteps int // Divisions around each ring
	// LatitudeSteps counts bands from pole to pole, or horizon to pole for
	// a hemisphere. A hemisphere needs at least MinLatitudeSteps; a full
	// sphere needs MinSphereLatitudeSteps, since a single band would put
	// both pole fans on the same points and leave no area.
	LatitudeSteps int
	Hemisphere    bool // Upper half only, open at the horizon
}

// DefaultParams matches the sky used by the viewer.
func DefaultParams() Params {
	return Params{
		Radius:         1.9,
		LongitudeSteps: 24,
		LatitudeSteps:  24,
	}
}

// Validate checks the parameters without building anything.
func (p Params) Validate() error {
	r := float64(p.Radius)
	if !(r > 0) || gomath.IsInf(r, 0) {
		return fmt.Errorf("%w: radius %v must be positive and finite", ErrInvalidParameter, p.Radius)
	}
	if p.LongitudeSteps < MinLongitudeSteps {
		return fmt.Errorf("%w: longitude steps %d < %d", ErrInvalidParameter, p.LongitudeSteps, MinLongitudeSteps)
	}
	minLat := MinSphereLatitudeSteps
	if p.Hemisphere {
		minLat = MinLatitudeSteps
	}
	if p.LatitudeSteps < minLat {
		return fmt.Errorf("%w: latitude steps %d < %d", ErrInvalidParameter, p.LatitudeSteps, minLat)
	}
	return nil
}

// Geometry is an indexed triangle mesh on a sphere around the origin.
// Positions, normals and texture coordinates have the same length. The
// texture coordinate is the unit direction used to sample a cubemap.
//
// Every triangle is counter-clockwise when seen from the center, so the
// interior is the front face. Geometry is immutable after Build: every
// accessor returns a copy.
type Geometry struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec3
	indices   []uint32

	radius float32
}

// Build generates the dome mesh on a regular latitude/longitude grid.
// Poles are single vertices joined to their neighbouring ring by triangle fans.
func Build(p Params) (*Geometry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	long := p.LongitudeSteps
	span := gomath.Pi
	rings := p.LatitudeSteps - 1
	if p.Hemisphere {
		span = gomath.Pi / 2
		rings = p.LatitudeSteps
	}
	step := span / float64(p.LatitudeSteps)
	bottomPole := !p.Hemisphere

	vertexCount := rings*long + 1
	triangleCount := long + 2*long*(rings-1)
	if bottomPole {
		vertexCount++
		triangleCount += long
	}

	g := &Geometry{
		positions: make([]math.Vec3, 0, vertexCount),
		normals:   make([]math.Vec3, 0, vertexCount),
		texCoords: make([]math.Vec3, 0, vertexCount),
		indices:   make([]uint32, 0, triangleCount*3),
		radius:    p.Radius,
	}

	// North pole
	g.addVertex(math.Vec3{X: 0, Y: 1, Z: 0})

	for i := 1; i <= rings; i++ {
		lat := gomath.Pi/2 - float64(i)*step
		cosLat, sinLat := gomath.Cos(lat), gomath.Sin(lat)
		for j := 0; j < long; j++ {
			lon := 2 * gomath.Pi * float64(j) / float64(long)
			g.addVertex(math.Vec3{
				X: float32(cosLat * gomath.Cos(lon)),
				Y: float32(sinLat),
				Z: float32(cosLat * gomath.Sin(lon)),
			})
		}
	}

	if bottomPole {
		g.addVertex(math.Vec3{X: 0, Y: -1, Z: 0})
	}

	ring := func(r, j int) uint32 {
		return uint32(1 + (r-1)*long + j%long)
	}

	// Fan around the north pole
	for j := 0; j < long; j++ {
		g.addTriangle(0, ring(1, j), ring(1, j+1))
	}

	// Quad strips between rings
	for r := 1; r < rings; r++ {
		for j := 0; j < long; j++ {
			a, b := ring(r, j), ring(r, j+1)
			c, d := ring(r+1, j), ring(r+1, j+1)
			g.addTriangle(a, c, b)
			g.addTriangle(b, c, d)
		}
	}

	// Fan around the south pole
	if bottomPole {
		south := uint32(len(g.positions) - 1)
		for j := 0; j < long; j++ {
			g.addTriangle(south, ring(rings, j+1), ring(rings, j))
		}
	}

	return g, nil
}

func (g *Geometry) addVertex(dir math.Vec3) {
	g.positions = append(g.positions, dir.Scale(g.radius))
	g.normals = append(g.normals, dir)
	g.texCoords = append(g.texCoords, dir)
}

// addTriangle appends a triangle wound counter-clockwise as seen from the center.
func (g *Geometry) addTriangle(a, b, c uint32) {
	pa, pb, pc := g.positions[a], g.positions[b], g.positions[c]
	n := pb.Sub(pa).Cross(pc.Sub(pa))
	if n.Dot(pa.Add(pb).Add(pc)) > 0 {
		b, c = c, b
	}
	g.indices = append(g.indices, a, b, c)
}

// Radius returns the sphere radius.
func (g *Geometry) Radius() float32 {
	return g.radius
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.positions)
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.indices) / 3
}

// Bound returns the bounding sphere.
func (g *Geometry) Bound() (math.Vec3, float32) {
	return math.Vec3{}, g.radius
}

// VertexData returns positions, normals and texcoords interleaved,
// FloatsPerVertex floats per vertex.
func (g *Geometry) VertexData() []float32 {
	data := make([]float32, 0, len(g.positions)*FloatsPerVertex)
	for i, v := range g.positions {
		n, t := g.normals[i], g.texCoords[i]
		data = append(data,
			v.X, v.Y, v.Z,
			n.X, n.Y, n.Z,
			t.X, t.Y, t.Z,
		)
	}
	return data
}

// IndexData returns a copy of the triangle index list.
func (g *Geometry) IndexData() []uint32 {
	return slices.Clone(g.indices)
}

// Positions returns a copy of the vertex positions.
func (g *Geometry) Positions() []math.Vec3 {
	return slices.Clone(g.positions)
}

// Normals returns a copy of the vertex normals.
func (g *Geometry) Normals() []math.Vec3 {
	return slices.Clone(g.normals)
}

// TexCoords returns a copy of the cubemap direction per vertex.
func (g *Geometry) TexCoords() []math.Vec3 {
	return slices.Clone(g.texCoords)
}
