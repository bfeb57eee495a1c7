package dome

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/skydome/pkg/math"
)

func TestBuildDefaultSky(t *testing.T) {
	g, err := Build(Params{Radius: 1.9, LongitudeSteps: 24, LatitudeSteps: 24})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// 23 rings of 24 plus two poles
	if got, want := g.VertexCount(), 23*24+2; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	// 2*24*24 minus the 2*24 triangles collapsed into the pole fans
	if got, want := g.TriangleCount(), 2*24*24-2*24; got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
}

func TestBuildHemisphereCounts(t *testing.T) {
	g, err := Build(Params{Radius: 10, LongitudeSteps: 16, LatitudeSteps: 8, Hemisphere: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got, want := g.VertexCount(), 8*16+1; got != want {
		t.Errorf("vertex count = %d, want %d", got, want)
	}
	if got, want := g.TriangleCount(), 16*(2*8-1); got != want {
		t.Errorf("triangle count = %d, want %d", got, want)
	}
	for i, v := range g.positions {
		if v.Y < -1e-5 {
			t.Fatalf("vertex %d below horizon: %v", i, v)
		}
	}
}

func TestBuildGeometryProperties(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"minimal sphere", Params{Radius: 1, LongitudeSteps: 3, LatitudeSteps: 2}},
		{"minimal hemisphere", Params{Radius: 1, LongitudeSteps: 3, LatitudeSteps: 1, Hemisphere: true}},
		{"default sky", DefaultParams()},
		{"large sphere", Params{Radius: 5000, LongitudeSteps: 64, LatitudeSteps: 31}},
		{"odd hemisphere", Params{Radius: 0.25, LongitudeSteps: 7, LatitudeSteps: 5, Hemisphere: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.p)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			if len(g.positions) != len(g.normals) || len(g.positions) != len(g.texCoords) {
				t.Fatalf("length mismatch: %d vertices, %d normals, %d texcoords",
					len(g.positions), len(g.normals), len(g.texCoords))
			}
			if len(g.indices)%3 != 0 {
				t.Fatalf("index count %d is not a multiple of 3", len(g.indices))
			}
			for i, idx := range g.indices {
				if int(idx) >= len(g.positions) {
					t.Fatalf("index %d = %d out of range (%d vertices)", i, idx, len(g.positions))
				}
			}

			eps := tt.p.Radius * 1e-5
			for i, v := range g.positions {
				if d := v.Length() - tt.p.Radius; d > eps || d < -eps {
					t.Errorf("vertex %d norm = %v, want %v", i, v.Length(), tt.p.Radius)
				}
				n := g.normals[i]
				if l := n.Length(); l < 0.9999 || l > 1.0001 {
					t.Errorf("normal %d length = %v, want 1", i, l)
				}
				if g.texCoords[i] != n {
					t.Errorf("texcoord %d = %v, want direction %v", i, g.texCoords[i], n)
				}
			}
		})
	}
}

func TestWindingFacesCenter(t *testing.T) {
	for _, hemi := range []bool{false, true} {
		g, err := Build(Params{Radius: 3, LongitudeSteps: 12, LatitudeSteps: 6, Hemisphere: hemi})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for tri := 0; tri < g.TriangleCount(); tri++ {
			a := g.positions[g.indices[tri*3]]
			b := g.positions[g.indices[tri*3+1]]
			c := g.positions[g.indices[tri*3+2]]
			n := b.Sub(a).Cross(c.Sub(a))
			if n.Length() == 0 {
				t.Fatalf("triangle %d is degenerate", tri)
			}
			if n.Dot(a.Add(b).Add(c)) >= 0 {
				t.Errorf("hemisphere=%v: triangle %d faces away from the center", hemi, tri)
			}
		}
	}
}

func TestSphereIsClosed(t *testing.T) {
	g, err := Build(Params{Radius: 1, LongitudeSteps: 10, LatitudeSteps: 7})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Every directed edge must appear once, and its reverse once.
	type edge struct{ from, to uint32 }
	edges := make(map[edge]int)
	for tri := 0; tri < g.TriangleCount(); tri++ {
		i := g.indices[tri*3 : tri*3+3]
		edges[edge{i[0], i[1]}]++
		edges[edge{i[1], i[2]}]++
		edges[edge{i[2], i[0]}]++
	}
	for e, count := range edges {
		if count != 1 {
			t.Errorf("edge %v used %d times", e, count)
		}
		if edges[edge{e.to, e.from}] != 1 {
			t.Errorf("edge %v has no opposite", e)
		}
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero radius", Params{Radius: 0, LongitudeSteps: 24, LatitudeSteps: 24}},
		{"negative radius", Params{Radius: -1, LongitudeSteps: 24, LatitudeSteps: 24}},
		{"NaN radius", Params{Radius: float32(gomath.NaN()), LongitudeSteps: 24, LatitudeSteps: 24}},
		{"infinite radius", Params{Radius: float32(gomath.Inf(1)), LongitudeSteps: 24, LatitudeSteps: 24}},
		{"two longitude steps", Params{Radius: 1, LongitudeSteps: 2, LatitudeSteps: 24}},
		{"zero latitude steps", Params{Radius: 1, LongitudeSteps: 24, LatitudeSteps: 0}},
		{"zero latitude steps hemisphere", Params{Radius: 1, LongitudeSteps: 24, LatitudeSteps: 0, Hemisphere: true}},
		{"single band sphere", Params{Radius: 1, LongitudeSteps: 24, LatitudeSteps: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.p)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if g != nil {
				t.Error("expected no geometry on failure")
			}
		})
	}
}

func TestVertexData(t *testing.T) {
	g, err := Build(Params{Radius: 2, LongitudeSteps: 4, LatitudeSteps: 2})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	data := g.VertexData()
	if len(data) != g.VertexCount()*FloatsPerVertex {
		t.Fatalf("vertex data length = %d, want %d", len(data), g.VertexCount()*FloatsPerVertex)
	}
	// North pole: position (0, 2, 0), normal and texcoord (0, 1, 0)
	want := []float32{0, 2, 0, 0, 1, 0, 0, 1, 0}
	for i, w := range want {
		if data[i] != w {
			t.Errorf("data[%d] = %v, want %v", i, data[i], w)
		}
	}

	center, radius := g.Bound()
	if center != (math.Vec3{}) || radius != 2 {
		t.Errorf("Bound() = %v, %v; want origin, 2", center, radius)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	g, err := Build(Params{Radius: 1, LongitudeSteps: 6, LatitudeSteps: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	indices := g.IndexData()
	positions := g.Positions()
	normals := g.Normals()
	texCoords := g.TexCoords()

	indices[0] = 99
	positions[0] = math.Vec3{X: 42}
	normals[0] = math.Vec3{}
	texCoords[0] = math.Vec3{}

	if g.IndexData()[0] == 99 {
		t.Error("IndexData exposes the internal index slice")
	}
	if g.Positions()[0] != (math.Vec3{Y: 1}) {
		t.Errorf("position 0 = %v after editing a copy, want north pole", g.Positions()[0])
	}
	if g.Normals()[0] != (math.Vec3{Y: 1}) || g.TexCoords()[0] != (math.Vec3{Y: 1}) {
		t.Error("normal or texcoord changed through a returned copy")
	}
}
