// Package formats provides parsers for mesh file formats.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/skydome/pkg/math"
)

// ErrMalformedOBJ is returned for OBJ data that cannot be parsed.
var ErrMalformedOBJ = errors.New("malformed OBJ")

// OBJMesh is an indexed triangle mesh read from Wavefront OBJ. Vertices
// are unique (position, texcoord, normal) combinations.
type OBJMesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec3
	Indices   []uint32
}

// objRef is one corner of a face: 0-based indices, -1 when absent.
type objRef struct {
	v, t, n int
}

type objParser struct {
	line int

	positions []math.Vec3
	texCoords []math.Vec3
	normals   []math.Vec3

	mesh      *OBJMesh
	vertexOf  map[objRef]uint32
	hasNormal []bool
}

// LoadOBJ reads and parses an OBJ file.
func LoadOBJ(path string) (*OBJMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseOBJ parses v, vt, vn and f statements. Polygons are fan
// triangulated. Other statements (groups, materials, smoothing) are
// ignored. Vertices without a normal get the average of their face normals.
func ParseOBJ(r io.Reader) (*OBJMesh, error) {
	p := &objParser{
		mesh:     &OBJMesh{},
		vertexOf: make(map[objRef]uint32),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v math.Vec3
			v, err = p.floats(fields[1:], 3, 3)
			p.positions = append(p.positions, v)
		case "vt":
			var v math.Vec3
			v, err = p.floats(fields[1:], 1, 3)
			p.texCoords = append(p.texCoords, v)
		case "vn":
			var v math.Vec3
			v, err = p.floats(fields[1:], 3, 3)
			p.normals = append(p.normals, v)
		case "f":
			err = p.face(fields[1:])
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.mesh.Indices) == 0 {
		return nil, fmt.Errorf("%w: no faces", ErrMalformedOBJ)
	}

	p.fillNormals()
	return p.mesh, nil
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformedOBJ, p.line, fmt.Sprintf(format, args...))
}

// floats parses between least and want numbers; extra components are ignored.
func (p *objParser) floats(fields []string, least, want int) (math.Vec3, error) {
	if len(fields) < least {
		return math.Vec3{}, p.errorf("expected %d values, got %d", least, len(fields))
	}
	var out [3]float32
	for i := 0; i < want && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, p.errorf("bad number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// index resolves a 1-based or negative relative OBJ index against n elements.
func (p *objParser) index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, p.errorf("index %d out of range (%d elements)", i, n)
}

func (p *objParser) ref(s string) (objRef, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return objRef{}, p.errorf("bad face vertex %q", s)
	}

	r := objRef{v: -1, t: -1, n: -1}
	var err error
	if r.v, err = p.index(parts[0], len(p.positions)); err != nil {
		return r, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if r.t, err = p.index(parts[1], len(p.texCoords)); err != nil {
			return r, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if r.n, err = p.index(parts[2], len(p.normals)); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (p *objParser) vertex(r objRef) uint32 {
	if idx, ok := p.vertexOf[r]; ok {
		return idx
	}

	m := p.mesh
	idx := uint32(len(m.Positions))
	m.Positions = append(m.Positions, p.positions[r.v])

	var tc math.Vec3
	if r.t >= 0 {
		tc = p.texCoords[r.t]
	}
	m.TexCoords = append(m.TexCoords, tc)

	var n math.Vec3
	if r.n >= 0 {
		n = p.normals[r.n].Normalize()
	}
	m.Normals = append(m.Normals, n)
	p.hasNormal = append(p.hasNormal, r.n >= 0)

	p.vertexOf[r] = idx
	return idx
}

func (p *objParser) face(fields []string) error {
	if len(fields) < 3 {
		return p.errorf("face with %d vertices", len(fields))
	}

	corners := make([]uint32, len(fields))
	for i, f := range fields {
		r, err := p.ref(f)
		if err != nil {
			return err
		}
		corners[i] = p.vertex(r)
	}

	for i := 1; i+1 < len(corners); i++ {
		p.mesh.Indices = append(p.mesh.Indices, corners[0], corners[i], corners[i+1])
	}
	return nil
}

// fillNormals accumulates area-weighted face normals into vertices that
// came without one.
func (p *objParser) fillNormals() {
	m := p.mesh
	missing := false
	for _, has := range p.hasNormal {
		if !has {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		n := m.Positions[b].Sub(m.Positions[a]).Cross(m.Positions[c].Sub(m.Positions[a]))
		for _, v := range [3]uint32{a, b, c} {
			if !p.hasNormal[v] {
				m.Normals[v] = m.Normals[v].Add(n)
			}
		}
	}
	for v, has := range p.hasNormal {
		if !has {
			m.Normals[v] = m.Normals[v].Normalize()
		}
	}
}

// VertexCount returns the number of unique vertices.
func (m *OBJMesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *OBJMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bound returns a sphere around the box enclosing every vertex.
func (m *OBJMesh) Bound() (math.Vec3, float32) {
	if len(m.Positions) == 0 {
		return math.Vec3{}, 0
	}
	lo, hi := m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	center := lo.Add(hi).Scale(0.5)
	var radius float32
	for _, p := range m.Positions {
		radius = max(radius, p.Distance(center))
	}
	return center, radius
}

// VertexData returns position, normal and texcoord interleaved, 9 floats
// per vertex.
func (m *OBJMesh) VertexData() []float32 {
	out := make([]float32, 0, len(m.Positions)*9)
	for i, p := range m.Positions {
		n, t := m.Normals[i], m.TexCoords[i]
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z, t.X, t.Y, t.Z)
	}
	return out
}

// IndexData returns the triangle indices.
func (m *OBJMesh) IndexData() []uint32 {
	return m.Indices
}
