package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/skydome/pkg/math"
)

const quadOBJ = `# unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
usemtl none
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuad(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("triangle count = %d, want 2", m.TriangleCount())
	}
	want := []uint32{0, 1, 2, 0, 2, 3}
	for i, idx := range m.Indices {
		if idx != want[i] {
			t.Fatalf("indices = %v, want %v", m.Indices, want)
		}
	}
	if m.TexCoords[2] != (math.Vec3{X: 1, Y: 1}) {
		t.Errorf("texcoord 2 = %v, want (1,1,0)", m.TexCoords[2])
	}
	for i, n := range m.Normals {
		if n != (math.Vec3{Z: 1}) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
	if got := len(m.VertexData()); got != 4*9 {
		t.Errorf("vertex data length = %d, want 36", got)
	}
}

func TestParseOBJFaceForms(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		vertices  int
		triangles int
	}{
		{"position only", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", 3, 1},
		{"position and normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n", 3, 1},
		{"position and texcoord", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0.5\nf 1/1 2/1 3/1\n", 3, 1},
		{"negative indices", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n", 3, 1},
		{"shared corners", "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3\nf 2 4 3\n", 4, 2},
		{"pentagon fan", "v 0 0 0\nv 1 0 0\nv 2 1 0\nv 1 2 0\nv 0 1 0\nf 1 2 3 4 5\n", 5, 3},
		{"comments and blanks", "# header\n\nv 0 0 0 # origin\nv 1 0 0\nv 0 1 0\ns off\nf 1 2 3\n", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseOBJ(strings.NewReader(tt.src))
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if m.VertexCount() != tt.vertices {
				t.Errorf("vertex count = %d, want %d", m.VertexCount(), tt.vertices)
			}
			if m.TriangleCount() != tt.triangles {
				t.Errorf("triangle count = %d, want %d", m.TriangleCount(), tt.triangles)
			}
		})
	}
}

func TestParseOBJComputesMissingNormals(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	for i, n := range m.Normals {
		if !n.ApproxEqual(math.Vec3{Z: 1}, 1e-6) {
			t.Errorf("normal %d = %v, want +Z", i, n)
		}
	}
}

func TestParseOBJMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad number", "v 0 zero 0\n"},
		{"short vertex", "v 0 0\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n"},
		{"two-vertex face", "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{"bad texcoord ref", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1 2/1 3/1\n"},
		{"no faces", "v 0 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tt.src)); !errors.Is(err, ErrMalformedOBJ) {
				t.Errorf("err = %v, want ErrMalformedOBJ", err)
			}
		})
	}
}

func TestOBJBound(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader("v -1 0 0\nv 3 0 0\nv 1 2 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	center, radius := m.Bound()
	if !center.ApproxEqual(math.Vec3{X: 1, Y: 1}, 1e-6) {
		t.Errorf("center = %v, want (1,1,0)", center)
	}
	// farthest corners are (-1,0,0) and (3,0,0) at sqrt(5)
	if d := radius - 2.2360680; d > 1e-5 || d < -1e-5 {
		t.Errorf("radius = %v, want sqrt(5)", radius)
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("triangle count = %d, want 2", m.TriangleCount())
	}
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "absent.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
