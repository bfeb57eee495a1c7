package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	// Translate by (10, 20, 30)
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	p := [3]float32{1, 0, 0}           // Point on X axis
	result := m.TransformPoint(p)

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result[0]) > 0.001 || abs(result[1]) > 0.001 || abs(result[2]+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	// Should be a valid projection matrix (not identity)
	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
	// The eye maps to the view-space origin.
	if p := m.TransformVec3(eye); !p.ApproxEqual(Vec3{}, 1e-5) {
		t.Errorf("LookAt eye in view space: got %v, want origin", p)
	}
}

func TestMulMatchesMathgl(t *testing.T) {
	a := Translate(1, 2, 3).Mul(RotateY(0.7))
	b := Scale(2, 3, 4).Mul(RotateX(-0.3))

	ga := mgl32.Mat4(a)
	gb := mgl32.Mat4(b)
	want := Mat4(ga.Mul4(gb))

	if got := a.Mul(b); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Mul: got %v, want %v", got, want)
	}
}

func TestPerspectiveMatchesMathgl(t *testing.T) {
	fov := float32(math.Pi / 3)
	got := Perspective(fov, 16.0/9.0, 0.1, 500)
	want := Mat4(mgl32.Perspective(fov, 16.0/9.0, 0.1, 500))
	if !got.ApproxEqual(want, 1e-4) {
		t.Errorf("Perspective: got %v, want %v", got, want)
	}
}

func TestPreMulTranslate(t *testing.T) {
	m := RotateY(0.4).Mul(Scale(2, 2, 2))
	v := Vec3{3, -1, 5}

	want := Mat4(mgl32.Mat4(m).Mul4(mgl32.Translate3D(v.X, v.Y, v.Z)))
	if got := m.PreMulTranslate(v); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("PreMulTranslate: got %v, want %v", got, want)
	}
}

func TestPostMulTranslate(t *testing.T) {
	m := RotateX(1.1).Mul(Translate(4, 0, -2))
	v := Vec3{-7, 2, 0.5}

	want := Mat4(mgl32.Translate3D(v.X, v.Y, v.Z).Mul4(mgl32.Mat4(m)))
	if got := m.PostMulTranslate(v); !got.ApproxEqual(want, 1e-5) {
		t.Errorf("PostMulTranslate: got %v, want %v", got, want)
	}
}

func TestPreMulTranslateOnIdentity(t *testing.T) {
	got := Identity().PreMulTranslate(Vec3{1, 2, 3})
	if got != Translate(1, 2, 3) {
		t.Errorf("Identity().PreMulTranslate: got %v", got)
	}
	if tr := got.Translation(); tr != (Vec3{1, 2, 3}) {
		t.Errorf("Translation: got %v, want (1, 2, 3)", tr)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(3, 4, 5).Mul(RotateY(0.9)).Mul(Scale(2, 1, 0.5))
	want := Mat4(mgl32.Mat4(m).Inv())

	inv := m.Inverse()
	if !inv.ApproxEqual(want, 1e-4) {
		t.Errorf("Inverse: got %v, want %v", inv, want)
	}
	if !m.Mul(inv).ApproxEqual(Identity(), 1e-5) {
		t.Errorf("M * M^-1 should be identity, got %v", m.Mul(inv))
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular Inverse should return identity, got %v", got)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
