package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/skydome/pkg/math"
)

func TestOrbitCameraPosition(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX = 0
	c.RotationY = 0
	c.Distance = 10

	got := c.Position()
	want := math.Vec3{Z: 10}
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Position() = %v, want %v", got, want)
	}
	if c.Eye() != got {
		t.Errorf("Eye() = %v, want %v", c.Eye(), got)
	}

	c.SetCenter(math.Vec3{X: 1, Y: 2, Z: 3})
	got = c.Position()
	want = math.Vec3{X: 1, Y: 2, Z: 13}
	if !got.ApproxEqual(want, 1e-5) {
		t.Errorf("Position() with center = %v, want %v", got, want)
	}
}

func TestOrbitCameraViewMatrixMatchesEye(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(120, -40)

	eye := c.ViewMatrix().Inverse().Translation()
	if !eye.ApproxEqual(c.Eye(), 1e-3) {
		t.Errorf("view inverse translation = %v, want %v", eye, c.Eye())
	}
}

func TestOrbitCameraClamps(t *testing.T) {
	tests := []struct {
		name  string
		apply func(c *OrbitCamera)
		check func(c *OrbitCamera) bool
	}{
		{"pitch max", func(c *OrbitCamera) { c.HandleDrag(0, 1e6) }, func(c *OrbitCamera) bool { return c.RotationX == c.MaxPitch }},
		{"pitch min", func(c *OrbitCamera) { c.HandleDrag(0, -1e6) }, func(c *OrbitCamera) bool { return c.RotationX == c.MinPitch }},
		{"zoom in", func(c *OrbitCamera) {
			for i := 0; i < 200; i++ {
				c.HandleZoom(5)
			}
		}, func(c *OrbitCamera) bool { return c.Distance == c.MinDistance }},
		{"zoom out", func(c *OrbitCamera) {
			for i := 0; i < 200; i++ {
				c.HandleZoom(-5)
			}
		}, func(c *OrbitCamera) bool { return c.Distance == c.MaxDistance }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			tt.apply(c)
			if !tt.check(c) {
				t.Errorf("clamp failed: pitch=%v distance=%v", c.RotationX, c.Distance)
			}
		})
	}
}

func TestOrbitCameraMovement(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationY = 0
	c.Distance = 10

	c.HandleMovement(1, 0, 0)
	if c.Center.Z >= 0 || c.Center.X != 0 {
		t.Errorf("forward moved center to %v, want negative Z", c.Center)
	}

	c.SetCenter(math.Vec3{})
	c.HandleMovement(0, 0, 1)
	if c.Center.Y <= 0 {
		t.Errorf("up moved center to %v, want positive Y", c.Center)
	}
}

func TestOrbitCameraFitToSphere(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToSphere(math.Vec3{X: 4}, 5)

	if c.Center != (math.Vec3{X: 4}) {
		t.Errorf("Center = %v", c.Center)
	}
	want := float32(5 / gomath.Sin(30*gomath.Pi/180))
	if gomath.Abs(float64(c.Distance-want)) > 1e-3 {
		t.Errorf("Distance = %v, want %v", c.Distance, want)
	}
}
