package scene

import "github.com/Faultbox/skydome/pkg/math"

// Visitor walks the scene graph. Each Apply method is responsible for
// descending into children.
type Visitor interface {
	ApplyGroup(g *Group)
	ApplyTransform(t Transform)
	ApplyDrawable(d *Drawable)
}

// EyePointProvider is implemented by traversals that track a viewer.
// EyeLocal returns the eye position in the coordinate frame of the node
// currently being visited; ok is false when no viewer applies.
type EyePointProvider interface {
	EyeLocal() (eye math.Vec3, ok bool)
}

// EyeLocal asks a visitor for the eye point. Traversals without a camera
// (bounds computation, picking) report ok = false.
func EyeLocal(v Visitor) (math.Vec3, bool) {
	if p, ok := v.(EyePointProvider); ok {
		return p.EyeLocal()
	}
	return math.Vec3{}, false
}

// Sphere is a bounding sphere. A negative radius marks an empty bound.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// EmptySphere returns a bound that contains nothing.
func EmptySphere() Sphere {
	return Sphere{Radius: -1}
}

// Valid reports whether the sphere contains anything.
func (s Sphere) Valid() bool {
	return s.Radius >= 0
}

// Expand returns the smallest sphere containing s and o.
func (s Sphere) Expand(o Sphere) Sphere {
	if !o.Valid() {
		return s
	}
	if !s.Valid() {
		return o
	}
	d := o.Center.Sub(s.Center)
	dist := d.Length()
	if dist+o.Radius <= s.Radius {
		return s
	}
	if dist+s.Radius <= o.Radius {
		return o
	}
	r := (dist + s.Radius + o.Radius) / 2
	center := s.Center.Add(d.Scale((r - s.Radius) / dist))
	return Sphere{Center: center, Radius: r}
}

// Transformed returns the sphere under m, scaling the radius by the
// largest axis scale of m.
func (s Sphere) Transformed(m math.Mat4) Sphere {
	if !s.Valid() {
		return s
	}
	sx := math.Vec3{X: m[0], Y: m[1], Z: m[2]}.Length()
	sy := math.Vec3{X: m[4], Y: m[5], Z: m[6]}.Length()
	sz := math.Vec3{X: m[8], Y: m[9], Z: m[10]}.Length()
	return Sphere{
		Center: m.TransformVec3(s.Center),
		Radius: s.Radius * max(sx, sy, sz),
	}
}

// BoundsVisitor computes the world bounding sphere of a subtree. It has
// no viewer, so eye-following transforms leave their matrix unchanged.
type BoundsVisitor struct {
	models []math.Mat4
	bound  Sphere
}

// ComputeBound returns the bounding sphere of root in root's parent frame.
func ComputeBound(root Node) Sphere {
	bv := &BoundsVisitor{
		models: []math.Mat4{math.Identity()},
		bound:  EmptySphere(),
	}
	root.Accept(bv)
	return bv.bound
}

func (bv *BoundsVisitor) top() math.Mat4 {
	return bv.models[len(bv.models)-1]
}

// ApplyGroup implements Visitor.
func (bv *BoundsVisitor) ApplyGroup(g *Group) {
	for _, c := range g.Children() {
		c.Accept(bv)
	}
}

// ApplyTransform implements Visitor.
func (bv *BoundsVisitor) ApplyTransform(t Transform) {
	bv.models = append(bv.models, t.ComputeLocalToWorld(bv.top(), bv))
	for _, c := range t.Children() {
		c.Accept(bv)
	}
	bv.models = bv.models[:len(bv.models)-1]
}

// ApplyDrawable implements Visitor.
func (bv *BoundsVisitor) ApplyDrawable(d *Drawable) {
	center, radius := d.Mesh().Bound()
	bv.bound = bv.bound.Expand(Sphere{Center: center, Radius: radius}.Transformed(bv.top()))
}
