package scene

import "github.com/Faultbox/skydome/pkg/math"

// CullStats counts drawables seen by the last traversal.
type CullStats struct {
	Drawables int
	Culled    int
}

type plane struct {
	n math.Vec3
	d float32
}

// CullVisitor turns a scene graph into a render list for one camera.
// It tracks the eye so transforms that depend on the viewer can query it.
type CullVisitor struct {
	view     math.Mat4
	proj     math.Mat4
	eyeWorld math.Vec3
	frustum  [6]plane

	models []math.Mat4
	states []State
	noCull int

	list  *RenderList
	stats CullStats
}

// NewCullVisitor creates a cull traversal for a camera.
func NewCullVisitor(view, proj math.Mat4) *CullVisitor {
	cv := &CullVisitor{
		view:     view,
		proj:     proj,
		eyeWorld: view.Inverse().Translation(),
	}
	cv.frustum = extractFrustum(proj.Mul(view))
	return cv
}

// extractFrustum derives world-space clip planes from a view-projection
// matrix. Plane normals point inwards.
func extractFrustum(m math.Mat4) [6]plane {
	row := func(i int) math.Vec4 {
		return math.Vec4{m[i], m[4+i], m[8+i], m[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	combos := [6]math.Vec4{}
	for k := 0; k < 4; k++ {
		combos[0][k] = r3[k] + r0[k]
		combos[1][k] = r3[k] - r0[k]
		combos[2][k] = r3[k] + r1[k]
		combos[3][k] = r3[k] - r1[k]
		combos[4][k] = r3[k] + r2[k]
		combos[5][k] = r3[k] - r2[k]
	}
	var out [6]plane
	for i, c := range combos {
		n := math.Vec3{X: c[0], Y: c[1], Z: c[2]}
		l := n.Length()
		if l == 0 {
			continue
		}
		out[i] = plane{n: n.Scale(1 / l), d: c[3] / l}
	}
	return out
}

// View returns the camera view matrix.
func (cv *CullVisitor) View() math.Mat4 {
	return cv.view
}

// Projection returns the camera projection matrix.
func (cv *CullVisitor) Projection() math.Mat4 {
	return cv.proj
}

// EyeWorld returns the eye position in world space.
func (cv *CullVisitor) EyeWorld() math.Vec3 {
	return cv.eyeWorld
}

// EyeLocal implements EyePointProvider. The eye is expressed in the frame
// of the node being visited.
func (cv *CullVisitor) EyeLocal() (math.Vec3, bool) {
	return cv.top().Inverse().TransformVec3(cv.eyeWorld), true
}

// Stats returns counters from the last traversal.
func (cv *CullVisitor) Stats() CullStats {
	return cv.stats
}

// Traverse culls root and returns its drawables sorted by render bin.
func (cv *CullVisitor) Traverse(root Node) *RenderList {
	cv.models = append(cv.models[:0], math.Identity())
	cv.states = append(cv.states[:0], State{})
	cv.noCull = 0
	cv.stats = CullStats{}
	cv.list = &RenderList{}

	root.Accept(cv)

	cv.list.Sort()
	return cv.list
}

func (cv *CullVisitor) top() math.Mat4 {
	return cv.models[len(cv.models)-1]
}

func (cv *CullVisitor) enter(n Node) {
	cv.states = append(cv.states, cv.states[len(cv.states)-1].push(n.StateSet()))
	if !n.CullingActive() {
		cv.noCull++
	}
}

func (cv *CullVisitor) leave(n Node) {
	cv.states = cv.states[:len(cv.states)-1]
	if !n.CullingActive() {
		cv.noCull--
	}
}

// ApplyGroup implements Visitor.
func (cv *CullVisitor) ApplyGroup(g *Group) {
	cv.enter(g)
	for _, c := range g.Children() {
		c.Accept(cv)
	}
	cv.leave(g)
}

// ApplyTransform implements Visitor.
func (cv *CullVisitor) ApplyTransform(t Transform) {
	model := t.ComputeLocalToWorld(cv.top(), cv)
	cv.enter(t)
	cv.models = append(cv.models, model)
	for _, c := range t.Children() {
		c.Accept(cv)
	}
	cv.models = cv.models[:len(cv.models)-1]
	cv.leave(t)
}

// ApplyDrawable implements Visitor.
func (cv *CullVisitor) ApplyDrawable(d *Drawable) {
	cv.enter(d)
	defer cv.leave(d)

	cv.stats.Drawables++
	model := cv.top()
	if cv.noCull == 0 {
		center, radius := d.Mesh().Bound()
		if cv.outside(Sphere{Center: center, Radius: radius}.Transformed(model)) {
			cv.stats.Culled++
			return
		}
	}

	cv.list.Items = append(cv.list.Items, RenderItem{
		Drawable: d,
		Model:    model,
		State:    cv.states[len(cv.states)-1],
	})
}

func (cv *CullVisitor) outside(s Sphere) bool {
	for _, p := range cv.frustum {
		if p.n.Dot(s.Center)+p.d < -s.Radius {
			return true
		}
	}
	return false
}
