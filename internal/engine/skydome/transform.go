package skydome

import (
	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/pkg/math"
)

// SkyTransform recenters its children on the viewer every traversal. The
// translation follows the eye point reported by the traversal; rotation is
// never touched, so turning the camera reveals different parts of the sky
// while moving it changes nothing.
//
// S1 scales the eye offset applied going local to world and S2 the one
// removed going world to local. Both default to 1, which pins the subtree
// to the eye. Other values make a companion mesh drift relative to the
// viewer.
type SkyTransform struct {
	scene.Group

	S1 float64
	S2 float64
}

// NewSkyTransform returns an eye-following transform with unit scale.
// Culling is disabled because the subtree's world position changes with
// every traversal.
func NewSkyTransform() *SkyTransform {
	t := &SkyTransform{S1: 1, S2: 1}
	t.SetCullingActive(false)
	return t
}

// Accept implements scene.Node.
func (t *SkyTransform) Accept(v scene.Visitor) {
	v.ApplyTransform(t)
}

// ComputeLocalToWorld pre-multiplies a translation of eye*S1 into m.
// Traversals without an eye point get m back unchanged.
func (t *SkyTransform) ComputeLocalToWorld(m math.Mat4, v scene.Visitor) math.Mat4 {
	eye, ok := scene.EyeLocal(v)
	if !ok {
		return m
	}
	return m.PreMulTranslate(eye.Scale(float32(t.S1)))
}

// ComputeWorldToLocal post-multiplies a translation of -eye*S2 into m.
// Traversals without an eye point get m back unchanged.
func (t *SkyTransform) ComputeWorldToLocal(m math.Mat4, v scene.Visitor) math.Mat4 {
	eye, ok := scene.EyeLocal(v)
	if !ok {
		return m
	}
	return m.PostMulTranslate(eye.Scale(-float32(t.S2)))
}
