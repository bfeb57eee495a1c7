package scene

import "github.com/Faultbox/skydome/pkg/math"

// Transform is a group whose children live in their own coordinate frame.
// Both methods receive the matrix accumulated so far and the traversal
// asking, and return the matrix for the children.
type Transform interface {
	Node
	Children() []Node
	ComputeLocalToWorld(m math.Mat4, v Visitor) math.Mat4
	ComputeWorldToLocal(m math.Mat4, v Visitor) math.Mat4
}

// MatrixTransform applies a fixed matrix to its children.
type MatrixTransform struct {
	Group
	matrix math.Mat4
}

// NewMatrixTransform creates a transform with the given matrix.
func NewMatrixTransform(m math.Mat4) *MatrixTransform {
	return &MatrixTransform{matrix: m}
}

// Accept implements Node.
func (t *MatrixTransform) Accept(v Visitor) {
	v.ApplyTransform(t)
}

// SetMatrix replaces the transform matrix.
func (t *MatrixTransform) SetMatrix(m math.Mat4) {
	t.matrix = m
}

// Matrix returns the transform matrix.
func (t *MatrixTransform) Matrix() math.Mat4 {
	return t.matrix
}

// ComputeLocalToWorld implements Transform.
func (t *MatrixTransform) ComputeLocalToWorld(m math.Mat4, _ Visitor) math.Mat4 {
	return m.Mul(t.matrix)
}

// ComputeWorldToLocal implements Transform.
func (t *MatrixTransform) ComputeWorldToLocal(m math.Mat4, _ Visitor) math.Mat4 {
	return t.matrix.Inverse().Mul(m)
}
