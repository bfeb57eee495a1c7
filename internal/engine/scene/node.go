// Package scene provides the scene graph the renderer traverses: groups,
// transforms and drawables with inherited render state, plus the cull
// traversal that turns the graph into a sorted render list.
package scene

import "github.com/Faultbox/skydome/pkg/math"

// Node is an element of the scene graph.
type Node interface {
	// Accept dispatches to the visitor method for the concrete node kind.
	Accept(v Visitor)
	// StateSet returns the node's state set, or nil.
	StateSet() *StateSet
	// CullingActive reports whether the node and its subtree may be
	// culled against static bounds.
	CullingActive() bool
}

// Mesh is indexed triangle data with an interleaved vertex layout of
// position, normal and a 3-component texture coordinate.
type Mesh interface {
	Bound() (math.Vec3, float32)
	VertexData() []float32
	IndexData() []uint32
}

// nodeBase carries the state common to all nodes.
type nodeBase struct {
	state      *StateSet
	cullingOff bool
}

// StateSet returns the node's state set, or nil.
func (n *nodeBase) StateSet() *StateSet {
	return n.state
}

// GetOrCreateStateSet returns the node's state set, creating it if needed.
func (n *nodeBase) GetOrCreateStateSet() *StateSet {
	if n.state == nil {
		n.state = NewStateSet()
	}
	return n.state
}

// SetStateSet replaces the node's state set.
func (n *nodeBase) SetStateSet(s *StateSet) {
	n.state = s
}

// CullingActive reports whether bounding-volume culling applies.
func (n *nodeBase) CullingActive() bool {
	return !n.cullingOff
}

// SetCullingActive enables or disables culling for the node and its subtree.
func (n *nodeBase) SetCullingActive(active bool) {
	n.cullingOff = !active
}

// Group is a node with children.
type Group struct {
	nodeBase
	children []Node
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Accept implements Node.
func (g *Group) Accept(v Visitor) {
	v.ApplyGroup(g)
}

// AddChild appends a child. Adding a child twice is a no-op; it reports
// whether the child was added.
func (g *Group) AddChild(n Node) bool {
	if g.HasChild(n) {
		return false
	}
	g.children = append(g.children, n)
	return true
}

// RemoveChild removes a child and reports whether it was present.
func (g *Group) RemoveChild(n Node) bool {
	for i, c := range g.children {
		if c == n {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// HasChild reports whether n is a direct child.
func (g *Group) HasChild(n Node) bool {
	for _, c := range g.children {
		if c == n {
			return true
		}
	}
	return false
}

// Children returns the children. The slice must not be modified.
func (g *Group) Children() []Node {
	return g.children
}

// Drawable is a leaf node rendering one mesh.
type Drawable struct {
	nodeBase
	mesh Mesh
}

// NewDrawable wraps a mesh in a drawable node.
func NewDrawable(mesh Mesh) *Drawable {
	return &Drawable{mesh: mesh}
}

// Accept implements Node.
func (d *Drawable) Accept(v Visitor) {
	v.ApplyDrawable(d)
}

// Mesh returns the drawable's mesh.
func (d *Drawable) Mesh() Mesh {
	return d.mesh
}
