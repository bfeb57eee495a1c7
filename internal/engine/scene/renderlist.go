package scene

import (
	"sort"

	"github.com/Faultbox/skydome/pkg/math"
)

// RenderItem is one drawable ready to draw: its mesh, accumulated model
// matrix and effective state.
type RenderItem struct {
	Drawable *Drawable
	Model    math.Mat4
	State    State
}

// RenderList is the output of a cull traversal.
type RenderList struct {
	Items []RenderItem
}

// Len returns the number of items.
func (l *RenderList) Len() int {
	return len(l.Items)
}

// Sort orders items by render bin. Items in the same bin keep traversal order.
func (l *RenderList) Sort() {
	sort.SliceStable(l.Items, func(i, j int) bool {
		return l.Items[i].State.BinNumber < l.Items[j].State.BinNumber
	})
}
