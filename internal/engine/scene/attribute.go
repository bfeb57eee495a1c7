package scene

import "sync/atomic"

// Attribute is a render state object (texture, program) shared between
// state sets and in-flight draws. Every holder calls Retain before keeping
// a reference and Release when it drops it; the last Release frees the
// underlying resource.
type Attribute interface {
	Retain()
	Release()
}

// RefCount implements Attribute for embedding. The zero value has no
// references; constructors call Retain once for the creator's reference.
type RefCount struct {
	refs      atomic.Int32
	freed     atomic.Bool
	onRelease func()
}

// OnRelease sets the function run when the count drops to zero.
func (r *RefCount) OnRelease(f func()) {
	r.onRelease = f
}

// Retain adds a reference. Retaining an attribute whose last reference
// was already released panics: its resource is gone.
func (r *RefCount) Retain() {
	if r.freed.Load() {
		panic("scene: attribute retained after its final release")
	}
	r.refs.Add(1)
}

// Release drops a reference.
func (r *RefCount) Release() {
	n := r.refs.Add(-1)
	if n < 0 {
		panic("scene: attribute released more times than retained")
	}
	if n == 0 {
		r.freed.Store(true)
		if r.onRelease != nil {
			r.onRelease()
		}
	}
}

// Refs returns the current reference count.
func (r *RefCount) Refs() int32 {
	return r.refs.Load()
}
