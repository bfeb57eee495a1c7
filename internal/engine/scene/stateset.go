package scene

import "sync"

// Mode is a render mode toggled per state set.
type Mode int

const (
	Lighting Mode = iota
	Fog
	DepthTest
	CullFace
	Blend
	numModes
)

func (m Mode) String() string {
	switch m {
	case Lighting:
		return "lighting"
	case Fog:
		return "fog"
	case DepthTest:
		return "depth_test"
	case CullFace:
		return "cull_face"
	case Blend:
		return "blend"
	}
	return "unknown"
}

// Value is a mode or attribute setting with inheritance flags.
type Value uint8

const (
	Off Value = 0
	On  Value = 1 << (iota - 1)
	// Override makes a parent's value win over its descendants.
	Override
	// Protected makes a value immune to a parent's Override.
	Protected
)

// Enabled reports whether the On bit is set.
func (v Value) Enabled() bool {
	return v&On != 0
}

// DefaultBin is the render bin of state sets that do not set one.
const DefaultBin = 0

type textureSlot struct {
	attr  Attribute
	value Value
}

// StateSet holds the render state attached to a node. Texture slots are
// guarded by a mutex so a slot can be swapped while a draw holds the
// previous attribute.
type StateSet struct {
	modes   map[Mode]Value
	binSet  bool
	binNum  int
	binName string
	program Attribute
	// uniforms hold int32, float32, math.Vec3 or math.Mat4 values.
	uniforms map[string]any

	mu       sync.Mutex
	textures map[int]textureSlot
}

// NewStateSet returns an empty state set.
func NewStateSet() *StateSet {
	return &StateSet{
		modes:    make(map[Mode]Value),
		uniforms: make(map[string]any),
		textures: make(map[int]textureSlot),
	}
}

// SetUniform sets a shader uniform for drawables under this state set.
// A child's uniform of the same name wins.
func (s *StateSet) SetUniform(name string, value any) {
	s.uniforms[name] = value
}

// Uniform returns a uniform value and whether it is set.
func (s *StateSet) Uniform(name string) (any, bool) {
	v, ok := s.uniforms[name]
	return v, ok
}

// SetMode sets a mode value.
func (s *StateSet) SetMode(m Mode, v Value) {
	s.modes[m] = v
}

// Mode returns a mode value and whether it is set.
func (s *StateSet) Mode(m Mode) (Value, bool) {
	v, ok := s.modes[m]
	return v, ok
}

// SetRenderBinDetails places drawables under this state set in a bin.
// Lower bin numbers draw first.
func (s *StateSet) SetRenderBinDetails(num int, name string) {
	s.binSet = true
	s.binNum = num
	s.binName = name
}

// RenderBin returns the bin number and name, and whether they are set.
func (s *StateSet) RenderBin() (int, string, bool) {
	return s.binNum, s.binName, s.binSet
}

// SetProgram sets the shader program, retaining it and releasing the previous one.
func (s *StateSet) SetProgram(p Attribute) {
	if p != nil {
		p.Retain()
	}
	if s.program != nil {
		s.program.Release()
	}
	s.program = p
}

// Program returns the shader program, or nil.
func (s *StateSet) Program() Attribute {
	return s.program
}

// SetTextureAttribute binds attr to a texture unit, retaining it and
// releasing whatever was bound there before.
func (s *StateSet) SetTextureAttribute(unit int, attr Attribute, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTextureLocked(unit, attr, v)
}

// RemoveTextureAttribute unbinds attr from every unit it is bound to.
// It reports whether anything was removed.
func (s *StateSet) RemoveTextureAttribute(attr Attribute) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeTextureLocked(attr)
}

// ReplaceTextureAttribute unbinds old and binds attr to unit under a single
// lock hold, so no reader observes the slot empty. attr may be old itself;
// it is never released to zero on the way.
func (s *StateSet) ReplaceTextureAttribute(old Attribute, unit int, attr Attribute, v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attr.Retain()
	defer attr.Release()
	if old != nil {
		s.removeTextureLocked(old)
	}
	s.setTextureLocked(unit, attr, v)
}

func (s *StateSet) setTextureLocked(unit int, attr Attribute, v Value) {
	attr.Retain()
	if prev, ok := s.textures[unit]; ok {
		prev.attr.Release()
	}
	s.textures[unit] = textureSlot{attr: attr, value: v}
}

func (s *StateSet) removeTextureLocked(attr Attribute) bool {
	removed := false
	for unit, slot := range s.textures {
		if slot.attr == attr {
			delete(s.textures, unit)
			slot.attr.Release()
			removed = true
		}
	}
	return removed
}

// TextureAttribute returns the attribute bound to a unit without retaining it.
func (s *StateSet) TextureAttribute(unit int) (Attribute, Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.textures[unit]
	return slot.attr, slot.value, ok
}

// AcquireTexture returns the attribute bound to a unit with an extra
// reference for the caller, or nil. The caller must Release it.
func (s *StateSet) AcquireTexture(unit int) Attribute {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.textures[unit]
	if !ok {
		return nil
	}
	slot.attr.Retain()
	return slot.attr
}

// textureUnits returns the bound units with their values.
func (s *StateSet) textureUnits() map[int]Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	units := make(map[int]Value, len(s.textures))
	for unit, slot := range s.textures {
		units[unit] = slot.value
	}
	return units
}

// Release drops every attribute held by the state set.
func (s *StateSet) Release() {
	s.mu.Lock()
	for unit, slot := range s.textures {
		slot.attr.Release()
		delete(s.textures, unit)
	}
	s.mu.Unlock()
	s.SetProgram(nil)
}

// State is the effective render state of a drawable after inheritance.
type State struct {
	modes   [numModes]Value
	modeSet [numModes]bool

	BinNumber int
	BinName   string
	Program   Attribute
	Uniforms  map[string]any

	// textures maps a unit to the state set that supplies it, so the
	// draw acquires the attribute bound at draw time.
	textures map[int]textureSource
}

type textureSource struct {
	set   *StateSet
	value Value
}

// Mode returns the effective value of a mode and whether any state set sets it.
func (st State) Mode(m Mode) (Value, bool) {
	return st.modes[m], st.modeSet[m]
}

// Enabled returns the effective mode, falling back to def when unset.
func (st State) Enabled(m Mode, def bool) bool {
	if !st.modeSet[m] {
		return def
	}
	return st.modes[m].Enabled()
}

// AcquireTexture retains and returns the texture for a unit, or nil.
func (st State) AcquireTexture(unit int) Attribute {
	src, ok := st.textures[unit]
	if !ok {
		return nil
	}
	return src.set.AcquireTexture(unit)
}

// inherits reports whether a child value loses to the parent value.
func inherits(parent, child Value) bool {
	return parent&Override != 0 && child&Protected == 0
}

// push returns the state of a child with state set s under st.
func (st State) push(s *StateSet) State {
	if s == nil {
		return st
	}

	next := st
	for m, v := range s.modes {
		if st.modeSet[m] && inherits(st.modes[m], v) {
			continue
		}
		next.modes[m] = v
		next.modeSet[m] = true
	}

	if num, name, ok := s.RenderBin(); ok {
		next.BinNumber = num
		next.BinName = name
	}
	if s.program != nil {
		next.Program = s.program
	}
	if len(s.uniforms) > 0 {
		next.Uniforms = make(map[string]any, len(st.Uniforms)+len(s.uniforms))
		for name, v := range st.Uniforms {
			next.Uniforms[name] = v
		}
		for name, v := range s.uniforms {
			next.Uniforms[name] = v
		}
	}

	units := s.textureUnits()
	if len(units) > 0 {
		next.textures = make(map[int]textureSource, len(st.textures)+len(units))
		for unit, src := range st.textures {
			next.textures[unit] = src
		}
		for unit, v := range units {
			if parent, ok := st.textures[unit]; ok && inherits(parent.value, v) {
				continue
			}
			next.textures[unit] = textureSource{set: s, value: v}
		}
	}
	return next
}
