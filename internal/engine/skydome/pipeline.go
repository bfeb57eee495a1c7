// Package skydome renders an infinitely distant sky: a cubemap-textured
// dome that stays centered on the viewer.
package skydome

import (
	"fmt"
	"sync"

	"github.com/Faultbox/skydome/internal/engine/cubemap"
	"github.com/Faultbox/skydome/internal/engine/dome"
	"github.com/Faultbox/skydome/internal/engine/scene"
)

// Render bins. Lower bins draw first.
const (
	SkyBin       = -3
	CompanionBin = -2
	BinName      = "RenderBin"
)

// CubemapUnit is the texture unit the sky samples from.
const CubemapUnit = 0

// ProgramCompiler compiles and links a shader program.
type ProgramCompiler interface {
	CompileProgram(name, vertexSrc, fragmentSrc string) (scene.Attribute, error)
}

// TextureUploader turns a decoded cubemap into a bindable texture holding
// one reference for the caller.
type TextureUploader interface {
	UploadCubemap(c *cubemap.Cubemap) (scene.Attribute, error)
}

// Pipeline owns the sky shader program and builds dome renderables that
// share it.
type Pipeline struct {
	program scene.Attribute
}

// NewPipeline compiles the sky shaders. A compile or link failure means no
// dome can be drawn and is returned to the caller.
func NewPipeline(compiler ProgramCompiler) (*Pipeline, error) {
	program, err := compiler.CompileProgram("sky", vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("sky pipeline: %w", err)
	}
	return &Pipeline{program: program}, nil
}

// Program returns the compiled sky program.
func (p *Pipeline) Program() scene.Attribute {
	return p.program
}

// Build creates a dome bound to cubemap and the sky program. A nil cubemap
// leaves unit 0 empty until SetCubeMap is called.
func (p *Pipeline) Build(params dome.Params, cubemap scene.Attribute) (*Dome, error) {
	geom, err := dome.Build(params)
	if err != nil {
		return nil, err
	}

	d := &Dome{geometry: geom, drawable: scene.NewDrawable(geom)}
	d.drawable.SetCullingActive(false)

	ss := d.drawable.GetOrCreateStateSet()
	ss.SetMode(scene.Lighting, scene.Off|scene.Protected)
	ss.SetMode(scene.Fog, scene.Off)
	ss.SetMode(scene.DepthTest, scene.Off)
	ss.SetMode(scene.CullFace, scene.On)
	ss.SetRenderBinDetails(SkyBin, BinName)
	ss.SetProgram(p.program)
	ss.SetUniform(SkySamplerUniform, int32(CubemapUnit))
	if cubemap != nil {
		d.SetCubeMap(cubemap)
	}
	return d, nil
}

// SetCubeMap swaps the texture of a dome built by this pipeline.
func (p *Pipeline) SetCubeMap(d *Dome, cubemap scene.Attribute) {
	d.SetCubeMap(cubemap)
}

// Close drops the pipeline's reference to the program. Domes already
// built keep theirs.
func (p *Pipeline) Close() {
	if p.program != nil {
		p.program.Release()
		p.program = nil
	}
}

// Dome is the sky renderable: immutable geometry plus a state set whose
// cubemap can be replaced at runtime.
type Dome struct {
	geometry *dome.Geometry
	drawable *scene.Drawable

	mu      sync.Mutex
	cubemap scene.Attribute
}

// Geometry returns the dome mesh.
func (d *Dome) Geometry() *dome.Geometry {
	return d.geometry
}

// Node returns the drawable to attach under a SkyTransform.
func (d *Dome) Node() *scene.Drawable {
	return d.drawable
}

// CubeMap returns the bound cubemap, or nil.
func (d *Dome) CubeMap() scene.Attribute {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cubemap
}

// SetCubeMap binds cubemap to unit 0, replacing the previous texture in a
// single state set update. The value is protected so no parent override
// can unbind it. A draw already holding the old texture keeps it alive
// until it releases it. A nil cubemap unbinds the unit. Setting the bound
// cubemap again changes nothing.
func (d *Dome) SetCubeMap(cubemap scene.Attribute) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if cubemap == d.cubemap {
		return
	}
	ss := d.drawable.GetOrCreateStateSet()
	if cubemap == nil {
		if d.cubemap != nil {
			ss.RemoveTextureAttribute(d.cubemap)
		}
	} else {
		ss.ReplaceTextureAttribute(d.cubemap, CubemapUnit, cubemap, scene.On|scene.Protected)
	}
	d.cubemap = cubemap
}

// Release drops the dome's texture and program references.
func (d *Dome) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawable.GetOrCreateStateSet().Release()
	d.cubemap = nil
}
