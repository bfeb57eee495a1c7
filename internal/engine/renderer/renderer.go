// Package renderer executes render lists with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/internal/logger"
	"github.com/Faultbox/skydome/pkg/math"
)

// Standard uniforms set for every draw.
const (
	ModelUniform      = "uModel"
	ViewUniform       = "uView"
	ProjectionUniform = "uProjection"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Program is a linked shader program the renderer can bind.
type Program interface {
	Use()
	Uniform(name string) int32
}

// Stats counts the work done by the last Draw.
type Stats struct {
	DrawCalls int
	Triangles int
	Skipped   int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger
	meshes *meshCache
	stats  Stats
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		log:    logger.Named("renderer"),
		meshes: newMeshCache(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.meshes.clear()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	r.stats = Stats{}
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// ReadPixels reads the back buffer as tightly packed RGBA rows, bottom row
// first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Stats returns counters from the current frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Draw renders a culled list in order. Each item's textures are acquired
// for the duration of its draw, so a texture swapped out meanwhile stays
// valid until the draw is done.
func (r *Renderer) Draw(list *scene.RenderList, view, proj math.Mat4) {
	for i := range list.Items {
		r.drawItem(&list.Items[i], &view, &proj)
	}
}

func (r *Renderer) drawItem(it *scene.RenderItem, view, proj *math.Mat4) {
	prog, ok := it.State.Program.(Program)
	if !ok {
		r.stats.Skipped++
		return
	}
	mesh := r.meshes.get(it.Drawable.Mesh())
	if mesh.count == 0 {
		r.stats.Skipped++
		return
	}

	applyModes(it.State)
	prog.Use()

	model := it.Model
	gl.UniformMatrix4fv(prog.Uniform(ModelUniform), 1, false, model.Ptr())
	gl.UniformMatrix4fv(prog.Uniform(ViewUniform), 1, false, view.Ptr())
	gl.UniformMatrix4fv(prog.Uniform(ProjectionUniform), 1, false, proj.Ptr())
	for name, v := range it.State.Uniforms {
		setUniform(prog.Uniform(name), v)
	}

	tex := it.State.AcquireTexture(0)
	if tex != nil {
		defer tex.Release()
		if b, ok := tex.(binder); ok {
			gl.ActiveTexture(gl.TEXTURE0)
			b.bind()
		}
	}

	gl.BindVertexArray(mesh.vao)
	gl.DrawElements(gl.TRIANGLES, mesh.count, gl.UNSIGNED_INT, nil)

	r.stats.DrawCalls++
	r.stats.Triangles += int(mesh.count) / 3
}

// applyModes maps the resolved state onto GL. Lighting and fog are shader
// concerns in the core profile and have no GL switch here.
func applyModes(st scene.State) {
	setCap(gl.DEPTH_TEST, st.Enabled(scene.DepthTest, true))
	setCap(gl.CULL_FACE, st.Enabled(scene.CullFace, false))
	blend := st.Enabled(scene.Blend, false)
	setCap(gl.BLEND, blend)
	if blend {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

func setUniform(loc int32, v any) {
	if loc < 0 {
		return
	}
	switch v := v.(type) {
	case int32:
		gl.Uniform1i(loc, v)
	case float32:
		gl.Uniform1f(loc, v)
	case math.Vec3:
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	case math.Mat4:
		gl.UniformMatrix4fv(loc, 1, false, v.Ptr())
	}
}
