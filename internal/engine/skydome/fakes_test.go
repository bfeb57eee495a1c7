package skydome

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/skydome/internal/engine/cubemap"
	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/pkg/math"
)

type fakeProgram struct {
	scene.RefCount
	name  string
	freed bool
}

type fakeCompiler struct {
	err      error
	programs []*fakeProgram
}

func (c *fakeCompiler) CompileProgram(name, vertexSrc, fragmentSrc string) (scene.Attribute, error) {
	if c.err != nil {
		return nil, c.err
	}
	p := &fakeProgram{name: name}
	p.OnRelease(func() { p.freed = true })
	p.Retain()
	c.programs = append(c.programs, p)
	return p, nil
}

type fakeTexture struct {
	scene.RefCount
	cube  *cubemap.Cubemap
	freed bool
}

func newFakeTexture(c *cubemap.Cubemap) *fakeTexture {
	tex := &fakeTexture{cube: c}
	tex.OnRelease(func() { tex.freed = true })
	tex.Retain()
	return tex
}

type fakeUploader struct {
	err      error
	textures []*fakeTexture
}

func (u *fakeUploader) UploadCubemap(c *cubemap.Cubemap) (scene.Attribute, error) {
	if u.err != nil {
		return nil, u.err
	}
	tex := newFakeTexture(c)
	u.textures = append(u.textures, tex)
	return tex, nil
}

// eyeVisitor is a traversal that reports a fixed eye point.
type eyeVisitor struct {
	eye math.Vec3
}

func (eyeVisitor) ApplyGroup(*scene.Group)        {}
func (eyeVisitor) ApplyTransform(scene.Transform) {}
func (eyeVisitor) ApplyDrawable(*scene.Drawable)  {}
func (v eyeVisitor) EyeLocal() (math.Vec3, bool)  { return v.eye, true }

// faceColors gives each face a distinct solid color.
func faceColors(shift uint8) [cubemap.NumFaces]color.RGBA {
	var out [cubemap.NumFaces]color.RGBA
	for i := range out {
		out[i] = color.RGBA{R: uint8(40*i) + shift, G: 255 - uint8(30*i), B: shift, A: 255}
	}
	return out
}

func solidCubemap(colors [cubemap.NumFaces]color.RGBA) *cubemap.Cubemap {
	c := cubemap.New()
	for _, f := range cubemap.Faces {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, colors[f])
		c.SetImage(f, img)
	}
	return c
}

// writeFaces writes 1x1 PNG faces with the default file names into dir.
func writeFaces(t *testing.T, dir string, colors [cubemap.NumFaces]color.RGBA) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	files := cubemap.DefaultFaceFiles()
	for _, f := range cubemap.Faces {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.SetRGBA(0, 0, colors[f])
		out, err := os.Create(filepath.Join(dir, files[f]))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(out, img); err != nil {
			t.Fatal(err)
		}
		out.Close()
	}
}

var axisDirs = [cubemap.NumFaces]math.Vec3{
	cubemap.PositiveX: {X: 1},
	cubemap.NegativeX: {X: -1},
	cubemap.PositiveY: {Y: 1},
	cubemap.NegativeY: {Y: -1},
	cubemap.PositiveZ: {Z: 1},
	cubemap.NegativeZ: {Z: -1},
}
