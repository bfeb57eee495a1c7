package renderer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/skydome/internal/engine/cubemap"
	"github.com/Faultbox/skydome/internal/engine/scene"
	"github.com/Faultbox/skydome/internal/logger"
)

// binder is implemented by textures the renderer can bind to the active unit.
type binder interface {
	bind()
}

// CubeTexture is a GL cube map. It is reference counted; the GL object
// is deleted on the last release.
type CubeTexture struct {
	scene.RefCount

	id   uint32
	size int
}

// UploadCubemap creates a cube texture from the six faces. Missing faces
// upload as black so the texture is always complete. The returned texture
// holds one reference for the caller.
func UploadCubemap(c *cubemap.Cubemap) (*CubeTexture, error) {
	size := c.Size()
	if size == 0 {
		size = 1
	}

	t := &CubeTexture{size: size}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)

	black := image.NewRGBA(image.Rect(0, 0, size, size))
	for _, face := range cubemap.Faces {
		img := c.Image(face)
		if img == nil || img.Bounds().Dx() != size || img.Bounds().Dy() != size {
			img = black
		}
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), 0, gl.RGBA8,
			int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}

	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, glFilter(cubemap.MinFilter))
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, glFilter(cubemap.MagFilter))
	for _, axis := range []uint32{gl.TEXTURE_WRAP_S, gl.TEXTURE_WRAP_T, gl.TEXTURE_WRAP_R} {
		gl.TexParameteri(gl.TEXTURE_CUBE_MAP, axis, glWrap(cubemap.WrapMode))
	}
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &t.id)
		return nil, fmt.Errorf("cube texture upload: GL error 0x%x", code)
	}

	t.OnRelease(t.delete)
	t.Retain()
	logger.Named("renderer").Debug("cube texture uploaded",
		zap.Uint32("id", t.id),
		zap.Int("size", size),
	)
	return t, nil
}

// ID returns the GL texture object.
func (t *CubeTexture) ID() uint32 {
	return t.id
}

// Size returns the face edge length in texels.
func (t *CubeTexture) Size() int {
	return t.size
}

func (t *CubeTexture) bind() {
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
}

func (t *CubeTexture) delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func glFilter(f cubemap.Filter) int32 {
	switch f {
	case cubemap.FilterLinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.LINEAR
	}
}

func glWrap(cubemap.Wrap) int32 {
	return gl.CLAMP_TO_EDGE
}

// Uploader adapts UploadCubemap to callers that deal in scene attributes.
type Uploader struct{}

// UploadCubemap implements the texture uploader used by the sky.
func (Uploader) UploadCubemap(c *cubemap.Cubemap) (scene.Attribute, error) {
	t, err := UploadCubemap(c)
	if err != nil {
		return nil, err
	}
	return t, nil
}
