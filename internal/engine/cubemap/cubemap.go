// Package cubemap holds the six face images of a sky cubemap and
// reproduces GL face selection on the CPU.
package cubemap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/skydome/pkg/math"
)

// ErrIncomplete is returned by Validate when one or more faces are missing.
var ErrIncomplete = errors.New("cubemap: incomplete")

// Face identifies a cube face, in GL target order.
type Face int

const (
	PositiveX Face = iota
	NegativeX
	PositiveY
	NegativeY
	PositiveZ
	NegativeZ
)

// NumFaces is the number of cube faces.
const NumFaces = 6

// Faces lists all faces in GL target order.
var Faces = [NumFaces]Face{PositiveX, NegativeX, PositiveY, NegativeY, PositiveZ, NegativeZ}

func (f Face) String() string {
	switch f {
	case PositiveX:
		return "+X"
	case NegativeX:
		return "-X"
	case PositiveY:
		return "+Y"
	case NegativeY:
		return "-Y"
	case PositiveZ:
		return "+Z"
	case NegativeZ:
		return "-Z"
	}
	return fmt.Sprintf("Face(%d)", int(f))
}

// Filter is a texture filtering mode.
type Filter int

const (
	FilterLinear Filter = iota
	FilterLinearMipmapLinear
)

// Wrap is a texture coordinate wrap mode.
type Wrap int

const (
	WrapClampToEdge Wrap = iota
)

// Sampling configuration shared by every sky cubemap.
const (
	MinFilter = FilterLinearMipmapLinear
	MagFilter = FilterLinear
	WrapMode  = WrapClampToEdge
)

// Cubemap is a set of six face images. Faces may be missing; a missing
// face samples as transparent black.
type Cubemap struct {
	faces [NumFaces]*image.RGBA
}

// New returns an empty cubemap.
func New() *Cubemap {
	return &Cubemap{}
}

// SetImage sets the image of a face. A nil image clears the face.
func (c *Cubemap) SetImage(face Face, img image.Image) {
	if img == nil {
		c.faces[face] = nil
		return
	}
	c.faces[face] = toRGBA(img)
}

// Image returns the image of a face, or nil when it is missing.
func (c *Cubemap) Image(face Face) *image.RGBA {
	return c.faces[face]
}

// Missing returns the faces that have no image.
func (c *Cubemap) Missing() []Face {
	var missing []Face
	for _, f := range Faces {
		if c.faces[f] == nil {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate reports ErrIncomplete if any face is missing.
func (c *Cubemap) Validate() error {
	missing := c.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = f.String()
	}
	return fmt.Errorf("%w: missing faces %s", ErrIncomplete, strings.Join(names, ", "))
}

// Size returns the edge length shared by all faces, the largest
// dimension of any loaded face. It is zero when no face is loaded.
func (c *Cubemap) Size() int {
	size := 0
	for _, img := range c.faces {
		if img == nil {
			continue
		}
		b := img.Bounds()
		size = max(size, b.Dx(), b.Dy())
	}
	return size
}

// Normalize rescales every loaded face to a square of Size() texels,
// since GL only accepts cube faces of one square size.
func (c *Cubemap) Normalize() int {
	size := c.Size()
	for i, img := range c.faces {
		if img == nil {
			continue
		}
		b := img.Bounds()
		if b.Dx() == size && b.Dy() == size {
			continue
		}
		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		c.faces[i] = dst
	}
	return size
}

// FaceFor returns the face a direction selects and the (s, t) coordinates
// within it, both in [0, 1], following the GL cube map selection table.
func FaceFor(dir math.Vec3) (face Face, s, t float32) {
	ax, ay, az := abs(dir.X), abs(dir.Y), abs(dir.Z)

	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir.X >= 0 {
			face, sc, tc = PositiveX, -dir.Z, -dir.Y
		} else {
			face, sc, tc = NegativeX, dir.Z, -dir.Y
		}
	case ay >= az:
		ma = ay
		if dir.Y >= 0 {
			face, sc, tc = PositiveY, dir.X, dir.Z
		} else {
			face, sc, tc = NegativeY, dir.X, -dir.Z
		}
	default:
		ma = az
		if dir.Z >= 0 {
			face, sc, tc = PositiveZ, dir.X, -dir.Y
		} else {
			face, sc, tc = NegativeZ, -dir.X, -dir.Y
		}
	}
	if ma == 0 {
		return PositiveX, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// Sample returns the nearest texel in the given direction.
func (c *Cubemap) Sample(dir math.Vec3) color.RGBA {
	face, s, t := FaceFor(dir)
	img := c.faces[face]
	if img == nil {
		return color.RGBA{}
	}
	b := img.Bounds()
	x := clamp(int(s*float32(b.Dx())), 0, b.Dx()-1)
	y := clamp(int(t*float32(b.Dy())), 0, b.Dy()-1)
	return img.RGBAAt(b.Min.X+x, b.Min.Y+y)
}

// toRGBA converts an image to *image.RGBA with its origin at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
