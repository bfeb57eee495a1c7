package debug

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/Faultbox/skydome/internal/engine/cubemap"
)

// crossCells places each face in a 4x3 horizontal cross:
//
//	      +Y
//	-X    +Z    +X    -Z
//	      -Y
var crossCells = [cubemap.NumFaces]image.Point{
	cubemap.PositiveX: {2, 1},
	cubemap.NegativeX: {0, 1},
	cubemap.PositiveY: {1, 0},
	cubemap.NegativeY: {1, 2},
	cubemap.PositiveZ: {1, 1},
	cubemap.NegativeZ: {3, 1},
}

// MissingFaceColor fills cells of faces that are not loaded.
var MissingFaceColor = color.RGBA{R: 255, B: 255, A: 255}

// UnfoldCross lays the cubemap faces out as a horizontal cross so the
// whole sky can be inspected in one image. Faces are normalized first.
func UnfoldCross(c *cubemap.Cubemap) *image.RGBA {
	size := c.Normalize()
	if size == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	out := image.NewRGBA(image.Rect(0, 0, 4*size, 3*size))
	for _, f := range cubemap.Faces {
		cell := crossCells[f]
		r := image.Rect(cell.X*size, cell.Y*size, (cell.X+1)*size, (cell.Y+1)*size)
		if img := c.Image(f); img != nil {
			draw.Draw(out, r, img, img.Bounds().Min, draw.Src)
		} else {
			draw.Draw(out, r, image.NewUniform(MissingFaceColor), image.Point{}, draw.Src)
		}
	}
	return out
}

// CaptureCross writes the unfolded cubemap as the next capture.
func (sc *ScreenshotCapture) CaptureCross(c *cubemap.Cubemap) (string, error) {
	return sc.CaptureFromImage(UnfoldCross(c))
}
