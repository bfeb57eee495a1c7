package cubemap

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Faultbox/skydome/internal/logger"
)

// FaceFiles maps each face to a file name inside the cubemap folder.
type FaceFiles [NumFaces]string

// DefaultFaceFiles returns the file names for a Y-up world looking down -Z.
func DefaultFaceFiles() FaceFiles {
	var f FaceFiles
	f[PositiveX] = "east.png"
	f[NegativeX] = "west.png"
	f[PositiveY] = "up.png"
	f[NegativeY] = "down.png"
	f[PositiveZ] = "south.png"
	f[NegativeZ] = "north.png"
	return f
}

// ReadFunc reads a file by path.
type ReadFunc func(path string) ([]byte, error)

// Load reads and decodes the six faces from folder. It blocks until all
// faces are processed. A face that cannot be read or decoded is logged and
// left empty; the returned cubemap is never nil.
func Load(folder string, files FaceFiles, read ReadFunc) *Cubemap {
	log := logger.Named("cubemap")
	c := New()

	for _, face := range Faces {
		name := files[face]
		if name == "" {
			log.Warn("no file configured for face", zap.Stringer("face", face))
			continue
		}
		path := filepath.Join(folder, name)

		data, err := read(path)
		if err != nil {
			log.Warn("face not loaded", zap.Stringer("face", face), zap.String("path", path), zap.Error(err))
			continue
		}
		img, err := Decode(data, path)
		if err != nil {
			log.Warn("face not decoded", zap.Stringer("face", face), zap.String("path", path), zap.Error(err))
			continue
		}
		c.SetImage(face, img)
	}

	size := c.Normalize()
	if err := c.Validate(); err != nil {
		log.Warn("cubemap incomplete", zap.String("folder", folder), zap.Error(err))
	}
	log.Debug("cubemap loaded", zap.String("folder", folder), zap.Int("size", size))
	return c
}

// Decode decodes a face image. TGA is picked by extension, everything
// else goes through the registered image formats (png, jpeg, bmp, webp).
func Decode(data []byte, name string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(name), err)
	}
	return img, nil
}
