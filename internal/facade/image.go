package facade

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/VantageDataChat/slidesmith"
)

// DefaultImageDirs are searched, in order, for an image path that does not exist.
var DefaultImageDirs = []string{".", "./images", "./assets", "./resources"}

// ErrImageNotFound is returned when an image path cannot be resolved.
var ErrImageNotFound = errors.New("image not found")

// ResolveImagePath returns path when it exists, or the first dir/<base name>
// that does.
func ResolveImagePath(path string, dirs []string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if len(dirs) == 0 {
		dirs = DefaultImageDirs
	}
	base := filepath.Base(path)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, base)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("Image file not found: %s. Searched in %s: %w", path, strings.Join(dirs, ", "), ErrImageNotFound)
}

// DecodeBase64Image accepts raw base64 or a data URL.
func DecodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, argErrorf("Invalid base64 image data: %v", err)
	}
	if len(data) == 0 {
		return nil, argErrorf("Invalid base64 image data: empty")
	}
	return data, nil
}

// ExtendedSize reads pixel dimensions with the extra decoders from
// golang.org/x/image, falling back to the registered standard ones.
func ExtendedSize(data []byte) (int, int, error) {
	decoders := []func([]byte) (image.Config, error){
		func(b []byte) (image.Config, error) { return bmp.DecodeConfig(bytes.NewReader(b)) },
		func(b []byte) (image.Config, error) { return tiff.DecodeConfig(bytes.NewReader(b)) },
		func(b []byte) (image.Config, error) { return webp.DecodeConfig(bytes.NewReader(b)) },
		func(b []byte) (image.Config, error) {
			cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
			return cfg, err
		},
	}
	for _, decode := range decoders {
		cfg, err := decode(data)
		if err == nil && cfg.Width > 0 && cfg.Height > 0 {
			return cfg.Width, cfg.Height, nil
		}
	}
	return 0, 0, errors.New("unrecognised image format")
}

// ImagePlacement is where an image goes. A nil Width or Height is derived
// from the image's aspect ratio.
type ImagePlacement struct {
	Left, Top     float64
	Width, Height *float64
}

// sizeFromPixels fills the missing dimensions of p from a pixel size at 96 dpi.
func (p ImagePlacement) sizeFromPixels(pxW, pxH int) (int64, int64) {
	ratio := float64(pxW) / float64(pxH)
	switch {
	case p.Width != nil && p.Height != nil:
		return slidesmith.Inch(*p.Width), slidesmith.Inch(*p.Height)
	case p.Width != nil:
		return slidesmith.Inch(*p.Width), slidesmith.Inch(*p.Width / ratio)
	case p.Height != nil:
		return slidesmith.Inch(*p.Height * ratio), slidesmith.Inch(*p.Height)
	}
	return slidesmith.Pixel(float64(pxW)), slidesmith.Pixel(float64(pxH))
}

// InsertImage adds a picture to slide, trying in order: the requested size
// with the engine supplying any missing side, the image's native size, and
// a size computed from the extended decoders. Failures before the winning
// strategy are returned alongside the picture.
func InsertImage(slide *slidesmith.Slide, data []byte, mime string, at ImagePlacement) (*slidesmith.DrawingShape, []Failure, error) {
	if len(data) == 0 {
		return nil, nil, slidesmith.ErrNoImageData
	}
	build := func(size func(pic *slidesmith.DrawingShape) (int64, int64, error)) func() (*slidesmith.DrawingShape, error) {
		return func() (*slidesmith.DrawingShape, error) {
			pic := slidesmith.NewDrawingShape().SetImageData(data, mime)
			if pic.GetMimeType() == "" {
				return nil, errors.New("unsupported image format")
			}
			w, h, err := size(pic)
			if err != nil {
				return nil, err
			}
			if w <= 0 || h <= 0 {
				return nil, fmt.Errorf("invalid image size %dx%d", w, h)
			}
			pic.SetPosition(slidesmith.Inch(at.Left), slidesmith.Inch(at.Top))
			pic.SetSize(w, h)
			slide.AddShape(pic)
			pic.SetName(fmt.Sprintf("Picture %d", pic.GetID()-1))
			return pic, nil
		}
	}

	withSize := build(func(pic *slidesmith.DrawingShape) (int64, int64, error) {
		if at.Width != nil && at.Height != nil {
			return slidesmith.Inch(*at.Width), slidesmith.Inch(*at.Height), nil
		}
		pxW, pxH, err := pic.NativeSize()
		if err != nil {
			return 0, 0, err
		}
		w, h := at.sizeFromPixels(pxW, pxH)
		return w, h, nil
	})
	native := build(func(pic *slidesmith.DrawingShape) (int64, int64, error) {
		pxW, pxH, err := pic.NativeSize()
		if err != nil {
			return 0, 0, err
		}
		return slidesmith.Pixel(float64(pxW)), slidesmith.Pixel(float64(pxH)), nil
	})
	computed := build(func(pic *slidesmith.DrawingShape) (int64, int64, error) {
		pxW, pxH, err := ExtendedSize(data)
		if err != nil {
			return 0, 0, err
		}
		w, h := at.sizeFromPixels(pxW, pxH)
		return w, h, nil
	})

	return TryInOrder("add image",
		Attempt[*slidesmith.DrawingShape]{Description: "Adding image with specified dimensions", Run: withSize},
		Attempt[*slidesmith.DrawingShape]{Description: "Adding image with original dimensions", Run: native},
		Attempt[*slidesmith.DrawingShape]{Description: "Adding image with calculated dimensions from decoded pixels", Run: computed},
	)
}
