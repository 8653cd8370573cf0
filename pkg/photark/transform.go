package photark

import (
	"image"
	"math"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"k8s.io/klog/v2"
)

// rotateQuality is the re-encode quality for orientation fixes, independent
// of the configured derivative quality.
const rotateQuality = 99

// Transformer performs the resize, thumbnail-crop and rotation steps.
// Geometry is driven by the caller-supplied source dimensions, never by
// state shared across steps.
type Transformer struct {
	cfg *Config
}

// NewTransformer returns a Transformer using cfg for quality and temp
// file placement.
func NewTransformer(cfg *Config) *Transformer {
	return &Transformer{cfg: cfg}
}

// Resize scales the image at src so its longer edge is maxDimension,
// preserving aspect, and writes it as a JPEG to a fresh temporary path.
// When the source already fits, src itself is returned and nothing is
// written; Resize never upscales.
func (t *Transformer) Resize(src string, width int, height int, maxDimension int) (string, error) {
	longer := max(width, height)
	if longer <= maxDimension {
		klog.V(1).Infof("no resize needed for %s (%dx%d <= %d)", src, width, height, maxDimension)
		return src, nil
	}

	img, err := imgio.Open(src)
	if err != nil {
		return "", &DecodeError{Path: src, Err: err}
	}

	ratio := float64(maxDimension) / float64(longer)
	w := int(math.Round(ratio * float64(width)))
	h := int(math.Round(ratio * float64(height)))
	klog.V(1).Infof("resizing %s: %dx%d -> %dx%d", src, width, height, w, h)

	return t.saveTemp(transform.Resize(img, w, h, transform.Lanczos))
}

// Thumbnail center-crops the image at src to a square with side
// min(width, height), then scales it down to fit targetBox when larger.
// The result is always square and written to a fresh temporary path.
func (t *Transformer) Thumbnail(src string, width int, height int, targetBox int) (string, error) {
	img, err := imgio.Open(src)
	if err != nil {
		return "", &DecodeError{Path: src, Err: err}
	}

	var box image.Rectangle
	if width > height {
		left := (width - height) / 2
		box = image.Rect(left, 0, left+height, height)
	} else {
		upper := (height - width) / 2
		box = image.Rect(0, upper, width, upper+width)
	}
	square := transform.Crop(img, box)

	if side := min(width, height); side > targetBox {
		klog.V(1).Infof("thumbnailing %s: %d -> %d", src, side, targetBox)
		square = transform.Resize(square, targetBox, targetBox, transform.Lanczos)
	}

	return t.saveTemp(square)
}

// Rotate re-encodes the image at path rotated by degrees, in place. The
// rotation is lossy and does not touch the orientation tag, so a logical
// correction must only be applied once.
func (t *Transformer) Rotate(path string, degrees float64) error {
	img, err := imgio.Open(path)
	if err != nil {
		return &DecodeError{Path: path, Err: err}
	}

	rotated := transform.Rotate(img, degrees, &transform.RotationOptions{ResizeBounds: true})
	if err := imgio.Save(path, rotated, imgio.JPEGEncoder(rotateQuality)); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// orientationAngle maps an EXIF orientation tag to the correcting rotation
// in bild's convention, where a positive angle turns clockwise. Orientation
// 6 needs a 90° clockwise turn and 8 the reverse. Only 6 and 8 are
// corrected; 3 (180°) and the mirrored values 2, 4, 5 and 7 are left
// alone, matching the upstream gallery behavior.
func orientationAngle(orientation int) float64 {
	switch orientation {
	case 6:
		return 90
	case 8:
		return -90
	}
	return 0
}

func (t *Transformer) saveTemp(img image.Image) (string, error) {
	f, err := os.CreateTemp(t.cfg.TempDir, "photark-*.jpg")
	if err != nil {
		return "", &EncodeError{Err: err}
	}
	path := f.Name()
	f.Close()

	if err := imgio.Save(path, img, imgio.JPEGEncoder(t.cfg.Quality)); err != nil {
		os.Remove(path)
		return "", &EncodeError{Path: path, Err: err}
	}
	return path, nil
}
