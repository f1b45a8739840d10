package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// ErrTooLarge signals an upload that exceeded its configured size.
var ErrTooLarge = errors.New("file too large")

// ErrNotImage signals thumbnail bytes that could not be decoded as an image.
var ErrNotImage = errors.New("file is not a valid image")

// ErrImageDimensions signals an image whose header declares more pixels than allowed.
var ErrImageDimensions = errors.New("image dimensions too large")

// Thumbnailer normalises uploaded thumbnails to a bounded JPEG.
type Thumbnailer struct {
	maxWidth  int
	maxPixels int64
}

// NewThumbnailer returns a thumbnailer that fits images within maxWidth pixels
// and refuses to decode anything declaring more than maxPixels.
func NewThumbnailer(maxWidth int, maxPixels int64) *Thumbnailer {
	if maxWidth <= 0 {
		maxWidth = 640
	}
	if maxPixels <= 0 {
		maxPixels = 40_000_000
	}
	return &Thumbnailer{maxWidth: maxWidth, maxPixels: maxPixels}
}

// Process decodes the image, honours EXIF orientation, shrinks it to the max width and re-encodes as JPEG.
// The header is checked first so a small file cannot expand into a huge bitmap.
func (t *Thumbnailer) Process(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > t.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if img.Bounds().Dx() > t.maxWidth {
		img = imaging.Resize(img, t.maxWidth, 0, imaging.Lanczos)
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
