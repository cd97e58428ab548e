package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

var (
	ErrNotImage = errors.New("file is not a supported image")
	ErrTooLarge = errors.New("image exceeds size limit")
)

const (
	DefaultMaxWidth = 800
	DefaultMaxBytes = 5 << 20

	jpegQuality   = 85
	dataURLPrefix = "data:image/jpeg;base64,"
)

// Encoder turns uploaded images into inline catalog images.
type Encoder struct {
	MaxWidth int
	MaxBytes int64
}

func NewEncoder(maxWidth int, maxBytes int64) Encoder {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Encoder{MaxWidth: maxWidth, MaxBytes: maxBytes}
}

// Encode reads an image from r, downscales it to at most MaxWidth pixels wide
// and returns it as a base64 JPEG data URI.
func (e Encoder) Encode(r io.Reader) (catalog.Image, error) {
	raw, err := io.ReadAll(io.LimitReader(r, e.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > e.MaxBytes {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, e.MaxBytes)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	if img.Bounds().Dx() > e.MaxWidth {
		img = imaging.Resize(img, e.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return catalog.Image(dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
