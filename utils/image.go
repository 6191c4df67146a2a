package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	MaxImageSide = 1920
	WebPQuality  = 80
)

// ToWebP decodes an uploaded image, fits it into MaxImageSide and re-encodes it as WebP.
func ToWebP(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		img = imaging.Fit(img, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}
