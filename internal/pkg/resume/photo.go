package resume

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// photoPixels is the edge of the rasterized photo; it is drawn at 90pt, so
// 180px keeps it sharp at 2x.
const photoPixels = 180

// ErrInvalidPhoto is returned for photos that cannot be decoded.
var ErrInvalidPhoto = errors.New("photo must be a PNG or JPEG image")

// CircularPhoto decodes a PNG or JPEG, center-crops it to a square, scales it
// and clears everything outside the inscribed circle. The result is PNG.
func CircularPhoto(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPhoto, err)
	}

	b := src.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	if side == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidPhoto)
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	dst := image.NewNRGBA(image.Rect(0, 0, photoPixels, photoPixels))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)

	r := float64(photoPixels) / 2
	for y := 0; y < photoPixels; y++ {
		for x := 0; x < photoPixels; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy > r*r {
				dst.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("failed to encode photo: %w", err)
	}
	return out.Bytes(), nil
}
