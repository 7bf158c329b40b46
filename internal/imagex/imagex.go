// Package imagex normalises uploaded ship images.
package imagex

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register gif
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

var (
	// ErrUnsupported is returned for data that is not a jpeg, png or gif image.
	ErrUnsupported = errors.New("unsupported image format")
	// ErrTooLarge is returned for images declaring more than MaxPixels pixels.
	ErrTooLarge = errors.New("image dimensions too large")
)

// MaxPixels caps width*height of an image before its pixels are decoded.
const MaxPixels = 50_000_000

const jpegQuality = 85

// Fit scales the image in data down so that neither side exceeds maxDim,
// keeping the aspect ratio. Images already within bounds are returned
// unchanged. Resized gifs are re-encoded as png. The returned format is the
// one of the returned bytes. Images larger than MaxPixels are rejected from
// their header alone.
func Fit(data []byte, maxDim int) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupported
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", ErrTooLarge
	}
	if maxDim <= 0 || (cfg.Width <= maxDim && cfg.Height <= maxDim) {
		return data, format, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", format, err)
	}

	w, h := scaledSize(cfg.Width, cfg.Height, maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	default:
		format = "png"
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), format, nil
}

func scaledSize(w, h, maxDim int) (int, int) {
	if w >= h {
		return maxDim, max(1, h*maxDim/w)
	}
	return max(1, w*maxDim/h), maxDim
}
