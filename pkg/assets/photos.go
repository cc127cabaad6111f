// Package assets loads the photographs hung on the tree and draws the plaque
// shown in place of a missing photo.
package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Photo texture size. The aspect matches the 0.6 x 0.78 photo plane.
const (
	PhotoWidth  = 120
	PhotoHeight = 156
)

// MaxPhotos is the number of plaques available for photos.
const MaxPhotos = 10

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("empty image")

// LoadPhotos decodes up to MaxPhotos images in the given order and scales
// each to the photo texture size. A file that cannot be read yields a nil
// entry at its position, so the plaque falls back to the placeholder.
func LoadPhotos(paths []string, logger *slog.Logger) []*image.RGBA {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(paths) > MaxPhotos {
		logger.Warn("too many photos, extra files ignored", "given", len(paths), "max", MaxPhotos)
		paths = paths[:MaxPhotos]
	}

	photos := make([]*image.RGBA, len(paths))
	for i, path := range paths {
		img, err := LoadPhoto(path)
		if err != nil {
			logger.Warn("photo unavailable, using placeholder", "path", path, "slot", i, "err", err)
			continue
		}
		photos[i] = img
		logger.Debug("photo loaded", "path", path, "slot", i)
	}
	return photos
}

// LoadPhoto decodes a PNG, JPEG or WebP file and scales it to the photo
// texture size.
func LoadPhoto(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode photo %s: %w", path, err)
	}
	return Fit(src, PhotoWidth, PhotoHeight)
}

// Fit scales src to w x h, cropping the longer side around the centre so the
// picture is not stretched.
func Fit(src image.Image, w, h int) (*image.RGBA, error) {
	sb := src.Bounds()
	if sb.Empty() || w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	crop := sb
	// compare sw/sh to w/h without division
	if sb.Dx()*h > sb.Dy()*w {
		cw := sb.Dy() * w / h
		crop.Min.X = sb.Min.X + (sb.Dx()-cw)/2
		crop.Max.X = crop.Min.X + cw
	} else {
		ch := sb.Dx() * h / w
		crop.Min.Y = sb.Min.Y + (sb.Dy()-ch)/2
		crop.Max.Y = crop.Min.Y + ch
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst, nil
}
