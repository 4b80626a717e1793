// Package imageproc resizes uploads with disintegration/imaging and re-encodes them as JPEG.
package imageproc

import (
	"bytes"
	"image"
	"io"

	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/disintegration/imaging"
)

const defaultQuality = 85

type processor struct{}

func NewImageProcessor() service.ImageProcessor {
	return processor{}
}

func (processor) Process(r io.Reader, opts service.ImageOptions) ([]byte, error) {
	img, err := decode(r)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if (opts.MaxWidth > 0 && bounds.Dx() > opts.MaxWidth) || (opts.MaxHeight > 0 && bounds.Dy() > opts.MaxHeight) {
		maxW, maxH := opts.MaxWidth, opts.MaxHeight
		if maxW <= 0 {
			maxW = bounds.Dx()
		}
		if maxH <= 0 {
			maxH = bounds.Dy()
		}
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	return encode(img, opts.Quality)
}

func (processor) Thumbnail(r io.Reader, size, quality int) ([]byte, error) {
	img, err := decode(r)
	if err != nil {
		return nil, err
	}

	return encode(imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos), quality)
}

func decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidImage, err.Error())
	}

	return img, nil
}

func encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, errors.Wrap(err, "encode jpeg")
	}

	return buf.Bytes(), nil
}
