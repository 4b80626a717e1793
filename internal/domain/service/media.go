package service

import (
	"context"
	"io"
)

// FileStorage is the public file store for uploads.
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of key, or "" for an empty key.
	URL(key string) string
}

// ImageOptions bounds the processed image.
type ImageOptions struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// ImageProcessor decodes, resizes and re-encodes uploaded images as JPEG.
type ImageProcessor interface {
	// Process fits the image inside the bounds without upscaling.
	Process(r io.Reader, opts ImageOptions) ([]byte, error)

	// Thumbnail crops the image to a size x size square.
	Thumbnail(r io.Reader, size, quality int) ([]byte, error)
}
