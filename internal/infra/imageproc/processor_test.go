package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) *bytes.Reader {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})

	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	return bytes.NewReader(buf.Bytes())
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	return img
}

func TestProcessFitsInsideBounds(t *testing.T) {
	out, err := NewImageProcessor().Process(pngFixture(t, 2400, 1200), service.ImageOptions{MaxWidth: 1200, MaxHeight: 1200, Quality: 80})
	require.NoError(t, err)

	bounds := decodeJPEG(t, out).Bounds()
	assert.Equal(t, 1200, bounds.Dx())
	assert.Equal(t, 600, bounds.Dy())
}

func TestProcessDoesNotUpscale(t *testing.T) {
	out, err := NewImageProcessor().Process(pngFixture(t, 300, 200), service.ImageOptions{MaxWidth: 1200, MaxHeight: 1200})
	require.NoError(t, err)

	bounds := decodeJPEG(t, out).Bounds()
	assert.Equal(t, 300, bounds.Dx())
	assert.Equal(t, 200, bounds.Dy())
}

func TestThumbnailIsSquare(t *testing.T) {
	out, err := NewImageProcessor().Thumbnail(pngFixture(t, 800, 400), 150, 0)
	require.NoError(t, err)

	bounds := decodeJPEG(t, out).Bounds()
	assert.Equal(t, 150, bounds.Dx())
	assert.Equal(t, 150, bounds.Dy())
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := NewImageProcessor().Process(strings.NewReader("not an image"), service.ImageOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidImage))
}
