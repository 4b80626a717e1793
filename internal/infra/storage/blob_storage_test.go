package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStorage(t *testing.T, bucketURL string) *BlobStorage {
	t.Helper()
	s, err := Open(context.Background(), &config.StorageConfig{BucketURL: bucketURL, PublicBaseURL: "http://localhost:8080/storage/"}, newDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestPutGetDelete(t *testing.T) {
	for name, bucketURL := range map[string]string{
		"mem":  "mem://",
		"file": "file://" + filepath.ToSlash(filepath.Join(t.TempDir(), "uploads")),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := openTestStorage(t, bucketURL)
			key := "products/p1/photo.jpg"

			require.NoError(t, s.Put(ctx, key, strings.NewReader("jpeg-bytes"), "image/jpeg"))

			obj, err := s.Get(ctx, key)
			require.NoError(t, err)
			data, err := io.ReadAll(obj)
			require.NoError(t, err)
			require.NoError(t, obj.Close())
			assert.Equal(t, "jpeg-bytes", string(data))
			assert.Equal(t, "image/jpeg", obj.ContentType)

			require.NoError(t, s.Delete(ctx, key))
			exists, err := s.Exists(ctx, key)
			require.NoError(t, err)
			assert.False(t, exists)

			// deleting again is fine
			require.NoError(t, s.Delete(ctx, key))
		})
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStorage(t, "mem://")

	_, err := s.Get(context.Background(), "nope.jpg")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))

	_, err = s.Get(context.Background(), "../etc/passwd")
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestURL(t *testing.T) {
	s := openTestStorage(t, "mem://")

	assert.Equal(t, "", s.URL(""))
	assert.Equal(t, "http://localhost:8080/storage/profile-pictures/u/a.jpg", s.URL("profile-pictures/u/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/x.jpg", s.URL("https://cdn.example.com/x.jpg"))
}
