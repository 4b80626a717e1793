// Package impl contains the implementation of the application's business logic.
package impl

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"path"
	"strings"
	"time"
	"unicode"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomString draws n characters from alphabet with crypto/rand.
func randomString(n int, alphabet string) string {
	var b strings.Builder
	b.Grow(n)
	limit := big.NewInt(int64(len(alphabet)))
	for range n {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		b.WriteByte(alphabet[idx.Int64()])
	}

	return b.String()
}

// newReference builds a prefixed reference such as TXN-20260101-K3J9QX.
func newReference(prefix string, now time.Time) string {
	return prefix + "-" + now.UTC().Format("20060102") + "-" + randomString(6, referenceAlphabet)
}

func newOTP(length int) string {
	return randomString(length, "0123456789")
}

// hashSecret is the stored form of OTPs and refresh tokens.
func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))

	return hex.EncodeToString(sum[:])
}

// slugify lowercases s and joins its letter and digit runs with dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}

	return b.String()
}

// slugOr returns the slugified explicit slug, or the slug of fallback when none is given.
func slugOr(slug, fallback string) string {
	if s := slugify(slug); s != "" {
		return s
	}

	return slugify(fallback)
}

// imageStore runs uploads through the image pipeline before storing them as JPEG.
type imageStore struct {
	storage   service.FileStorage
	processor service.ImageProcessor
	opts      service.ImageOptions
}

func newImageStore(storage service.FileStorage, processor service.ImageProcessor, cfg *config.Config) imageStore {
	opts := service.ImageOptions{MaxWidth: 1200, MaxHeight: 1200, Quality: 85}
	if cfg != nil && cfg.Image != nil {
		if cfg.Image.MaxWidth > 0 {
			opts.MaxWidth = cfg.Image.MaxWidth
		}
		if cfg.Image.MaxHeight > 0 {
			opts.MaxHeight = cfg.Image.MaxHeight
		}
		if cfg.Image.JPEGQuality > 0 {
			opts.Quality = cfg.Image.JPEGQuality
		}
	}

	return imageStore{storage: storage, processor: processor, opts: opts}
}

// save processes file and writes it to {prefix}/{uuid}.jpg, returning the key.
func (s imageStore) save(ctx context.Context, prefix string, file usecase.Upload) (string, error) {
	data, err := s.processor.Process(file.Body, s.opts)
	if err != nil {
		return "", err
	}

	key := path.Join(prefix, uuid.NewString()+".jpg")
	if err := s.storage.Put(ctx, key, bytes.NewReader(data), "image/jpeg"); err != nil {
		return "", errors.Wrap(domainerrors.ErrStorageFailed.WithDetails(key), err.Error())
	}

	return key, nil
}

// replace stores file and removes old, which may be empty.
func (s imageStore) replace(ctx context.Context, prefix, old string, file usecase.Upload) (string, error) {
	key, err := s.save(ctx, prefix, file)
	if err != nil {
		return "", err
	}
	s.remove(ctx, old)

	return key, nil
}

// remove deletes key. Failures are ignored.
func (s imageStore) remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	_ = s.storage.Delete(ctx, key)
}

const defaultLowStockThreshold = 5

func lowStockThreshold(cfg *config.Config) int {
	if cfg != nil && cfg.Shop != nil && cfg.Shop.LowStockThreshold > 0 {
		return cfg.Shop.LowStockThreshold
	}

	return defaultLowStockThreshold
}

func ptr[T any](v T) *T {
	return &v
}
