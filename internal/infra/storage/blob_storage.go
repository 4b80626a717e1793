// Package storage keeps uploaded files in a gocloud.dev bucket (file:// or mem://).
package storage

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"ministry/config"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// scheme
	_ "gocloud.dev/blob/memblob"  // mem:// scheme
	"gocloud.dev/gcerrors"
)

// BlobStorage implements service.FileStorage and also opens objects for the /storage route.
type BlobStorage struct {
	bucket  *blob.Bucket
	baseURL string
	logger  *slog.Logger
}

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func New(params Params) (*BlobStorage, error) {
	s, err := Open(params.Ctx, params.Config.Storage, params.Logger)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return s.Close()
		},
	})

	return s, nil
}

// Open opens the configured bucket, creating the directory of a file bucket.
func Open(ctx context.Context, cfg *config.StorageConfig, logger *slog.Logger) (*BlobStorage, error) {
	bucketURL := cfg.BucketURL
	if bucketURL == "" {
		bucketURL = "mem://"
	}

	if u, err := url.Parse(bucketURL); err == nil && u.Scheme == "file" {
		if err := os.MkdirAll(u.Path, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create storage dir %s", u.Path)
		}
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", bucketURL)
	}

	logger.Info("File storage ready", slog.String("bucket", bucketURL))

	return &BlobStorage{
		bucket:  bucket,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:  logger,
	}, nil
}

func (s *BlobStorage) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(domainerrors.ErrStorageFailed, err.Error())
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return errors.Wrap(domainerrors.ErrStorageFailed, err.Error())
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(domainerrors.ErrStorageFailed, err.Error())
	}

	return nil
}

// Delete is a no-op for keys that do not exist.
func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrap(domainerrors.ErrStorageFailed, err.Error())
	}

	return nil
}

func (s *BlobStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}

	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Object is an open stored file.
type Object struct {
	io.ReadCloser
	ContentType string
	Size        int64
}

// Get opens key for reading; a missing key is domainerrors.ErrNotFound.
func (s *BlobStorage) Get(ctx context.Context, key string) (*Object, error) {
	if key == "" || strings.Contains(key, "..") {
		return nil, domainerrors.ErrNotFound
	}

	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(domainerrors.ErrStorageFailed, err.Error())
	}

	return &Object{ReadCloser: r, ContentType: r.ContentType(), Size: r.Size()}, nil
}

func (s *BlobStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)

	return ok, errors.WithStack(err)
}

func (s *BlobStorage) Close() error {
	return errors.WithStack(s.bucket.Close())
}
