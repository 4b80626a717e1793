package impl

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"time"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/constants"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// contentKind binds a content resource to the generic service.
type contentKind[T, I any] struct {
	name     string
	prefix   string
	notFound error
	validate func(input *I) error
	apply    func(item *T, input *I, now time.Time)
	visible  func(item *T) bool
	image    func(item *T) *string
}

type contentService[T, I any] struct {
	repo   repository.ContentRepository[T]
	kind   contentKind[T, I]
	images imageStore
	logger *slog.Logger
	now    func() time.Time
}

type sluggedContentService[T, I any] struct {
	*contentService[T, I]
	slugged repository.SluggedContentRepository[T]
}

// ContentServiceParams holds the shared dependencies of the content services, injected by Fx.
type ContentServiceParams struct {
	fx.In

	NewsRepo       repository.NewsRepository
	BlogRepo       repository.BlogRepository
	MusicRepo      repository.MusicRepository
	SliderRepo     repository.SliderRepository
	AboutUsRepo    repository.AboutUsRepository
	Storage        service.FileStorage
	ImageProcessor service.ImageProcessor
	Config         *config.Config
	Logger         *slog.Logger
}

func newContentService[T, I any](repo repository.ContentRepository[T], kind contentKind[T, I], params ContentServiceParams) *contentService[T, I] {
	return &contentService[T, I]{
		repo:   repo,
		kind:   kind,
		images: newImageStore(params.Storage, params.ImageProcessor, params.Config),
		logger: params.Logger,
		now:    time.Now,
	}
}

func (srv *contentService[T, I]) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *contentService[T, I]) List(ctx context.Context, filter repository.ContentFilter) (*repository.Page[*T], error) {
	return srv.repo.List(ctx, filter)
}

func (srv *contentService[T, I]) Get(ctx context.Context, id uuid.UUID, publishedOnly bool) (*T, error) {
	item, err := srv.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return srv.visible(item, publishedOnly)
}

func (srv *contentService[T, I]) visible(item *T, publishedOnly bool) (*T, error) {
	if publishedOnly && !srv.kind.visible(item) {
		return nil, srv.kind.notFound
	}

	return item, nil
}

func (srv *contentService[T, I]) Create(ctx context.Context, input *I) (*T, error) {
	if err := srv.kind.validate(input); err != nil {
		return nil, err
	}

	item := new(T)
	srv.kind.apply(item, input, srv.now())
	if err := srv.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Content created", slog.String("kind", srv.kind.name))

	return item, nil
}

func (srv *contentService[T, I]) Update(ctx context.Context, id uuid.UUID, input *I) (*T, error) {
	if err := srv.kind.validate(input); err != nil {
		return nil, err
	}

	item, err := srv.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	srv.kind.apply(item, input, srv.now())
	if err := srv.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (srv *contentService[T, I]) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := srv.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := srv.repo.Delete(ctx, id); err != nil {
		return err
	}

	srv.images.remove(ctx, *srv.kind.image(item))
	srv.log(ctx).Info("Content deleted", slog.String("kind", srv.kind.name), slog.Any("id", id))

	return nil
}

func (srv *contentService[T, I]) UploadImage(ctx context.Context, id uuid.UUID, file usecase.Upload) (*T, error) {
	item, err := srv.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	image := srv.kind.image(item)
	key, err := srv.images.save(ctx, srv.kind.prefix, file)
	if err != nil {
		return nil, err
	}

	old := *image
	*image = key
	if err := srv.repo.Update(ctx, item); err != nil {
		srv.images.remove(ctx, key)

		return nil, err
	}
	srv.images.remove(ctx, old)

	return item, nil
}

func (srv *sluggedContentService[T, I]) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*T, error) {
	item, err := srv.slugged.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return srv.visible(item, publishedOnly)
}

// --- News and blog ---

func validateArticleInput(input *usecase.ArticleInput) error {
	verr := domainerrors.NewValidationError(nil)
	if strings.TrimSpace(input.Title) == "" {
		verr.Add("title", "The title field is required.")
	}
	if strings.TrimSpace(input.Body) == "" {
		verr.Add("body", "The body field is required.")
	}
	if verr.HasErrors() {
		return verr
	}

	return nil
}

// publishedAt keeps the first publish time unless the input sets one.
func publishedAt(current *time.Time, input *usecase.ArticleInput, now time.Time) *time.Time {
	if input.PublishedAt != nil {
		return input.PublishedAt
	}
	if input.IsPublished && current == nil {
		return &now
	}

	return current
}

// NewNewsService creates a new news service instance
func NewNewsService(params ContentServiceParams) usecase.NewsUsecase {
	kind := contentKind[entity.News, usecase.ArticleInput]{
		name:     "news",
		prefix:   constants.StorageNews,
		notFound: domainerrors.ErrNewsNotFound,
		validate: validateArticleInput,
		apply: func(n *entity.News, input *usecase.ArticleInput, now time.Time) {
			n.Title = strings.TrimSpace(input.Title)
			n.Slug = slugOr(input.Slug, input.Title)
			n.Excerpt = input.Excerpt
			n.Body = input.Body
			n.AuthorID = input.AuthorID
			n.IsPublished = input.IsPublished
			n.PublishedAt = publishedAt(n.PublishedAt, input, now)
		},
		visible: func(n *entity.News) bool { return n.IsPublished },
		image:   func(n *entity.News) *string { return &n.Image },
	}

	return &sluggedContentService[entity.News, usecase.ArticleInput]{
		contentService: newContentService[entity.News, usecase.ArticleInput](params.NewsRepo, kind, params),
		slugged:        params.NewsRepo,
	}
}

// NewBlogService creates a new blog service instance
func NewBlogService(params ContentServiceParams) usecase.BlogUsecase {
	kind := contentKind[entity.Blog, usecase.ArticleInput]{
		name:     "blog",
		prefix:   constants.StorageBlogs,
		notFound: domainerrors.ErrBlogNotFound,
		validate: validateArticleInput,
		apply: func(b *entity.Blog, input *usecase.ArticleInput, now time.Time) {
			b.Title = strings.TrimSpace(input.Title)
			b.Slug = slugOr(input.Slug, input.Title)
			b.Excerpt = input.Excerpt
			b.Body = input.Body
			b.AuthorID = input.AuthorID
			b.IsPublished = input.IsPublished
			b.PublishedAt = publishedAt(b.PublishedAt, input, now)
		},
		visible: func(b *entity.Blog) bool { return b.IsPublished },
		image:   func(b *entity.Blog) *string { return &b.Image },
	}

	return &sluggedContentService[entity.Blog, usecase.ArticleInput]{
		contentService: newContentService[entity.Blog, usecase.ArticleInput](params.BlogRepo, kind, params),
		slugged:        params.BlogRepo,
	}
}

// --- Sliders ---

// NewSliderService creates a new slider service instance
func NewSliderService(params ContentServiceParams) usecase.SliderUsecase {
	return newContentService(params.SliderRepo, contentKind[entity.HomeSlider, usecase.SliderInput]{
		name:     "slider",
		prefix:   constants.StorageSliders,
		notFound: domainerrors.ErrSliderNotFound,
		validate: func(input *usecase.SliderInput) error {
			if strings.TrimSpace(input.Title) == "" {
				return domainerrors.NewFieldError("title", "The title field is required.")
			}

			return nil
		},
		apply: func(s *entity.HomeSlider, input *usecase.SliderInput, _ time.Time) {
			s.Title = strings.TrimSpace(input.Title)
			s.Subtitle = input.Subtitle
			s.LinkURL = strings.TrimSpace(input.LinkURL)
			s.SortOrder = input.SortOrder
			s.IsActive = input.IsActive
		},
		visible: func(s *entity.HomeSlider) bool { return s.IsActive },
		image:   func(s *entity.HomeSlider) *string { return &s.Image },
	}, params)
}

// --- Music ---

var audioContentTypes = map[string]string{
	"mp3": "audio/mpeg",
	"wav": "audio/wav",
	"m4a": "audio/mp4",
	"ogg": "audio/ogg",
	"aac": "audio/aac",
}

type musicService struct {
	*contentService[entity.Music, usecase.MusicInput]
	storage service.FileStorage
}

// NewMusicService creates a new music service instance
func NewMusicService(params ContentServiceParams) usecase.MusicUsecase {
	kind := contentKind[entity.Music, usecase.MusicInput]{
		name:     "music",
		prefix:   constants.StorageMusicCovers,
		notFound: domainerrors.ErrMusicNotFound,
		validate: func(input *usecase.MusicInput) error {
			verr := domainerrors.NewValidationError(nil)
			if strings.TrimSpace(input.Title) == "" {
				verr.Add("title", "The title field is required.")
			}
			if input.DurationSeconds < 0 {
				verr.Add("duration_seconds", "The duration must not be negative.")
			}
			if verr.HasErrors() {
				return verr
			}

			return nil
		},
		apply: func(m *entity.Music, input *usecase.MusicInput, _ time.Time) {
			m.Title = strings.TrimSpace(input.Title)
			m.Artist = strings.TrimSpace(input.Artist)
			m.Album = strings.TrimSpace(input.Album)
			m.DurationSeconds = input.DurationSeconds
			m.IsPublished = input.IsPublished
		},
		visible: func(m *entity.Music) bool { return m.IsPublished },
		image:   func(m *entity.Music) *string { return &m.CoverImage },
	}

	return &musicService{
		contentService: newContentService(params.MusicRepo, kind, params),
		storage:        params.Storage,
	}
}

// Delete also removes the audio file.
func (srv *musicService) Delete(ctx context.Context, id uuid.UUID) error {
	track, err := srv.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := srv.contentService.Delete(ctx, id); err != nil {
		return err
	}
	srv.images.remove(ctx, track.AudioPath)

	return nil
}

func (srv *musicService) UploadAudio(ctx context.Context, id uuid.UUID, file usecase.Upload) (*entity.Music, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(file.Filename), "."))
	contentType, ok := audioContentTypes[ext]
	if !ok {
		return nil, domainerrors.ErrInvalidFileType.WithDetails("allowed: mp3, wav, m4a, ogg, aac")
	}

	track, err := srv.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := path.Join(constants.StorageMusicAudio, uuid.NewString()+"."+ext)
	if err := srv.storage.Put(ctx, key, file.Body, contentType); err != nil {
		return nil, errors.Wrap(domainerrors.ErrStorageFailed.WithDetails(key), err.Error())
	}

	old := track.AudioPath
	track.AudioPath = key
	if err := srv.repo.Update(ctx, track); err != nil {
		srv.images.remove(ctx, key)

		return nil, err
	}
	srv.images.remove(ctx, old)

	srv.log(ctx).Info("Music audio uploaded", slog.Any("musicID", id), slog.String("key", key))

	return track, nil
}

// --- About us ---

type aboutUsService struct {
	repo   repository.AboutUsRepository
	images imageStore
}

// NewAboutUsService creates a new about us service instance
func NewAboutUsService(params ContentServiceParams) usecase.AboutUsUsecase {
	return &aboutUsService{
		repo:   params.AboutUsRepo,
		images: newImageStore(params.Storage, params.ImageProcessor, params.Config),
	}
}

func (srv *aboutUsService) Get(ctx context.Context) (*entity.AboutUs, error) {
	return srv.repo.Get(ctx)
}

func (srv *aboutUsService) current(ctx context.Context) (*entity.AboutUs, error) {
	about, err := srv.repo.Get(ctx)
	if errors.Is(err, domainerrors.ErrAboutUsNotFound) {
		return &entity.AboutUs{}, nil
	}

	return about, err
}

func (srv *aboutUsService) Save(ctx context.Context, input *usecase.AboutUsInput) (*entity.AboutUs, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domainerrors.NewFieldError("title", "The title field is required.")
	}

	about, err := srv.current(ctx)
	if err != nil {
		return nil, err
	}

	about.Title = strings.TrimSpace(input.Title)
	about.Body = input.Body
	about.Mission = input.Mission
	about.Vision = input.Vision
	if err := srv.repo.Save(ctx, about); err != nil {
		return nil, err
	}

	return about, nil
}

func (srv *aboutUsService) UploadImage(ctx context.Context, file usecase.Upload) (*entity.AboutUs, error) {
	about, err := srv.current(ctx)
	if err != nil {
		return nil, err
	}

	key, err := srv.images.save(ctx, constants.StorageAboutUs, file)
	if err != nil {
		return nil, err
	}

	old := about.Image
	about.Image = key
	if err := srv.repo.Save(ctx, about); err != nil {
		srv.images.remove(ctx, key)

		return nil, err
	}
	srv.images.remove(ctx, old)

	return about, nil
}
