package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contentTable describes how one content resource maps onto its table.
type contentTable[E, M any] struct {
	name            string
	notFound        error
	publishedColumn string
	searchColumns   []string
	order           string
	updateColumns   []string
	toDomain        func(*M) *E
	fromDomain      func(*E) *M
}

type contentRepository[E, M any] struct {
	db    *gorm.DB
	table contentTable[E, M]
}

type sluggedContentRepository[E, M any] struct {
	contentRepository[E, M]
}

func (repo *contentRepository[E, M]) Create(ctx context.Context, item *E) error {
	m := repo.table.fromDomain(item)
	if err := repo.db.WithContext(ctx).Create(m).Error; err != nil {
		return writeError(err, domainerrors.ErrSlugAlreadyExists, nil, "failed to create "+repo.table.name)
	}

	*item = *repo.table.toDomain(m)

	return nil
}

func (repo *contentRepository[E, M]) FindByID(ctx context.Context, id uuid.UUID) (*E, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *contentRepository[E, M]) findOne(ctx context.Context, cond string, args ...any) (*E, error) {
	var m M
	if err := repo.db.WithContext(ctx).Where(cond, args...).First(&m).Error; err != nil {
		return nil, readError(err, repo.table.notFound, "failed to find "+repo.table.name)
	}

	return repo.table.toDomain(&m), nil
}

func (repo *contentRepository[E, M]) List(ctx context.Context, filter repository.ContentFilter) (*repository.Page[*E], error) {
	q := repo.db.WithContext(ctx).Model(new(M)).Scopes(searchScope(filter.Search, repo.table.searchColumns...))
	if filter.PublishedOnly && repo.table.publishedColumn != "" {
		q = q.Where(repo.table.publishedColumn+" = ?", true)
	}

	rows, total, err := findPage[M](q, filter.Pagination, repo.table.order)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list "+repo.table.name)
	}

	return repository.NewPage(mapSlice(rows, repo.table.toDomain), total, filter.Pagination), nil
}

func (repo *contentRepository[E, M]) Update(ctx context.Context, item *E) error {
	m := repo.table.fromDomain(item)
	result := repo.db.WithContext(ctx).Model(m).Select(repo.table.updateColumns).Updates(m)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrSlugAlreadyExists, nil, "failed to update "+repo.table.name)
	}
	if result.RowsAffected == 0 {
		return repo.table.notFound
	}

	*item = *repo.table.toDomain(m)

	return nil
}

func (repo *contentRepository[E, M]) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(new(M), "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete "+repo.table.name)
	}
	if result.RowsAffected == 0 {
		return repo.table.notFound
	}

	return nil
}

func (repo *sluggedContentRepository[E, M]) FindBySlug(ctx context.Context, slug string) (*E, error) {
	return repo.findOne(ctx, "slug = ?", slug)
}

var articleColumns = []string{"title", "slug", "excerpt", "body", "image", "author_id", "is_published", "published_at"}

// NewNewsRepository is the constructor for the news repository.
func NewNewsRepository(db *gorm.DB) repository.NewsRepository {
	return &sluggedContentRepository[entity.News, model.NewsModel]{contentRepository[entity.News, model.NewsModel]{
		db: db,
		table: contentTable[entity.News, model.NewsModel]{
			name:            "news",
			notFound:        domainerrors.ErrNewsNotFound,
			publishedColumn: "is_published",
			searchColumns:   []string{"title", "excerpt"},
			order:           "published_at DESC, created_at DESC, id",
			updateColumns:   articleColumns,
			toDomain:        toNewsDomain,
			fromDomain:      fromNewsDomain,
		},
	}}
}

// NewBlogRepository is the constructor for the blog repository.
func NewBlogRepository(db *gorm.DB) repository.BlogRepository {
	return &sluggedContentRepository[entity.Blog, model.BlogModel]{contentRepository[entity.Blog, model.BlogModel]{
		db: db,
		table: contentTable[entity.Blog, model.BlogModel]{
			name:            "blog",
			notFound:        domainerrors.ErrBlogNotFound,
			publishedColumn: "is_published",
			searchColumns:   []string{"title", "excerpt"},
			order:           "published_at DESC, created_at DESC, id",
			updateColumns:   articleColumns,
			toDomain:        toBlogDomain,
			fromDomain:      fromBlogDomain,
		},
	}}
}

// NewMusicRepository is the constructor for the music repository.
func NewMusicRepository(db *gorm.DB) repository.MusicRepository {
	return &contentRepository[entity.Music, model.MusicModel]{
		db: db,
		table: contentTable[entity.Music, model.MusicModel]{
			name:            "music",
			notFound:        domainerrors.ErrMusicNotFound,
			publishedColumn: "is_published",
			searchColumns:   []string{"title", "artist", "album"},
			order:           "created_at DESC, id",
			updateColumns:   []string{"title", "artist", "album", "duration_seconds", "audio_path", "cover_image", "is_published"},
			toDomain:        toMusicDomain,
			fromDomain:      fromMusicDomain,
		},
	}
}

// NewSliderRepository is the constructor for the home slider repository.
func NewSliderRepository(db *gorm.DB) repository.SliderRepository {
	return &contentRepository[entity.HomeSlider, model.HomeSliderModel]{
		db: db,
		table: contentTable[entity.HomeSlider, model.HomeSliderModel]{
			name:            "slider",
			notFound:        domainerrors.ErrSliderNotFound,
			publishedColumn: "is_active",
			searchColumns:   []string{"title"},
			order:           "sort_order, created_at, id",
			updateColumns:   []string{"title", "subtitle", "image", "link_url", "sort_order", "is_active"},
			toDomain:        toSliderDomain,
			fromDomain:      fromSliderDomain,
		},
	}
}

func toNewsDomain(m *model.NewsModel) *entity.News {
	return &entity.News{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Excerpt:     m.Excerpt,
		Body:        m.Body,
		Image:       m.Image,
		AuthorID:    m.AuthorID,
		IsPublished: m.IsPublished,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromNewsDomain(e *entity.News) *model.NewsModel {
	return &model.NewsModel{
		Base:        model.Base{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt},
		Title:       e.Title,
		Slug:        e.Slug,
		Excerpt:     e.Excerpt,
		Body:        e.Body,
		Image:       e.Image,
		AuthorID:    e.AuthorID,
		IsPublished: e.IsPublished,
		PublishedAt: e.PublishedAt,
	}
}

func toBlogDomain(m *model.BlogModel) *entity.Blog {
	return &entity.Blog{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Excerpt:     m.Excerpt,
		Body:        m.Body,
		Image:       m.Image,
		AuthorID:    m.AuthorID,
		IsPublished: m.IsPublished,
		PublishedAt: m.PublishedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func fromBlogDomain(e *entity.Blog) *model.BlogModel {
	return &model.BlogModel{
		Base:        model.Base{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt},
		Title:       e.Title,
		Slug:        e.Slug,
		Excerpt:     e.Excerpt,
		Body:        e.Body,
		Image:       e.Image,
		AuthorID:    e.AuthorID,
		IsPublished: e.IsPublished,
		PublishedAt: e.PublishedAt,
	}
}

func toMusicDomain(m *model.MusicModel) *entity.Music {
	return &entity.Music{
		ID:              m.ID,
		Title:           m.Title,
		Artist:          m.Artist,
		Album:           m.Album,
		DurationSeconds: m.DurationSeconds,
		AudioPath:       m.AudioPath,
		CoverImage:      m.CoverImage,
		IsPublished:     m.IsPublished,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromMusicDomain(e *entity.Music) *model.MusicModel {
	return &model.MusicModel{
		Base:            model.Base{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt},
		Title:           e.Title,
		Artist:          e.Artist,
		Album:           e.Album,
		DurationSeconds: e.DurationSeconds,
		AudioPath:       e.AudioPath,
		CoverImage:      e.CoverImage,
		IsPublished:     e.IsPublished,
	}
}

func toSliderDomain(m *model.HomeSliderModel) *entity.HomeSlider {
	return &entity.HomeSlider{
		ID:        m.ID,
		Title:     m.Title,
		Subtitle:  m.Subtitle,
		Image:     m.Image,
		LinkURL:   m.LinkURL,
		SortOrder: m.SortOrder,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromSliderDomain(e *entity.HomeSlider) *model.HomeSliderModel {
	return &model.HomeSliderModel{
		Base:      model.Base{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt},
		Title:     e.Title,
		Subtitle:  e.Subtitle,
		Image:     e.Image,
		LinkURL:   e.LinkURL,
		SortOrder: e.SortOrder,
		IsActive:  e.IsActive,
	}
}
