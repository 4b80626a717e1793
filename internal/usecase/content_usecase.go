package usecase

import (
	"context"
	"time"

	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"

	"github.com/google/uuid"
)

// ArticleInput is shared by news and blog posts. PublishedAt defaults to now on first publish.
type ArticleInput struct {
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	AuthorID    *uuid.UUID
	IsPublished bool
	PublishedAt *time.Time
}

type MusicInput struct {
	Title           string
	Artist          string
	Album           string
	DurationSeconds int
	IsPublished     bool
}

type SliderInput struct {
	Title     string
	Subtitle  string
	LinkURL   string
	SortOrder int
	IsActive  bool
}

// ContentUsecase is the CRUD contract of a content resource T written from input I.
type ContentUsecase[T, I any] interface {
	List(ctx context.Context, filter repository.ContentFilter) (*repository.Page[*T], error)

	// Get hides drafts and inactive records when publishedOnly is set.
	Get(ctx context.Context, id uuid.UUID, publishedOnly bool) (*T, error)
	Create(ctx context.Context, input *I) (*T, error)
	Update(ctx context.Context, id uuid.UUID, input *I) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UploadImage replaces the record's image with a processed upload.
	UploadImage(ctx context.Context, id uuid.UUID, file Upload) (*T, error)
}

// SluggedContentUsecase adds public lookup by slug.
type SluggedContentUsecase[T, I any] interface {
	ContentUsecase[T, I]
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*T, error)
}

type (
	NewsUsecase   = SluggedContentUsecase[entity.News, ArticleInput]
	BlogUsecase   = SluggedContentUsecase[entity.Blog, ArticleInput]
	SliderUsecase = ContentUsecase[entity.HomeSlider, SliderInput]
)

// MusicUsecase adds the audio upload to the music CRUD.
type MusicUsecase interface {
	ContentUsecase[entity.Music, MusicInput]

	// UploadAudio accepts mp3, wav, m4a, ogg and aac files.
	UploadAudio(ctx context.Context, id uuid.UUID, file Upload) (*entity.Music, error)
}

type AboutUsInput struct {
	Title   string
	Body    string
	Mission string
	Vision  string
}

// AboutUsUsecase manages the single about page.
type AboutUsUsecase interface {
	Get(ctx context.Context) (*entity.AboutUs, error)
	Save(ctx context.Context, input *AboutUsInput) (*entity.AboutUs, error)
	UploadImage(ctx context.Context, file Upload) (*entity.AboutUs, error)
}

type ContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type UserMessageInput struct {
	Subject string
	Body    string
}

// MessageUsecase handles contact submissions and member messages.
type MessageUsecase interface {
	SubmitContact(ctx context.Context, input *ContactInput) (*entity.ContactMessage, error)
	ListContacts(ctx context.Context, filter repository.MessageFilter) (*repository.Page[*entity.ContactMessage], error)
	MarkContactRead(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error

	Send(ctx context.Context, userID uuid.UUID, input *UserMessageInput) (*entity.UserMessage, error)
	ListMine(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.UserMessage], error)
	List(ctx context.Context, filter repository.MessageFilter) (*repository.Page[*entity.UserMessage], error)

	// Reply stores the answer and emails it to the member.
	Reply(ctx context.Context, actorID, messageID uuid.UUID, reply string) (*entity.UserMessage, error)
}
