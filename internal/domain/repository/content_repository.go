package repository

import (
	"context"

	"ministry/internal/domain/entity"

	"github.com/google/uuid"
)

// ContentFilter narrows content lists. PublishedOnly keeps published or active records.
type ContentFilter struct {
	Search        string
	PublishedOnly bool
	Pagination
}

// ContentRepository is the CRUD contract shared by the content resources.
type ContentRepository[T any] interface {
	Create(ctx context.Context, item *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, filter ContentFilter) (*Page[*T], error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SluggedContentRepository adds slug lookup for content addressed by slug.
type SluggedContentRepository[T any] interface {
	ContentRepository[T]
	FindBySlug(ctx context.Context, slug string) (*T, error)
}

type (
	NewsRepository   = SluggedContentRepository[entity.News]
	BlogRepository   = SluggedContentRepository[entity.Blog]
	MusicRepository  = ContentRepository[entity.Music]
	SliderRepository = ContentRepository[entity.HomeSlider]
)

// AboutUsRepository stores the single about page record.
type AboutUsRepository interface {
	// Get returns domainerrors.ErrAboutUsNotFound on an empty table.
	Get(ctx context.Context) (*entity.AboutUs, error)

	// Save inserts the record or updates the existing one.
	Save(ctx context.Context, about *entity.AboutUs) error
}

// MessageFilter narrows message lists.
type MessageFilter struct {
	UserID *uuid.UUID
	Unread bool
	Pagination
}

// ContactMessageRepository stores public contact submissions.
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error)
	List(ctx context.Context, filter MessageFilter) (*Page[*entity.ContactMessage], error)
	Update(ctx context.Context, msg *entity.ContactMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserMessageRepository stores member messages and replies.
type UserMessageRepository interface {
	Create(ctx context.Context, msg *entity.UserMessage) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserMessage, error)
	List(ctx context.Context, filter MessageFilter) (*Page[*entity.UserMessage], error)
	Update(ctx context.Context, msg *entity.UserMessage) error
}
