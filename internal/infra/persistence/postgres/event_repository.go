package postgres

import (
	"context"

	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository is the constructor for eventRepository.
func NewEventRepository(db *gorm.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	eventM := fromEventDomain(event)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(eventM).Error; err != nil {
		return writeError(err, domainerrors.ErrEventAlreadyExists, nil, "failed to create event")
	}

	event.ID = eventM.ID
	event.CreatedAt = eventM.CreatedAt
	event.UpdatedAt = eventM.UpdatedAt

	return nil
}

func preloadTicketTypes(db *gorm.DB) *gorm.DB {
	return db.Preload("TicketTypes", func(db *gorm.DB) *gorm.DB {
		return db.Order("price, name")
	})
}

func (repo *eventRepository) withTicketTypes(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Scopes(preloadTicketTypes)
}

func (repo *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var eventM model.EventModel
	if err := repo.withTicketTypes(ctx).Where("id = ?", id).First(&eventM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrEventNotFound, "failed to find event")
	}

	return toEventDomain(&eventM), nil
}

func (repo *eventRepository) FindBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	var eventM model.EventModel
	if err := repo.withTicketTypes(ctx).Where("slug = ?", slug).First(&eventM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrEventNotFound, "failed to find event")
	}

	return toEventDomain(&eventM), nil
}

func (repo *eventRepository) List(ctx context.Context, filter repository.EventFilter) (*repository.Page[*entity.Event], error) {
	q := repo.db.WithContext(ctx).Model(&model.EventModel{}).Scopes(searchScope(filter.Search, "title", "venue"))
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	order := "starts_at DESC, id"
	if filter.UpcomingAfter != nil {
		q = q.Where("ends_at >= ?", *filter.UpcomingAfter)
		order = "starts_at, id"
	}

	rows, total, err := findPage[model.EventModel](q, filter.Pagination, order, preloadTicketTypes)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list events")
	}

	return repository.NewPage(mapSlice(rows, toEventDomain), total, filter.Pagination), nil
}

func (repo *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	eventM := fromEventDomain(event)
	result := repo.db.WithContext(ctx).Model(eventM).
		Select("title", "slug", "description", "venue", "starts_at", "ends_at", "image", "status").
		Updates(eventM)
	if result.Error != nil {
		return writeError(result.Error, domainerrors.ErrEventAlreadyExists, nil, "failed to update event")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEventNotFound
	}

	event.UpdatedAt = eventM.UpdatedAt

	return nil
}

func (repo *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Delete(&model.TicketTypeModel{}, "event_id = ?", id).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrEventHasSales
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete ticket types")
	}

	result := db.Delete(&model.EventModel{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrEventHasSales
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete event")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEventNotFound
	}

	return nil
}

func toEventDomain(eventM *model.EventModel) *entity.Event {
	return &entity.Event{
		ID:          eventM.ID,
		Title:       eventM.Title,
		Slug:        eventM.Slug,
		Description: eventM.Description,
		Venue:       eventM.Venue,
		StartsAt:    eventM.StartsAt,
		EndsAt:      eventM.EndsAt,
		Image:       eventM.Image,
		Status:      entity.EventStatus(eventM.Status),
		TicketTypes: mapSlice(eventM.TicketTypes, toTicketTypeDomain),
		CreatedAt:   eventM.CreatedAt,
		UpdatedAt:   eventM.UpdatedAt,
	}
}

func fromEventDomain(event *entity.Event) *model.EventModel {
	return &model.EventModel{
		Base:        model.Base{ID: event.ID, CreatedAt: event.CreatedAt, UpdatedAt: event.UpdatedAt},
		Title:       event.Title,
		Slug:        event.Slug,
		Description: event.Description,
		Venue:       event.Venue,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Image:       event.Image,
		Status:      string(event.Status),
	}
}
