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

type contactMessageRepository struct {
	db *gorm.DB
}

// NewContactMessageRepository is the constructor for contactMessageRepository.
func NewContactMessageRepository(db *gorm.DB) repository.ContactMessageRepository {
	return &contactMessageRepository{db: db}
}

func (repo *contactMessageRepository) Create(ctx context.Context, msg *entity.ContactMessage) error {
	msgM := fromContactMessageDomain(msg)
	if err := repo.db.WithContext(ctx).Create(msgM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create contact message")
	}

	*msg = *toContactMessageDomain(msgM)

	return nil
}

func (repo *contactMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	var msgM model.ContactMessageModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&msgM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrContactMessageNotFound, "failed to find contact message")
	}

	return toContactMessageDomain(&msgM), nil
}

func (repo *contactMessageRepository) List(ctx context.Context, filter repository.MessageFilter) (*repository.Page[*entity.ContactMessage], error) {
	q := repo.db.WithContext(ctx).Model(&model.ContactMessageModel{})
	if filter.Unread {
		q = q.Where("is_read = ?", false)
	}

	rows, total, err := findPage[model.ContactMessageModel](q, filter.Pagination, "created_at DESC, id")
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list contact messages")
	}

	return repository.NewPage(mapSlice(rows, toContactMessageDomain), total, filter.Pagination), nil
}

func (repo *contactMessageRepository) Update(ctx context.Context, msg *entity.ContactMessage) error {
	msgM := fromContactMessageDomain(msg)
	result := repo.db.WithContext(ctx).Model(msgM).Select("is_read", "read_at").Updates(msgM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update contact message")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContactMessageNotFound
	}

	msg.UpdatedAt = msgM.UpdatedAt

	return nil
}

func (repo *contactMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.ContactMessageModel{}, "id = ?", id)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete contact message")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContactMessageNotFound
	}

	return nil
}

type userMessageRepository struct {
	db *gorm.DB
}

// NewUserMessageRepository is the constructor for userMessageRepository.
func NewUserMessageRepository(db *gorm.DB) repository.UserMessageRepository {
	return &userMessageRepository{db: db}
}

func (repo *userMessageRepository) Create(ctx context.Context, msg *entity.UserMessage) error {
	msgM := fromUserMessageDomain(msg)
	if err := repo.db.WithContext(ctx).Create(msgM).Error; err != nil {
		return writeError(err, nil, domainerrors.ErrUserNotFound, "failed to create user message")
	}

	*msg = *toUserMessageDomain(msgM)

	return nil
}

func (repo *userMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserMessage, error) {
	var msgM model.UserMessageModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&msgM).Error; err != nil {
		return nil, readError(err, domainerrors.ErrUserMessageNotFound, "failed to find user message")
	}

	return toUserMessageDomain(&msgM), nil
}

// List treats messages without a reply as unread.
func (repo *userMessageRepository) List(ctx context.Context, filter repository.MessageFilter) (*repository.Page[*entity.UserMessage], error) {
	q := repo.db.WithContext(ctx).Model(&model.UserMessageModel{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Unread {
		q = q.Where("replied_at IS NULL")
	}

	rows, total, err := findPage[model.UserMessageModel](q, filter.Pagination, "created_at DESC, id")
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list user messages")
	}

	return repository.NewPage(mapSlice(rows, toUserMessageDomain), total, filter.Pagination), nil
}

func (repo *userMessageRepository) Update(ctx context.Context, msg *entity.UserMessage) error {
	msgM := fromUserMessageDomain(msg)
	result := repo.db.WithContext(ctx).Model(msgM).Select("reply", "replied_at", "replied_by").Updates(msgM)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user message")
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserMessageNotFound
	}

	msg.UpdatedAt = msgM.UpdatedAt

	return nil
}

func toContactMessageDomain(msgM *model.ContactMessageModel) *entity.ContactMessage {
	return &entity.ContactMessage{
		ID:        msgM.ID,
		Name:      msgM.Name,
		Email:     msgM.Email,
		Phone:     msgM.Phone,
		Subject:   msgM.Subject,
		Message:   msgM.Message,
		IsRead:    msgM.IsRead,
		ReadAt:    msgM.ReadAt,
		CreatedAt: msgM.CreatedAt,
		UpdatedAt: msgM.UpdatedAt,
	}
}

func fromContactMessageDomain(msg *entity.ContactMessage) *model.ContactMessageModel {
	return &model.ContactMessageModel{
		Base:    model.Base{ID: msg.ID, CreatedAt: msg.CreatedAt, UpdatedAt: msg.UpdatedAt},
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
		Message: msg.Message,
		IsRead:  msg.IsRead,
		ReadAt:  msg.ReadAt,
	}
}

func toUserMessageDomain(msgM *model.UserMessageModel) *entity.UserMessage {
	return &entity.UserMessage{
		ID:        msgM.ID,
		UserID:    msgM.UserID,
		Subject:   msgM.Subject,
		Body:      msgM.Body,
		Reply:     msgM.Reply,
		RepliedAt: msgM.RepliedAt,
		RepliedBy: msgM.RepliedBy,
		CreatedAt: msgM.CreatedAt,
		UpdatedAt: msgM.UpdatedAt,
	}
}

func fromUserMessageDomain(msg *entity.UserMessage) *model.UserMessageModel {
	return &model.UserMessageModel{
		Base:      model.Base{ID: msg.ID, CreatedAt: msg.CreatedAt, UpdatedAt: msg.UpdatedAt},
		UserID:    msg.UserID,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Reply:     msg.Reply,
		RepliedAt: msg.RepliedAt,
		RepliedBy: msg.RepliedBy,
	}
}
