package impl

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/domain/service"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type messageService struct {
	contactRepo repository.ContactMessageRepository
	messageRepo repository.UserMessageRepository
	userRepo    repository.UserRepository
	notifier    usecase.NotificationUsecase
	logger      *slog.Logger
	now         func() time.Time
}

// MessageServiceParams holds dependencies for MessageService, injected by Fx.
type MessageServiceParams struct {
	fx.In

	ContactRepo repository.ContactMessageRepository
	MessageRepo repository.UserMessageRepository
	UserRepo    repository.UserRepository
	Notifier    usecase.NotificationUsecase
	Logger      *slog.Logger
}

// NewMessageService creates a new contact message service instance
func NewMessageService(params MessageServiceParams) usecase.MessageUsecase {
	return &messageService{
		contactRepo: params.ContactRepo,
		messageRepo: params.MessageRepo,
		userRepo:    params.UserRepo,
		notifier:    params.Notifier,
		logger:      params.Logger,
		now:         time.Now,
	}
}

func (srv *messageService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *messageService) SubmitContact(ctx context.Context, input *usecase.ContactInput) (*entity.ContactMessage, error) {
	verr := domainerrors.NewValidationError(nil)
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "The name field is required.")
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		verr.Add("email", "The email must be a valid email address.")
	}
	if strings.TrimSpace(input.Message) == "" {
		verr.Add("message", "The message field is required.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	msg := &entity.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: strings.TrimSpace(input.Subject),
		Message: input.Message,
	}
	if err := srv.contactRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Contact message received", slog.Any("messageID", msg.ID))

	return msg, nil
}

func (srv *messageService) ListContacts(ctx context.Context, filter repository.MessageFilter) (*repository.Page[*entity.ContactMessage], error) {
	return srv.contactRepo.List(ctx, filter)
}

func (srv *messageService) MarkContactRead(ctx context.Context, id uuid.UUID) (*entity.ContactMessage, error) {
	msg, err := srv.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.IsRead {
		return msg, nil
	}

	now := srv.now()
	msg.IsRead = true
	msg.ReadAt = &now
	if err := srv.contactRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

func (srv *messageService) DeleteContact(ctx context.Context, id uuid.UUID) error {
	return srv.contactRepo.Delete(ctx, id)
}

func (srv *messageService) Send(ctx context.Context, userID uuid.UUID, input *usecase.UserMessageInput) (*entity.UserMessage, error) {
	verr := domainerrors.NewValidationError(nil)
	if strings.TrimSpace(input.Subject) == "" {
		verr.Add("subject", "The subject field is required.")
	}
	if strings.TrimSpace(input.Body) == "" {
		verr.Add("body", "The body field is required.")
	}
	if verr.HasErrors() {
		return nil, verr
	}

	msg := &entity.UserMessage{
		UserID:  userID,
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
	}
	if err := srv.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

func (srv *messageService) ListMine(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.UserMessage], error) {
	return srv.messageRepo.List(ctx, repository.MessageFilter{UserID: &userID, Pagination: p})
}

func (srv *messageService) List(ctx context.Context, filter repository.MessageFilter) (*repository.Page[*entity.UserMessage], error) {
	return srv.messageRepo.List(ctx, filter)
}

func (srv *messageService) Reply(ctx context.Context, actorID, messageID uuid.UUID, reply string) (*entity.UserMessage, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, domainerrors.NewFieldError("reply", "The reply field is required.")
	}

	msg, err := srv.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	msg.Reply = reply
	msg.RepliedAt = &now
	msg.RepliedBy = &actorID
	if err := srv.messageRepo.Update(ctx, msg); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, msg.UserID)
	if err != nil {
		srv.log(ctx).Warn("Reply email skipped", slog.Any("messageID", messageID), slog.Any("error", err))

		return msg, nil
	}
	srv.notifier.Notify(ctx, &service.NotificationMessage{
		Type:    service.NotificationMessageReply,
		Channel: service.ChannelEmail,
		UserID:  user.ID.String(),
		Email:   user.Email,
		Body:    reply,
		Data:    map[string]string{"subject": msg.Subject},
	})

	return msg, nil
}
