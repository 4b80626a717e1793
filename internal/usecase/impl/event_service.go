package impl

import (
	"context"
	"log/slog"
	"path"
	"strconv"
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
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

const (
	ticketOrderPrefix  = "TKT"
	ticketCodeLength   = 10
	defaultMaxPerOrder = 10
)

type eventService struct {
	txManager       repository.TransactionManager
	eventRepo       repository.EventRepository
	ticketTypeRepo  repository.TicketTypeRepository
	ticketOrderRepo repository.TicketOrderRepository
	userRepo        repository.UserRepository
	gateway         service.PaymentGateway
	qrcode          service.QRCodeService
	notifier        usecase.NotificationUsecase
	images          imageStore
	maxPerOrder     int
	currency        string
	logger          *slog.Logger
	now             func() time.Time
}

// EventServiceParams holds dependencies for EventService, injected by Fx.
type EventServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	EventRepo       repository.EventRepository
	TicketTypeRepo  repository.TicketTypeRepository
	TicketOrderRepo repository.TicketOrderRepository
	UserRepo        repository.UserRepository
	Gateway         service.PaymentGateway
	QRCode          service.QRCodeService
	Notifier        usecase.NotificationUsecase
	Storage         service.FileStorage
	ImageProcessor  service.ImageProcessor
	Config          *config.Config
	Logger          *slog.Logger
}

// NewEventService creates a new event service instance
func NewEventService(params EventServiceParams) usecase.EventUsecase {
	maxPerOrder := defaultMaxPerOrder
	if params.Config != nil && params.Config.Tickets != nil && params.Config.Tickets.MaxPerOrder > 0 {
		maxPerOrder = params.Config.Tickets.MaxPerOrder
	}
	currency := "NGN"
	if params.Config != nil && params.Config.Shop != nil && params.Config.Shop.Currency != "" {
		currency = params.Config.Shop.Currency
	}

	return &eventService{
		txManager:       params.TxManager,
		eventRepo:       params.EventRepo,
		ticketTypeRepo:  params.TicketTypeRepo,
		ticketOrderRepo: params.TicketOrderRepo,
		userRepo:        params.UserRepo,
		gateway:         params.Gateway,
		qrcode:          params.QRCode,
		notifier:        params.Notifier,
		images:          newImageStore(params.Storage, params.ImageProcessor, params.Config),
		maxPerOrder:     maxPerOrder,
		currency:        currency,
		logger:          params.Logger,
		now:             time.Now,
	}
}

func (srv *eventService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Events ---

func (srv *eventService) ListEvents(ctx context.Context, filter repository.EventFilter) (*repository.Page[*entity.Event], error) {
	return srv.eventRepo.List(ctx, filter)
}

func (srv *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return srv.eventRepo.FindByID(ctx, id)
}

// GetEventBySlug serves the public site, which only shows published events.
func (srv *eventService) GetEventBySlug(ctx context.Context, slug string) (*entity.Event, error) {
	event, err := srv.eventRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event.Status != entity.EventStatusPublished {
		return nil, domainerrors.ErrEventNotFound
	}

	return event, nil
}

func (srv *eventService) CreateEvent(ctx context.Context, input *usecase.EventInput) (*entity.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event := &entity.Event{}
	applyEventInput(event, input)
	if err := srv.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Event created", slog.Any("eventID", event.ID), slog.String("slug", event.Slug))

	return event, nil
}

func (srv *eventService) UpdateEvent(ctx context.Context, id uuid.UUID, input *usecase.EventInput) (*entity.Event, error) {
	if err := validateEventInput(input); err != nil {
		return nil, err
	}

	event, err := srv.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyEventInput(event, input)
	if err := srv.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (srv *eventService) UploadEventImage(ctx context.Context, id uuid.UUID, file usecase.Upload) (*entity.Event, error) {
	event, err := srv.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := srv.images.replace(ctx, path.Join(constants.StorageEvents, id.String()), event.Image, file)
	if err != nil {
		return nil, err
	}
	event.Image = key
	if err := srv.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (srv *eventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	event, err := srv.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		sold, err := repoFactory.TicketTypeRepo().SumSoldByEvent(ctx, id)
		if err != nil {
			return err
		}
		if sold > 0 {
			return domainerrors.ErrEventHasSales
		}

		return repoFactory.EventRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	srv.images.remove(ctx, event.Image)

	return nil
}

// --- Ticket types ---

func (srv *eventService) CreateTicketType(ctx context.Context, eventID uuid.UUID, input *usecase.TicketTypeInput) (*entity.TicketType, error) {
	if err := validateTicketTypeInput(input); err != nil {
		return nil, err
	}
	if _, err := srv.eventRepo.FindByID(ctx, eventID); err != nil {
		return nil, err
	}

	ticketType := &entity.TicketType{EventID: eventID}
	applyTicketTypeInput(ticketType, input)
	if err := srv.ticketTypeRepo.Create(ctx, ticketType); err != nil {
		return nil, err
	}

	return ticketType, nil
}

func (srv *eventService) UpdateTicketType(ctx context.Context, id uuid.UUID, input *usecase.TicketTypeInput) (*entity.TicketType, error) {
	if err := validateTicketTypeInput(input); err != nil {
		return nil, err
	}

	ticketType, err := srv.ticketTypeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Quantity < ticketType.Sold {
		return nil, domainerrors.ErrTicketQuantityBelowSold
	}

	applyTicketTypeInput(ticketType, input)
	if err := srv.ticketTypeRepo.Update(ctx, ticketType); err != nil {
		return nil, err
	}

	return ticketType, nil
}

func (srv *eventService) DeleteTicketType(ctx context.Context, id uuid.UUID) error {
	ticketType, err := srv.ticketTypeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if ticketType.Sold > 0 {
		return domainerrors.ErrTicketTypeHasSales
	}

	return srv.ticketTypeRepo.Delete(ctx, id)
}

// --- Ticket orders ---

// Purchase opens a pending order and its checkout. Tickets are claimed only at confirmation.
func (srv *eventService) Purchase(ctx context.Context, userID uuid.UUID, input *usecase.PurchaseTicketInput) (*usecase.TicketPurchaseOutput, error) {
	if input.Quantity < 1 {
		return nil, domainerrors.NewFieldError("quantity", "The quantity must be at least 1.")
	}
	if input.Quantity > srv.maxPerOrder {
		return nil, domainerrors.ErrTicketLimitExceeded.WithDetails("at most " + strconv.Itoa(srv.maxPerOrder) + " tickets per order")
	}

	ticketType, err := srv.ticketTypeRepo.FindByID(ctx, input.TicketTypeID)
	if err != nil {
		return nil, err
	}
	event, err := srv.eventRepo.FindByID(ctx, ticketType.EventID)
	if err != nil {
		return nil, err
	}

	now := srv.now()
	if event.Status != entity.EventStatusPublished || event.HasEnded(now) || !ticketType.OnSale(now) {
		return nil, domainerrors.ErrTicketsUnavailable
	}
	if ticketType.Available() < input.Quantity {
		return nil, domainerrors.ErrTicketsUnavailable.WithDetails(strconv.Itoa(ticketType.Available()) + " left")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := &entity.TicketOrder{
		UserID:           userID,
		EventID:          event.ID,
		TicketTypeID:     ticketType.ID,
		Reference:        newReference(ticketOrderPrefix, now),
		PaymentReference: newReference(transactionPrefix, now),
		Quantity:         input.Quantity,
		UnitPrice:        ticketType.Price,
		Total:            ticketType.Price.Mul(decimal.NewFromInt(int64(input.Quantity))),
		Status:           entity.TicketOrderStatusPending,
	}
	if err := srv.ticketOrderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	result, err := srv.gateway.Initiate(ctx, service.PaymentInitRequest{
		Reference: order.PaymentReference,
		Amount:    order.Total,
		Currency:  srv.currency,
		Email:     user.Email,
	})
	if err != nil {
		srv.log(ctx).Error("Ticket checkout failed", slog.String("reference", order.Reference), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Ticket order created",
		slog.String("reference", order.Reference),
		slog.Int("quantity", order.Quantity),
	)
	order.TicketType = ticketType
	order.Event = event

	return &usecase.TicketPurchaseOutput{Order: order, CheckoutURL: result.CheckoutURL}, nil
}

// ConfirmPayment claims the tickets once the gateway reports the payment as paid.
func (srv *eventService) ConfirmPayment(ctx context.Context, userID *uuid.UUID, input *usecase.ConfirmTicketInput) (*entity.TicketOrder, error) {
	order, err := srv.findForConfirmation(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.TicketOrderStatusPaid, entity.TicketOrderStatusUsed:
		return order, nil
	case entity.TicketOrderStatusCancelled:
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("ticket order is cancelled")
	}

	verification, err := srv.gateway.Verify(ctx, order.PaymentReference)
	if err != nil {
		return nil, err
	}
	if !verification.Paid {
		return nil, domainerrors.ErrPaymentNotVerified.WithDetails(verification.Status)
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.TicketTypeRepo().IncrementSold(ctx, order.TicketTypeID, order.Quantity); err != nil {
			return err
		}

		now := srv.now()
		order.Status = entity.TicketOrderStatusPaid
		order.PaidAt = &now
		order.Code = randomString(ticketCodeLength, referenceAlphabet)

		return repoFactory.TicketOrderRepo().TransitionStatus(ctx, order, entity.TicketOrderStatusPending)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Ticket order paid", slog.String("reference", order.Reference))
	srv.notifyTicket(ctx, order)

	return srv.ticketOrderRepo.FindByID(ctx, order.ID)
}

func (srv *eventService) findForConfirmation(ctx context.Context, userID *uuid.UUID, input *usecase.ConfirmTicketInput) (*entity.TicketOrder, error) {
	var order *entity.TicketOrder
	var err error
	if input.TicketOrderID != nil {
		order, err = srv.ticketOrderRepo.FindByID(ctx, *input.TicketOrderID)
	} else {
		order, err = srv.ticketOrderRepo.FindByReference(ctx, strings.TrimSpace(input.Reference))
	}
	if err != nil {
		return nil, err
	}
	if userID != nil && order.UserID != *userID {
		return nil, domainerrors.ErrTicketOrderNotFound
	}
	ref := strings.TrimSpace(input.Reference)
	if input.TicketOrderID != nil && ref != "" && ref != order.PaymentReference && ref != order.Reference {
		return nil, domainerrors.ErrTicketOrderNotFound
	}

	return order, nil
}

func (srv *eventService) notifyTicket(ctx context.Context, order *entity.TicketOrder) {
	user, err := srv.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		srv.log(ctx).Warn("Ticket confirmation skipped", slog.Any("userID", order.UserID), slog.Any("error", err))

		return
	}

	eventTitle := ""
	if order.Event != nil {
		eventTitle = order.Event.Title
	}
	srv.notifier.Notify(ctx, &service.NotificationMessage{
		Type:    service.NotificationTicketConfirmed,
		Channel: service.ChannelEmail,
		UserID:  user.ID.String(),
		Email:   user.Email,
		Data: map[string]string{
			"event":    eventTitle,
			"quantity": strconv.Itoa(order.Quantity),
			"code":     order.Code,
		},
	})
}

// Cancel releases a pending order, or a paid one together with its claimed tickets.
func (srv *eventService) Cancel(ctx context.Context, userID, ticketOrderID uuid.UUID) (*entity.TicketOrder, error) {
	order, err := srv.GetMyOrder(ctx, userID, ticketOrderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if from != entity.TicketOrderStatusPending && from != entity.TicketOrderStatusPaid {
		return nil, domainerrors.ErrInvalidStatusTransition.WithDetails("ticket order is " + string(from))
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		now := srv.now()
		order.Status = entity.TicketOrderStatusCancelled
		order.CancelledAt = &now
		if err := repoFactory.TicketOrderRepo().TransitionStatus(ctx, order, from); err != nil {
			return err
		}
		if from == entity.TicketOrderStatusPaid {
			return repoFactory.TicketTypeRepo().DecrementSold(ctx, order.TicketTypeID, order.Quantity)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Ticket order cancelled", slog.String("reference", order.Reference), slog.String("from", string(from)))

	return srv.ticketOrderRepo.FindByID(ctx, ticketOrderID)
}

func (srv *eventService) ListMyOrders(ctx context.Context, userID uuid.UUID, p repository.Pagination) (*repository.Page[*entity.TicketOrder], error) {
	return srv.ticketOrderRepo.List(ctx, repository.TicketOrderFilter{UserID: &userID, Pagination: p})
}

func (srv *eventService) GetMyOrder(ctx context.Context, userID, ticketOrderID uuid.UUID) (*entity.TicketOrder, error) {
	order, err := srv.ticketOrderRepo.FindByID(ctx, ticketOrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainerrors.ErrTicketOrderNotFound
	}

	return order, nil
}

func (srv *eventService) QRCode(ctx context.Context, userID, ticketOrderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetMyOrder(ctx, userID, ticketOrderID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.TicketOrderStatusPaid {
		return nil, domainerrors.ErrTicketNotPaid
	}

	return srv.qrcode.GenerateTicketQR(order.ID, order.Code)
}

// CheckIn marks the scanned ticket as used. Each ticket order admits once.
func (srv *eventService) CheckIn(ctx context.Context, qrPayload string) (*entity.TicketOrder, error) {
	payload, err := srv.qrcode.ParseTicketQR(qrPayload)
	if err != nil {
		return nil, err
	}

	order, err := srv.ticketOrderRepo.FindByID(ctx, payload.TicketOrderID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrTicketOrderNotFound) {
			return nil, domainerrors.ErrInvalidTicketQR
		}

		return nil, err
	}
	if order.Code == "" || order.Code != payload.Code {
		return nil, domainerrors.ErrInvalidTicketQR
	}
	switch order.Status {
	case entity.TicketOrderStatusUsed:
		return nil, domainerrors.ErrTicketAlreadyUsed
	case entity.TicketOrderStatusPaid:
	default:
		return nil, domainerrors.ErrTicketNotPaid
	}

	now := srv.now()
	order.Status = entity.TicketOrderStatusUsed
	order.CheckedInAt = &now
	if err := srv.ticketOrderRepo.TransitionStatus(ctx, order, entity.TicketOrderStatusPaid); err != nil {
		if errors.Is(err, domainerrors.ErrInvalidStatusTransition) {
			return nil, domainerrors.ErrTicketAlreadyUsed
		}

		return nil, err
	}

	srv.log(ctx).Info("Ticket checked in", slog.String("reference", order.Reference))

	return order, nil
}

func (srv *eventService) ListOrders(ctx context.Context, filter repository.TicketOrderFilter) (*repository.Page[*entity.TicketOrder], error) {
	return srv.ticketOrderRepo.List(ctx, filter)
}

func validateEventInput(input *usecase.EventInput) error {
	verr := domainerrors.NewValidationError(nil)
	if input.StartsAt.IsZero() {
		verr.Add("starts_at", "The starts at field is required.")
	}
	if !input.EndsAt.IsZero() && input.EndsAt.Before(input.StartsAt) {
		verr.Add("ends_at", "The end must be after the start.")
	}
	switch input.Status {
	case "", entity.EventStatusDraft, entity.EventStatusPublished, entity.EventStatusCancelled:
	default:
		verr.Add("status", "The status must be draft, published or cancelled.")
	}
	if verr.HasErrors() {
		return verr
	}

	return nil
}

func applyEventInput(event *entity.Event, input *usecase.EventInput) {
	event.Title = strings.TrimSpace(input.Title)
	event.Slug = slugOr(input.Slug, input.Title)
	event.Description = input.Description
	event.Venue = strings.TrimSpace(input.Venue)
	event.StartsAt = input.StartsAt
	event.EndsAt = input.EndsAt
	event.Status = input.Status
	if event.Status == "" {
		event.Status = entity.EventStatusDraft
	}
}

func validateTicketTypeInput(input *usecase.TicketTypeInput) error {
	verr := domainerrors.NewValidationError(nil)
	if input.Price.IsNegative() {
		verr.Add("price", "The price must not be negative.")
	}
	if input.Quantity < 0 {
		verr.Add("quantity", "The quantity must not be negative.")
	}
	if input.SaleStartsAt != nil && input.SaleEndsAt != nil && input.SaleEndsAt.Before(*input.SaleStartsAt) {
		verr.Add("sale_ends_at", "The sale end must be after the sale start.")
	}
	if verr.HasErrors() {
		return verr
	}

	return nil
}

func applyTicketTypeInput(ticketType *entity.TicketType, input *usecase.TicketTypeInput) {
	ticketType.Name = strings.TrimSpace(input.Name)
	ticketType.Price = input.Price.Round(2)
	ticketType.Quantity = input.Quantity
	ticketType.SaleStartsAt = input.SaleStartsAt
	ticketType.SaleEndsAt = input.SaleEndsAt
	ticketType.IsActive = input.IsActive
}
