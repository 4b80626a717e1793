package handler

import (
	"log/slog"
	"net/http"
	"time"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

type EventHandlerParams struct {
	fx.In

	EventUC usecase.EventUsecase
	Logger  *slog.Logger
}

// EventHandler serves events, ticket purchases and door check-in.
type EventHandler struct {
	eventUC usecase.EventUsecase
	logger  *slog.Logger
	now     func() time.Time
}

func NewEventHandler(params EventHandlerParams) *EventHandler {
	return &EventHandler{
		eventUC: params.EventUC,
		logger:  params.Logger,
		now:     time.Now,
	}
}

type EventRequest struct {
	Title       string    `json:"title" validate:"required,max=255"`
	Slug        string    `json:"slug" validate:"omitempty,max=255"`
	Description string    `json:"description"`
	Venue       string    `json:"venue" validate:"required,max=255"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	Status      string    `json:"status" validate:"omitempty,oneof=draft published cancelled"`
}

type TicketTypeRequest struct {
	Name         string          `json:"name" validate:"required,max=255"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity     int             `json:"quantity" validate:"gte=0"`
	SaleStartsAt *time.Time      `json:"sale_starts_at"`
	SaleEndsAt   *time.Time      `json:"sale_ends_at"`
	IsActive     *bool           `json:"is_active"`
}

type PurchaseTicketRequest struct {
	TicketTypeID uuid.UUID `json:"ticket_type_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
}

type ConfirmTicketRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type CheckInRequest struct {
	Payload string `json:"qr_payload" validate:"required"`
}

// --- Events ---

// ListEvents shows published events; ?upcoming=true hides the ones already over.
func (h *EventHandler) ListEvents(c echo.Context) error {
	filter, err := h.eventFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	filter.Status = entity.EventStatusPublished

	return h.listEvents(c, filter)
}

func (h *EventHandler) AdminListEvents(c echo.Context) error {
	filter, err := h.eventFilter(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	filter.Status = entity.EventStatus(c.QueryParam("status"))

	return h.listEvents(c, filter)
}

func (h *EventHandler) eventFilter(c echo.Context) (repository.EventFilter, error) {
	p, err := pagination(c)
	if err != nil {
		return repository.EventFilter{}, err
	}
	upcoming, err := queryBool(c, "upcoming")
	if err != nil {
		return repository.EventFilter{}, err
	}

	filter := repository.EventFilter{Search: c.QueryParam("search"), Pagination: p}
	if upcoming != nil && *upcoming {
		now := h.now()
		filter.UpcomingAfter = &now
	}

	return filter, nil
}

func (h *EventHandler) listEvents(c echo.Context, filter repository.EventFilter) error {
	page, err := h.eventUC.ListEvents(c.Request().Context(), filter)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Events", page)
}

func (h *EventHandler) ShowEvent(c echo.Context) error {
	event, err := h.eventUC.GetEventBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Event", event)
}

func (h *EventHandler) AdminGetEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	event, err := h.eventUC.GetEvent(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Event", event)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req EventRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	event, err := h.eventUC.CreateEvent(c.Request().Context(), req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Event created", event)
}

func (h *EventHandler) UpdateEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req EventRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	event, err := h.eventUC.UpdateEvent(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Event updated", event)
}

func (h *EventHandler) UploadEventImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	upload, closeFile, err := formFile(c, "image")
	if err != nil {
		return response.HandleAppError(c, err)
	}
	defer closeFile()

	event, err := h.eventUC.UploadEventImage(c.Request().Context(), id, upload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Event image uploaded", event)
}

func (h *EventHandler) DeleteEvent(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.eventUC.DeleteEvent(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Event deleted", nil)
}

func (r *EventRequest) toInput() *usecase.EventInput {
	return &usecase.EventInput{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Venue:       r.Venue,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Status:      entity.EventStatus(r.Status),
	}
}

// --- Ticket types ---

func (h *EventHandler) CreateTicketType(c echo.Context) error {
	eventID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req TicketTypeRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	ticketType, err := h.eventUC.CreateTicketType(c.Request().Context(), eventID, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Ticket type created", ticketType)
}

func (h *EventHandler) UpdateTicketType(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req TicketTypeRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	ticketType, err := h.eventUC.UpdateTicketType(c.Request().Context(), id, req.toInput())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Ticket type updated", ticketType)
}

func (h *EventHandler) DeleteTicketType(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.eventUC.DeleteTicketType(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Ticket type deleted", nil)
}

func (r *TicketTypeRequest) toInput() *usecase.TicketTypeInput {
	return &usecase.TicketTypeInput{
		Name:         r.Name,
		Price:        r.Price,
		Quantity:     r.Quantity,
		SaleStartsAt: r.SaleStartsAt,
		SaleEndsAt:   r.SaleEndsAt,
		IsActive:     boolOr(r.IsActive, true),
	}
}

// --- Ticket orders ---

func (h *EventHandler) Purchase(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PurchaseTicketRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.eventUC.Purchase(c.Request().Context(), userID, &usecase.PurchaseTicketInput{
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Ticket order created", out)
}

func (h *EventHandler) ConfirmPayment(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ConfirmTicketRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.eventUC.ConfirmPayment(c.Request().Context(), &userID, &usecase.ConfirmTicketInput{
		TicketOrderID: &orderID,
		Reference:     req.Reference,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Ticket payment confirmed", order)
}

func (h *EventHandler) Cancel(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.eventUC.Cancel(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Ticket order cancelled", order)
}

func (h *EventHandler) ListMyOrders(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.eventUC.ListMyOrders(c.Request().Context(), userID, p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Ticket orders", page)
}

func (h *EventHandler) GetMyOrder(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.eventUC.GetMyOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Ticket order", order)
}

// QRCode returns the ticket as a PNG image.
func (h *EventHandler) QRCode(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	png, err := h.eventUC.QRCode(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")

	return c.Blob(http.StatusOK, "image/png", png)
}

// --- Admin ticket orders ---

func (h *EventHandler) ListOrders(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	eventID, err := queryUUID(c, "event_id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.eventUC.ListOrders(c.Request().Context(), repository.TicketOrderFilter{
		EventID:    eventID,
		Status:     entity.TicketOrderStatus(c.QueryParam("status")),
		Pagination: p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Ticket orders", page)
}

func (h *EventHandler) CheckIn(c echo.Context) error {
	var req CheckInRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.eventUC.CheckIn(c.Request().Context(), req.Payload)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Ticket checked in", order)
}
