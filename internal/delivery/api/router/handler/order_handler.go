package handler

import (
	"log/slog"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves checkout, order history, tracking and fulfilment.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

type OrderLineRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" validate:"required,min=1,max=1000"`
}

type PlaceOrderRequest struct {
	ShippingAddressID uuid.UUID          `json:"shipping_address_id" validate:"required"`
	BillingAddressID  *uuid.UUID         `json:"billing_address_id"`
	PaymentMethod     string             `json:"payment_method" validate:"required,max=50"`
	Notes             string             `json:"notes" validate:"max=1000"`
	Items             []OrderLineRequest `json:"items" validate:"omitempty,max=100,dive"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type PublicTrackRequest struct {
	OrderNumber string `json:"order_number" query:"order_number" validate:"required"`
	Email       string `json:"email" query:"email" validate:"required,email"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered completed cancelled refunded"`
	Note   string `json:"note" validate:"max=500"`
}

type ShipmentRequest struct {
	Carrier           string  `json:"carrier" validate:"required,max=100"`
	TrackingNumber    string  `json:"tracking_number" validate:"required,max=100"`
	EstimatedDelivery *string `json:"estimated_delivery" validate:"omitempty,datetime=2006-01-02"`
}

type ShipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_transit delivered returned"`
}

func (h *OrderHandler) Place(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	input := &usecase.PlaceOrderInput{
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethodCode: req.PaymentMethod,
		Notes:             req.Notes,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, usecase.OrderLineInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderUC.Place(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Order placed", order)
}

func (h *OrderHandler) List(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.orderUC.List(c.Request().Context(), userID, p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Orders", page)
}

func (h *OrderHandler) Get(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.Get(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Order", order)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req CancelOrderRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.Cancel(c.Request().Context(), userID, orderID, req.Reason)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Order cancelled", order)
}

func (h *OrderHandler) Track(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	tracking, err := h.orderUC.Track(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Order tracking", tracking)
}

// PublicTrack needs the order number and the buyer's email.
func (h *OrderHandler) PublicTrack(c echo.Context) error {
	var req PublicTrackRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	tracking, err := h.orderUC.PublicTrack(c.Request().Context(), req.OrderNumber, req.Email)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Order tracking", tracking)
}

// --- Admin ---

func (h *OrderHandler) ListAll(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	from, err := queryDate(c, "from", false)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.orderUC.ListAll(c.Request().Context(), repository.OrderFilter{
		UserID:     userID,
		Status:     entity.OrderStatus(c.QueryParam("status")),
		From:       from,
		To:         to,
		Pagination: p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Orders", page)
}

func (h *OrderHandler) AdminGet(c echo.Context) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.AdminGet(c.Request().Context(), orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Order", order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	actorID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req OrderStatusRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.orderUC.UpdateStatus(c.Request().Context(), actorID, orderID, entity.OrderStatus(req.Status), req.Note)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Order status updated", order)
}

func (h *OrderHandler) CreateShipment(c echo.Context) error {
	actorID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ShipmentRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}
	eta, err := parseDate("estimated_delivery", req.EstimatedDelivery)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	shipment, err := h.orderUC.CreateShipment(c.Request().Context(), actorID, orderID, &usecase.ShipmentInput{
		Carrier:           req.Carrier,
		TrackingNumber:    req.TrackingNumber,
		EstimatedDelivery: eta,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Shipment created", shipment)
}

func (h *OrderHandler) UpdateShipment(c echo.Context) error {
	actorID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	shipmentID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ShipmentStatusRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	shipment, err := h.orderUC.UpdateShipment(c.Request().Context(), actorID, shipmentID, entity.ShipmentStatus(req.Status))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Shipment updated", shipment)
}
