package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	domainerrors "ministry/internal/domain/errors"
	"ministry/internal/domain/repository"
	"ministry/internal/errors"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// maxWebhookBody bounds provider callbacks read into memory.
const maxWebhookBody = 1 << 20

// webhookSignatureHeaders maps each provider to the header carrying its signature.
var webhookSignatureHeaders = map[string]string{
	"stripe":      "Stripe-Signature",
	"paystack":    "X-Paystack-Signature",
	"flutterwave": "Verif-Hash",
}

type PaymentHandlerParams struct {
	fx.In

	PaymentUC usecase.PaymentUsecase
	RefundUC  usecase.RefundUsecase
	Logger    *slog.Logger
}

// PaymentHandler serves order payments, provider webhooks and refunds.
type PaymentHandler struct {
	paymentUC usecase.PaymentUsecase
	refundUC  usecase.RefundUsecase
	logger    *slog.Logger
}

func NewPaymentHandler(params PaymentHandlerParams) *PaymentHandler {
	return &PaymentHandler{
		paymentUC: params.PaymentUC,
		refundUC:  params.RefundUC,
		logger:    params.Logger,
	}
}

type ConfirmPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type RefundItemRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" validate:"required"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

type RequestRefundRequest struct {
	OrderID uuid.UUID           `json:"order_id" validate:"required"`
	Amount  decimal.Decimal     `json:"amount" validate:"gt=0"`
	Reason  string              `json:"reason" validate:"required,max=1000"`
	Items   []RefundItemRequest `json:"items" validate:"omitempty,max=100,dive"`
	Restock bool                `json:"restock"`
}

type ProcessRefundRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Note   string `json:"note" validate:"max=1000"`
}

// --- Payments ---

func (h *PaymentHandler) Initiate(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	out, err := h.paymentUC.Initiate(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Payment initiated", out)
}

func (h *PaymentHandler) Confirm(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ConfirmPaymentRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	order, err := h.paymentUC.Confirm(c.Request().Context(), userID, orderID, req.Reference)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Payment confirmed", order)
}

func (h *PaymentHandler) Status(c echo.Context) error {
	out, err := h.paymentUC.Status(c.Request().Context(), c.Param("reference"))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Payment status", out)
}

// Webhook verifies and applies a provider callback. Verified callbacks are always acknowledged.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	provider := strings.ToLower(c.Param("provider"))
	header, ok := webhookSignatureHeaders[provider]
	if !ok {
		return response.HandleAppError(c, domainerrors.ErrNotFound.WithDetails("unknown payment provider"))
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return response.HandleAppError(c, errors.Wrap(err, "read webhook body"))
	}

	err = h.paymentUC.HandleWebhook(c.Request().Context(), &usecase.WebhookInput{
		Provider:  provider,
		Signature: c.Request().Header.Get(header),
		Body:      body,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, "Webhook received", map[string]bool{"received": true})
}

// --- Refunds ---

func (h *PaymentHandler) RequestRefund(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req RequestRefundRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	input := &usecase.RequestRefundInput{
		OrderID: req.OrderID,
		Amount:  req.Amount,
		Reason:  req.Reason,
		Restock: req.Restock,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, usecase.RefundItemInput{OrderItemID: item.OrderItemID, Quantity: item.Quantity})
	}

	refund, err := h.refundUC.Request(c.Request().Context(), userID, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Refund requested", refund)
}

func (h *PaymentHandler) ListRefunds(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.refundUC.List(c.Request().Context(), userID, p)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Refunds", page)
}

func (h *PaymentHandler) GetRefund(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	refundID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	refund, err := h.refundUC.Get(c.Request().Context(), userID, refundID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Refund", refund)
}

func (h *PaymentHandler) ListAllRefunds(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.refundUC.ListAll(c.Request().Context(), repository.RefundFilter{
		UserID:     userID,
		Status:     entity.RefundStatus(c.QueryParam("status")),
		Pagination: p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Refunds", page)
}

func (h *PaymentHandler) AdminGetRefund(c echo.Context) error {
	refundID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	refund, err := h.refundUC.AdminGet(c.Request().Context(), refundID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Refund", refund)
}

func (h *PaymentHandler) ProcessRefund(c echo.Context) error {
	refundID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req ProcessRefundRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	refund, err := h.refundUC.Process(c.Request().Context(), refundID, &usecase.ProcessRefundInput{
		Approve: req.Action == "approve",
		Note:    req.Note,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Refund processed", refund)
}
