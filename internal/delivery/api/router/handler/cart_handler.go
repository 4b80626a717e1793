package handler

import (
	"log/slog"

	"ministry/internal/delivery/api/response"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

type AddCartItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" validate:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" validate:"required,min=1,max=1000"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=1000"`
}

func (h *CartHandler) Get(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	cart, err := h.cartUC.Get(c.Request().Context(), userID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Cart", cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req AddCartItemRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	cart, err := h.cartUC.AddItem(c.Request().Context(), userID, &usecase.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	itemID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateCartItemRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	cart, err := h.cartUC.UpdateItem(c.Request().Context(), userID, itemID, req.Quantity)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Cart item updated", cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	itemID, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	cart, err := h.cartUC.RemoveItem(c.Request().Context(), userID, itemID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Cart item removed", cart)
}

func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.cartUC.Clear(c.Request().Context(), userID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Cart cleared", nil)
}
