package handlers

import (
	"net/http"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles order-related HTTP requests
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

func callerOf(c echo.Context) *string {
	if callerID, ok := common.GetCallerIDFromContext(c.Request().Context()); ok {
		return &callerID
	}
	return nil
}

// ListOrders returns the caller's orders only
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	orders, err := h.orderService.ListForCaller(c.Request().Context(), callerOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var order models.Order
	if err := c.Bind(&order); err != nil {
		return common.BadRequest(MsgInvalidBody)
	}

	created, err := h.orderService.Create(c.Request().Context(), &order, callerOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}
