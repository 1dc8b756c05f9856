package handlers

import (
	"net/http"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login
type AuthHandlers struct {
	userService services.UserService
}

func NewAuthHandlers(userService services.UserService) *AuthHandlers {
	return &AuthHandlers{userService: userService}
}

// Login verifies the credentials and returns the user with an access token
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(MsgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.userService.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}
