package handlers

import (
	"net/http"
	"strconv"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers handles user-related HTTP requests
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

func parseUserID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, common.BadRequest(MsgInvalidUserID)
	}
	return id, nil
}

// CreateUser stamps the caller as creator when the caller id is numeric
func (h *UserHandlers) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(MsgInvalidBody)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var createdBy *int64
	if callerID, ok := common.GetCallerUserIDFromContext(ctx); ok {
		createdBy = &callerID
	}

	user, err := h.userService.Create(ctx, req, createdBy)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) ListUsers(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser applies only the fields present in the body
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.BadRequest(MsgInvalidBody)
	}

	user, err := h.userService.Update(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
