package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"storefront/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const (
	MsgInvalidBody   = "Invalid request body."
	MsgInvalidUserID = "Invalid user id."
	MsgInternalError = "Internal server error."
)

// RequestValidator plugs go-playground/validator into echo
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: common.NewValidator()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return common.ValidationFailed(err)
	}
	return nil
}

// NewHTTPErrorHandler renders every error as {"detail": message}
func NewHTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		detail := MsgInternalError

		var httpErr *echo.HTTPError
		if appErr, ok := common.AsAppError(err); ok {
			status = appErr.Status()
			detail = appErr.Message
			log.DebugContext(c.Request().Context(), "request rejected",
				slog.Int("status", status),
				slog.String("detail", detail))
		} else if errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				detail = msg
			} else {
				detail = http.StatusText(status)
			}
		} else {
			log.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, common.ErrorResponse{Detail: detail})
		}
		if err != nil {
			log.ErrorContext(c.Request().Context(), "failed to write error response", slog.String("error", err.Error()))
		}
	}
}
