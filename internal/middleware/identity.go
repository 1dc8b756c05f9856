package middleware

import (
	"fmt"

	"storefront/internal/common"
	"storefront/internal/config"
	"storefront/internal/services"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const MsgInvalidToken = "Invalid or missing token."

// Identity returns the caller identity middleware for the configured mode
func Identity(mode, jwtSecret string) (echo.MiddlewareFunc, error) {
	switch mode {
	case config.IdentityModeHeader:
		return HeaderIdentity(), nil
	case config.IdentityModeToken:
		return TokenIdentity(jwtSecret), nil
	default:
		return nil, fmt.Errorf("unknown identity mode %q", mode)
	}
}

// HeaderIdentity trusts the Request-User-Id header as sent by the caller.
// A missing header leaves the request without a caller.
func HeaderIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if callerID := c.Request().Header.Get(common.CallerHeader); callerID != "" {
				ctx := common.WithCallerID(c.Request().Context(), callerID)
				c.SetRequest(c.Request().WithContext(ctx))
			}
			return next(c)
		}
	}
}

// TokenIdentity requires an HS256 bearer token issued at login and uses its
// subject as the caller.
func TokenIdentity(jwtSecret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(jwtSecret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.AccessClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			if claims, ok := token.Claims.(*services.AccessClaims); ok {
				ctx := common.WithCallerID(c.Request().Context(), claims.Subject)
				c.SetRequest(c.Request().WithContext(ctx))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return common.Unauthorized(MsgInvalidToken)
		},
	})
}
