package handlers

import (
	"github.com/labstack/echo/v4"
)

func registerHealthRoutes(e *echo.Echo, health *HealthHandlers) {
	e.GET("/health", health.LivenessCheck)
	e.GET("/health/ready", health.ReadinessCheck)
}

// RegisterAccountsRoutes mounts the accounts API. Login and health checks
// stay outside the identity middleware.
func RegisterAccountsRoutes(e *echo.Echo, auth *AuthHandlers, users *UserHandlers, health *HealthHandlers, identity echo.MiddlewareFunc) {
	registerHealthRoutes(e, health)

	api := e.Group("/api")
	api.POST("/login", auth.Login)

	userRoutes := api.Group("/users", identity)
	userRoutes.GET("", users.ListUsers)
	userRoutes.POST("", users.CreateUser)
	userRoutes.GET("/:id", users.GetUser)
	userRoutes.PUT("/:id", users.UpdateUser)
	userRoutes.DELETE("/:id", users.DeleteUser)
}

// RegisterPurchasesRoutes mounts the purchases API
func RegisterPurchasesRoutes(e *echo.Echo, orders *OrderHandlers, health *HealthHandlers, identity echo.MiddlewareFunc) {
	registerHealthRoutes(e, health)

	orderRoutes := e.Group("/api/orders", identity)
	orderRoutes.GET("", orders.ListOrders)
	orderRoutes.POST("", orders.CreateOrder)
}
