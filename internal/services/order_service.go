package services

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/common"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

type OrderService interface {
	Create(ctx context.Context, order *models.Order, createdBy *string) (*models.Order, error)
	ListForCaller(ctx context.Context, createdBy *string) ([]*models.Order, error)
}

type orderService struct {
	repo repositories.OrderRepository
	log  *slog.Logger
}

func NewOrderService(repo repositories.OrderRepository, log *slog.Logger) OrderService {
	return &orderService{repo: repo, log: log}
}

// Create stamps the caller as owner; any owner in the payload was already dropped
func (s *orderService) Create(ctx context.Context, order *models.Order, createdBy *string) (*models.Order, error) {
	if order.Payload == nil {
		return nil, common.BadRequest("Invalid request body.")
	}
	order.CreatedBy = createdBy

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.log.InfoContext(ctx, "order created", slog.Int64("order_id", order.ID), slog.String("created_by", common.SafeString(createdBy)))
	return order, nil
}

func (s *orderService) ListForCaller(ctx context.Context, createdBy *string) ([]*models.Order, error) {
	orders, err := s.repo.ListByCreator(ctx, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
