package services

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/common"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CreateStampsCaller(t *testing.T) {
	repo := &MockOrderRepository{}
	repo.Test(t)
	svc := NewOrderService(repo, discardLogger())
	ctx := context.Background()

	order := &models.Order{Payload: map[string]any{"item": "lamp"}}
	repo.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.CreatedBy != nil && *o.CreatedBy == "7"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Order).ID = 1
	}).Return(nil)

	created, err := svc.Create(ctx, order, strPtr("7"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "7", *created.CreatedBy)
	repo.AssertExpectations(t)
}

func TestOrderService_CreateWithoutCaller(t *testing.T) {
	repo := &MockOrderRepository{}
	svc := NewOrderService(repo, discardLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool { return o.CreatedBy == nil })).Return(nil)

	_, err := svc.Create(ctx, &models.Order{Payload: map[string]any{}}, nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestOrderService_CreateRequiresPayload(t *testing.T) {
	svc := NewOrderService(&MockOrderRepository{}, discardLogger())

	_, err := svc.Create(context.Background(), &models.Order{}, strPtr("7"))
	assert.True(t, common.IsKind(err, common.KindBadRequest))
}

func TestOrderService_CreateRepositoryError(t *testing.T) {
	repo := &MockOrderRepository{}
	svc := NewOrderService(repo, discardLogger())
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("boom"))

	_, err := svc.Create(context.Background(), &models.Order{Payload: map[string]any{}}, nil)
	assert.ErrorContains(t, err, "boom")
}

func TestOrderService_ListForCaller(t *testing.T) {
	repo := &MockOrderRepository{}
	svc := NewOrderService(repo, discardLogger())
	ctx := context.Background()
	caller := strPtr("7")

	repo.On("ListByCreator", ctx, caller).Return([]*models.Order{{ID: 1, CreatedBy: caller}}, nil)

	orders, err := svc.ListForCaller(ctx, caller)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	repo.AssertExpectations(t)
}
