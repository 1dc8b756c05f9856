package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"storefront/internal/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByCreator(ctx context.Context, createdBy *string) ([]*models.Order, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	payload, err := json.Marshal(order.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode order payload: %w", err)
	}
	query := `
		INSERT INTO orders (created_by, payload, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, order.CreatedBy, payload).Scan(&order.ID, &order.CreatedAt)
}

// ListByCreator returns the orders owned by createdBy; a nil owner selects
// the orders that were created without a caller.
func (r *orderRepo) ListByCreator(ctx context.Context, createdBy *string) ([]*models.Order, error) {
	query := `
		SELECT id, created_by, payload, created_at
		FROM orders
		WHERE created_by IS NULL
		ORDER BY id
	`
	var args []interface{}
	if createdBy != nil {
		query = `
		SELECT id, created_by, payload, created_at
		FROM orders
		WHERE created_by = $1
		ORDER BY id
	`
		args = append(args, *createdBy)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order := &models.Order{}
		var payload []byte
		if err := rows.Scan(&order.ID, &order.CreatedBy, &payload, &order.CreatedAt); err != nil {
			return nil, err
		}
		if order.Payload, err = decodePayload(payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload of order %d: %w", order.ID, err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func decodePayload(raw []byte) (map[string]any, error) {
	payload := map[string]any{}
	if len(raw) == 0 {
		return payload, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}
