package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Order is a purchase record. Apart from its owner and timestamps the
// fields are a free-form payload supplied by the client.
type Order struct {
	ID        int64
	CreatedBy *string
	CreatedAt time.Time
	Payload   map[string]any
}

// reservedOrderKeys are set by the service and never taken from the payload
var reservedOrderKeys = []string{"id", "created_by", "created_at"}

// MarshalJSON flattens the payload next to the server-owned fields
func (o Order) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Payload)+len(reservedOrderKeys))
	for k, v := range o.Payload {
		out[k] = v
	}
	out["id"] = o.ID
	out["created_by"] = o.CreatedBy
	out["created_at"] = o.CreatedAt
	return json.Marshal(out)
}

// ErrOrderNotObject is returned when an order body is not a JSON object
var ErrOrderNotObject = errors.New("order body must be a JSON object")

// UnmarshalJSON accepts any JSON object; reserved keys are dropped
func (o *Order) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return err
	}
	if payload == nil {
		return ErrOrderNotObject
	}
	for _, k := range reservedOrderKeys {
		delete(payload, k)
	}
	o.Payload = payload
	return nil
}
