package common

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallerID_RoundTrip(t *testing.T) {
	ctx := WithCallerID(context.Background(), " 17 ")

	raw, ok := GetCallerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "17", raw)

	id, ok := GetCallerUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(17), id)
}

func TestCallerID_EmptyIgnored(t *testing.T) {
	ctx := WithCallerID(context.Background(), "   ")

	_, ok := GetCallerIDFromContext(ctx)
	assert.False(t, ok)
}

func TestCallerUserID_NonNumeric(t *testing.T) {
	ctx := WithCallerID(context.Background(), "alice")

	raw, ok := GetCallerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", raw)

	_, ok = GetCallerUserIDFromContext(ctx)
	assert.False(t, ok)
}

func TestAppError_Status(t *testing.T) {
	cases := map[*AppError]int{
		NotFound("missing"):          http.StatusNotFound,
		Conflict("taken"):            http.StatusConflict,
		Unauthorized("bad password"): http.StatusUnauthorized,
		Forbidden("protected"):       http.StatusForbidden,
		Validation("too long"):       http.StatusUnprocessableEntity,
		BadRequest("bad json"):       http.StatusBadRequest,
		TooManyRequests("slow down"): http.StatusTooManyRequests,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.Status(), err.Message)
	}
}

func TestIsKind_Wrapped(t *testing.T) {
	err := NotFound("User not found with this id.")
	wrapped := wrap(err)

	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindConflict))
	assert.Equal(t, "User not found with this id.", err.Error())
}

func wrap(err error) error {
	return &wrapper{err: err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
