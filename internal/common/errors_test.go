package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Unwrap(t *testing.T) {
	tests := []struct {
		want       error
		name       string
		statusCode int
	}{
		{name: "not found", statusCode: http.StatusNotFound, want: ErrNotFound},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "forbidden", statusCode: http.StatusForbidden, want: ErrUnauthorized},
		{name: "rate limited", statusCode: http.StatusTooManyRequests, want: ErrRateLimit},
		{name: "server error", statusCode: http.StatusInternalServerError, want: ErrBackend},
		{name: "bad request", statusCode: http.StatusBadRequest, want: ErrBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{Method: "GET", Path: "/deliveries", StatusCode: tt.statusCode})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Method: "POST", Path: "/deliveries/1/reject", StatusCode: 400, Message: "bad reason"}
	assert.Equal(t, "POST /deliveries/1/reject: backend API error: 400 - bad reason", err.Error())

	err.Message = ""
	assert.Equal(t, "POST /deliveries/1/reject: backend API error: 400", err.Error())
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "rate limit", err: ErrRateLimit, want: true},
		{name: "server error", err: &APIError{StatusCode: 503}, want: true},
		{name: "client error", err: &APIError{StatusCode: 422}, want: false},
		{name: "explicitly retryable", err: &RetryableError{Err: errors.New("x"), Retryable: true}, want: true},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestUserError(t *testing.T) {
	err := NewUserError("Livraison introuvable", ErrNotFound)
	assert.Equal(t, "Livraison introuvable: not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)

	var userErr *UserError
	assert.True(t, errors.As(err, &userErr))
	assert.Equal(t, "Livraison introuvable", userErr.UserMessage)
}

func TestReplaceFirst(t *testing.T) {
	got, err := ReplaceFirst(`https?://[^/]+`, "http://a.ngrok-free.app/uploads/x.png", "http://host")
	assert.NoError(t, err)
	assert.Equal(t, "http://host/uploads/x.png", got)

	got, err = ReplaceFirst(`https?://[^/]+/api`, "/no/match", "http://host/api")
	assert.NoError(t, err)
	assert.Equal(t, "/no/match", got)

	_, err = ReplaceFirst(`(`, "x", "y")
	assert.Error(t, err)
}
