package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient serves handler under /api and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", handler))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 5*time.Second, opts...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestListDeliveries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/deliveries", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"d1","trackingCode":"KB-1","currentStatus":"SHIPPING","declaredValue":1500,
			 "estimatedWeight":2.5,"shippingMode":"AVION","kabaUserId":"u1",
			 "createdAt":"2025-03-01T10:00:00Z","payments":[{"id":"p1","amount":1500,"paymentStatus":"PAID"}]}
		]`)
	})

	deliveries, err := client.ListDeliveries(context.Background())
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	d := deliveries[0]
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, "SHIPPING", d.CurrentStatus)
	assert.True(t, decimal.NewFromInt(1500).Equal(d.DeclaredValue))
	assert.InDelta(t, 2.5, d.EstimatedWeight, 0.001)
	require.Len(t, d.Payments, 1)
	assert.Equal(t, "PAID", d.Payments[0].PaymentStatus)
}

func TestGetDelivery_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "404 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Delivery not found"})
			},
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "null")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.GetDelivery(context.Background(), "missing")
			assert.ErrorIs(t, err, common.ErrNotFound)
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		want    string
		wantErr error
	}{
		{"string message", `{"message":"Bad state"}`, http.StatusBadRequest, "Bad state", common.ErrBackend},
		{"message list", `{"message":["a is required","b must be positive"]}`, http.StatusBadRequest, "a is required; b must be positive", common.ErrBackend},
		{"plain text", "boom\n", http.StatusInternalServerError, "boom", common.ErrBackend},
		{"unauthorized", `{"message":"no"}`, http.StatusUnauthorized, "no", common.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := client.AcceptDelivery(context.Background(), "d1")
			require.Error(t, err)

			var apiErr *common.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, "/deliveries/d1/accept-simple", apiErr.Path)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRejectDelivery(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/deliveries/d1/reject", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Adresse invalide", body["rejectionReason"])
		w.WriteHeader(http.StatusOK)
	})

	err := client.RejectDelivery(context.Background(), "d1", "   ")
	assert.ErrorIs(t, err, common.ErrReasonRequired)
	assert.Equal(t, int32(0), calls.Load(), "no request for a blank reason")

	require.NoError(t, client.RejectDelivery(context.Background(), "d1", " Adresse invalide "))
	assert.Equal(t, int32(1), calls.Load())
}

func TestAcceptDeliveryWithDetails(t *testing.T) {
	weight := 3.2
	arrival := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/deliveries/d9/accept", r.URL.Path)

		var body model.AcceptDetails
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.ActualWeight)
		assert.InDelta(t, weight, *body.ActualWeight, 0.0001)
		require.NotNil(t, body.EstimatedArrival)
		assert.True(t, arrival.Equal(*body.EstimatedArrival))
		assert.Equal(t, "fragile", body.Notes)
		writeJSON(t, w, http.StatusOK, map[string]string{"id": "d9"})
	})

	err := client.AcceptDeliveryWithDetails(context.Background(), "d9", model.AcceptDetails{
		EstimatedArrival: &arrival,
		ActualWeight:     &weight,
		Notes:            "fragile",
	})
	require.NoError(t, err)
}

func TestRetryOnlyForGets(t *testing.T) {
	var gets, posts atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if gets.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = io.WriteString(w, "[]")
			return
		}
		posts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, WithRetryAttempts(3))

	payments, err := client.ListPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Equal(t, int32(3), gets.Load())

	_, err = client.SyncPackage(context.Background(), "d1")
	require.Error(t, err)
	assert.Equal(t, int32(1), posts.Load())
}

func TestDefaultClientDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListRemittances(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var apiErr *common.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestCancelledContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "[]")
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListAddresses(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestIDsAreUnique(t *testing.T) {
	seen := make(chan string, 2)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Header.Get(RequestIDHeader)
		_, _ = io.WriteString(w, "[]")
	})

	_, err := client.ListAddresses(context.Background())
	require.NoError(t, err)
	_, err = client.ListAddresses(context.Background())
	require.NoError(t, err)

	first, second := <-seen, <-seen
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
