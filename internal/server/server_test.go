package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaba-chine/kaba-admin/internal/appstate"
	"github.com/kaba-chine/kaba-admin/internal/certs"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/kaba-chine/kaba-admin/internal/service"
	"github.com/kaba-chine/kaba-admin/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret"

type testEnv struct {
	backend *testutil.FakeBackend
	db      *testutil.TestDB
	server  *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := testutil.NewFakeBackend(testutil.SampleDeliveries()...)
	adapter := normalize.NewAdapter(normalize.NewImageResolver("http://host/api", nil))
	e := engine.New(backend, adapter)
	e.SetClock(func() time.Time { return time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC) })

	db := testutil.SetupTestDB(t)
	state, err := appstate.Load(context.Background(), db.Storage, appstate.Credentials{Password: testPassword})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		backend: backend,
		db:      db,
		server:  New(e, backend, state, logger),
	}
}

func (env *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testPassword)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, rec, &body)
	return body.Error
}

func TestAuthGate(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "wrong password", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "right password", header: "Bearer " + testPassword, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
		})
	}
}

func TestHealthz_NoAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "rid-1")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rid-1", rec.Header().Get(HeaderRequestID))
}

func TestListDeliveries(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "all", query: "", wantIDs: []string{"d-1", "d-2", "d-3", "d-4"}},
		{name: "status", query: "?status=in-transit", wantIDs: []string{"d-2"}},
		{name: "method", query: "?method=boat", wantIDs: []string{"d-2", "d-4"}},
		{name: "search", query: "?search=kofi", wantIDs: []string{"d-2"}},
		{name: "status all", query: "?status=all", wantIDs: []string{"d-1", "d-2", "d-3", "d-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/deliveries"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var body struct {
				Deliveries []model.Delivery `json:"deliveries"`
				Total      int              `json:"total"`
			}
			decode(t, rec, &body)

			ids := make([]string, 0, len(body.Deliveries))
			for _, d := range body.Deliveries {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), body.Total)
		})
	}
}

func TestListDeliveries_InvalidCriteria(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/deliveries?status=lost", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMessage(t, rec), "lost")
}

func TestGetDelivery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/deliveries/d-4", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var d model.Delivery
	decode(t, rec, &d)
	assert.Equal(t, model.StatusCancelled, d.Status)
	assert.Equal(t, "Adresse invalide", d.CancellationReason)

	rec = env.do(t, http.MethodGet, "/api/deliveries/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Livraison introuvable", errorMessage(t, rec))
}

func TestAcceptDelivery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/deliveries/d-1/accept", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, env.backend.Calls("AcceptDelivery"))

	rec = env.do(t, http.MethodPost, "/api/deliveries/d-1/accept", `{"notes":"Colis fragile"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, env.backend.Calls("AcceptDeliveryWithDetails"))

	rec = env.do(t, http.MethodPost, "/api/deliveries/missing/accept", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/deliveries/d-1/accept", `{"notes":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectDelivery(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/deliveries/d-1/reject", `{"rejectionReason":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.backend.Rejected)

	rec = env.do(t, http.MethodPost, "/api/deliveries/d-1/reject", `{"rejectionReason":"Produit interdit"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Produit interdit", env.backend.Rejected["d-1"])
}

func TestBackendFailureIsBadGateway(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Err = &common.APIError{Method: http.MethodGet, Path: "/deliveries", StatusCode: http.StatusInternalServerError}

	rec := env.do(t, http.MethodGet, "/api/dashboard", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Le serveur KABA est indisponible", errorMessage(t, rec))
}

func TestListClients(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/clients?pendingOnly=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Clients []model.Client `json:"clients"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Clients, 1)
	assert.Equal(t, "user-1", body.Clients[0].ID)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Summary struct {
			TotalDeclaredValue decimal.Decimal `json:"totalDeclaredValue"`
			Total              int             `json:"total"`
		} `json:"summary"`
		Monthly []json.RawMessage `json:"monthly"`
	}
	decode(t, rec, &view)
	assert.Equal(t, 4, view.Summary.Total)
	assert.True(t, decimal.NewFromInt(650).Equal(view.Summary.TotalDeclaredValue))
	assert.Len(t, view.Monthly, 6)
}

func TestFinances_FallbackToDeliveries(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/finances", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view engine.FinanceView
	decode(t, rec, &view)
	assert.Len(t, view.Payments, 2)
	assert.True(t, decimal.NewFromInt(300).Equal(view.Stats.TotalAmount))
	assert.True(t, decimal.NewFromInt(30).Equal(view.Stats.Commission))
}

func TestListStatuses(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/statuses", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Statuses []statusMapping `json:"statuses"`
	}
	decode(t, rec, &body)
	require.Len(t, body.Statuses, len(model.DeliveryStatuses))

	byStatus := make(map[model.DeliveryStatus]statusMapping)
	for _, m := range body.Statuses {
		byStatus[m.Status] = m
	}
	assert.Equal(t, []string{"PENDING"}, byStatus[model.StatusPending].BackendStatuses)
	assert.Contains(t, byStatus[model.StatusInTransit].BackendStatuses, "OUT_FOR_DELIVERY")
	assert.Equal(t, "Livré", byStatus[model.StatusDelivered].Label)
}

func TestReport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/reports?period=month", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Period   report.Period           `json:"period"`
		Timeline []report.TimelinePoint `json:"timeline"`
	}
	decode(t, rec, &body)
	assert.Equal(t, report.PeriodMonth, body.Period)
	assert.Len(t, body.Timeline, 2)

	rec = env.do(t, http.MethodGet, "/api/reports?period=decade", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShippingRates(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/shipping-rates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/shipping-rates", `{"shippingMode":"AVION","basePrice":5000,"pricePerKg":8000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.ShippingRate
	decode(t, rec, &created)
	assert.Equal(t, "rate-1", created.ID)

	rec = env.do(t, http.MethodPatch, "/api/shipping-rates/rate-1", `{"pricePerKg":9000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/shipping-rates/rate-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/shipping-rates/rate-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/shipping-rates?activeOnly=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/api/shipping-rates/rate-1?softDelete=false", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.backend.Rates)

	rec = env.do(t, http.MethodGet, "/api/shipping-rates/rate-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShippingRates_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{name: "missing prices", method: http.MethodPost, path: "/api/shipping-rates", body: `{"shippingMode":"AVION"}`},
		{name: "unknown mode", method: http.MethodPost, path: "/api/shipping-rates", body: `{"shippingMode":"TRAIN","basePrice":1,"pricePerKg":1}`},
		{name: "weights reversed", method: http.MethodPatch, path: "/api/shipping-rates/rate-1", body: `{"minWeight":10,"maxWeight":5}`},
		{name: "bad json", method: http.MethodPatch, path: "/api/shipping-rates/rate-1", body: `{`},
		{name: "bad activeOnly", method: http.MethodGet, path: "/api/shipping-rates?activeOnly=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Zero(t, env.backend.Calls("CreateShippingRate"))
	assert.Zero(t, env.backend.Calls("UpdateShippingRate"))
}

func TestCommissionRate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/settings/commission-rate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rate":0.1,"percent":10}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/settings/commission-rate", `{"percent":12.5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"rate":0.125,"percent":12.5}`, rec.Body.String())
	assert.Equal(t, "0.125", env.db.MustGetSetting(service.SettingCommissionRate))

	for _, body := range []string{`{"percent":0}`, `{"percent":150}`, `{"percent":-1}`} {
		rec = env.do(t, http.MethodPut, "/api/settings/commission-rate", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRecovery(t *testing.T) {
	env := newTestEnv(t)
	env.server.router.GET("/panic", func(*gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Erreur interne", errorMessage(t, rec))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{name: "invalid input", err: common.ErrInvalidInput, want: http.StatusBadRequest},
		{name: "reason", err: common.ErrReasonRequired, want: http.StatusBadRequest},
		{name: "unauthorized", err: common.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "not found", err: common.ErrNotFound, want: http.StatusNotFound},
		{name: "backend 404", err: &common.APIError{StatusCode: http.StatusNotFound}, want: http.StatusNotFound},
		{name: "backend 500", err: &common.APIError{StatusCode: http.StatusInternalServerError}, want: http.StatusBadGateway},
		{name: "backend 400", err: &common.APIError{StatusCode: http.StatusBadRequest}, want: http.StatusBadGateway},
		{name: "missing config", err: common.ErrMissingConfig, want: http.StatusServiceUnavailable},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httpStatus(tt.err))
		})
	}
}

func TestListenAndServeTLS(t *testing.T) {
	env := newTestEnv(t)

	cert, err := certs.NewFileManager(t.TempDir()).GetOrCreateCertificate()
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- env.server.ListenAndServeTLS(ctx, addr, cert) }()

	client := &http.Client{
		Timeout:   time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}},
	}
	require.Eventually(t, func() bool {
		resp, err := client.Get("https://" + addr + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("gateway did not shut down")
	}
}
