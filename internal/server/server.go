// Package server exposes the console's views and actions as a JSON API.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaba-chine/kaba-admin/internal/appstate"
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/model"
)

// Backend is the part of the KABA API the gateway changes state through.
type Backend interface {
	AcceptDelivery(ctx context.Context, id string) error
	AcceptDeliveryWithDetails(ctx context.Context, id string, details model.AcceptDetails) error
	RejectDelivery(ctx context.Context, id, reason string) error
	ListShippingRates(ctx context.Context, activeOnly bool) ([]model.ShippingRate, error)
	GetShippingRate(ctx context.Context, id string) (*model.ShippingRate, error)
	CreateShippingRate(ctx context.Context, input model.ShippingRateInput) (*model.ShippingRate, error)
	UpdateShippingRate(ctx context.Context, id string, input model.ShippingRateInput) (*model.ShippingRate, error)
	DeleteShippingRate(ctx context.Context, id string, soft bool) error
}

// Server serves the JSON gateway.
type Server struct {
	engine  *engine.Engine
	backend Backend
	state   *appstate.State
	logger  *slog.Logger
	router  *gin.Engine
}

// New wires the routes and middleware.
func New(e *engine.Engine, backend Backend, state *appstate.State, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		RequestID(),
		Logger(logger),
		Recovery(logger),
		ErrorHandler(logger),
	)

	s := &Server{
		engine:  e,
		backend: backend,
		state:   state,
		logger:  logger,
		router:  r,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api", RequireBearer(s.state))

	api.GET("/deliveries", s.listDeliveries)
	api.GET("/deliveries/:id", s.getDelivery)
	api.POST("/deliveries/:id/accept", s.acceptDelivery)
	api.POST("/deliveries/:id/reject", s.rejectDelivery)
	api.GET("/statuses", s.listStatuses)

	api.GET("/clients", s.listClients)
	api.GET("/dashboard", s.dashboard)
	api.GET("/finances", s.finances)
	api.GET("/reports", s.report)

	api.GET("/shipping-rates", s.listRates)
	api.GET("/shipping-rates/:id", s.getRate)
	api.POST("/shipping-rates", s.createRate)
	api.PATCH("/shipping-rates/:id", s.updateRate)
	api.DELETE("/shipping-rates/:id", s.deleteRate)

	api.GET("/settings/commission-rate", s.getCommissionRate)
	api.PUT("/settings/commission-rate", s.setCommissionRate)
}

// Handler returns the HTTP handler of the gateway.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return s.serve(ctx, s.httpServer(addr), func(srv *http.Server) error {
		return srv.ListenAndServe()
	})
}

// ListenAndServeTLS is ListenAndServe over HTTPS with cert.
func (s *Server) ListenAndServeTLS(ctx context.Context, addr string, cert tls.Certificate) error {
	srv := s.httpServer(addr)
	srv.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return s.serve(ctx, srv, func(srv *http.Server) error {
		return srv.ListenAndServeTLS("", "")
	})
}

func (s *Server) httpServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) serve(ctx context.Context, srv *http.Server, listen func(*http.Server) error) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Gateway listening", "addr", srv.Addr, "tls", srv.TLSConfig != nil)
		errCh <- listen(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down gateway: %w", err)
	}
	s.logger.Info("Gateway stopped")
	return nil
}
