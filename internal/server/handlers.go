package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kaba-chine/kaba-admin/internal/backend"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/filter"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/shopspring/decimal"
)

// queryParams flattens the query string, keeping the first value of each key.
func queryParams(values url.Values) map[string]string {
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

func (s *Server) listDeliveries(c *gin.Context) {
	criteria, err := filter.ParseCriteria(queryParams(c.Request.URL.Query()))
	if err != nil {
		fail(c, err)
		return
	}

	deliveries, err := s.engine.Deliveries(c.Request.Context(), criteria)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deliveries": deliveries, "total": len(deliveries)})
}

func (s *Server) getDelivery(c *gin.Context) {
	d, err := s.engine.Delivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type statusMapping struct {
	Status          model.DeliveryStatus `json:"status"`
	Label           string               `json:"label"`
	BackendStatuses []string             `json:"backendStatuses"`
}

// listStatuses tells the web dashboard which backend statuses fold into each display status.
func (s *Server) listStatuses(c *gin.Context) {
	out := make([]statusMapping, 0, len(model.DeliveryStatuses))
	for _, status := range model.DeliveryStatuses {
		out = append(out, statusMapping{
			Status:          status,
			Label:           status.Label(),
			BackendStatuses: normalize.BackendStatuses(status),
		})
	}
	c.JSON(http.StatusOK, gin.H{"statuses": out})
}

// acceptDelivery uses the detailed acceptance when the body carries any detail.
func (s *Server) acceptDelivery(c *gin.Context) {
	var details model.AcceptDetails
	if err := c.ShouldBindJSON(&details); err != nil && !errors.Is(err, io.EOF) {
		fail(c, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		return
	}

	id := c.Param("id")
	var err error
	if details.EstimatedArrival != nil || details.ActualWeight != nil || details.Notes != "" {
		err = s.backend.AcceptDeliveryWithDetails(c.Request.Context(), id, details)
	} else {
		err = s.backend.AcceptDelivery(c.Request.Context(), id)
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": model.StatusAccepted})
}

type rejectRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func (s *Server) rejectDelivery(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		return
	}

	id := c.Param("id")
	if err := s.backend.RejectDelivery(c.Request.Context(), id, req.RejectionReason); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": model.StatusCancelled})
}

func (s *Server) listClients(c *gin.Context) {
	criteria, err := filter.ParseClientCriteria(queryParams(c.Request.URL.Query()))
	if err != nil {
		fail(c, err)
		return
	}

	clients, err := s.engine.Clients(c.Request.Context(), criteria)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": len(clients)})
}

func (s *Server) dashboard(c *gin.Context) {
	view, err := s.engine.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) finances(c *gin.Context) {
	criteria, err := filter.ParsePaymentCriteria(queryParams(c.Request.URL.Query()))
	if err != nil {
		fail(c, err)
		return
	}

	view, err := s.engine.Finances(c.Request.Context(), criteria, s.state.CommissionRate())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) report(c *gin.Context) {
	period, err := report.ParsePeriod(c.Query("period"))
	if err != nil {
		fail(c, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		return
	}

	comparison, err := s.engine.Report(c.Request.Context(), period)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comparison)
}

func (s *Server) listRates(c *gin.Context) {
	activeOnly := false
	if v := c.Query("activeOnly"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			fail(c, fmt.Errorf("%w: activeOnly %q", common.ErrInvalidInput, v))
			return
		}
		activeOnly = parsed
	}

	rates, err := s.backend.ListShippingRates(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, err)
		return
	}
	if rates == nil {
		rates = []model.ShippingRate{}
	}
	c.JSON(http.StatusOK, rates)
}

func (s *Server) getRate(c *gin.Context) {
	rate, err := s.backend.GetShippingRate(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (s *Server) bindRateInput(c *gin.Context) (model.ShippingRateInput, bool) {
	var input model.ShippingRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		return input, false
	}
	if err := backend.ValidateRateInput(input); err != nil {
		fail(c, err)
		return input, false
	}
	return input, true
}

func (s *Server) createRate(c *gin.Context) {
	input, ok := s.bindRateInput(c)
	if !ok {
		return
	}
	if input.ShippingMode == nil || input.BasePrice == nil || input.PricePerKg == nil {
		fail(c, fmt.Errorf("%w: shippingMode, basePrice and pricePerKg are required", common.ErrInvalidInput))
		return
	}

	rate, err := s.backend.CreateShippingRate(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (s *Server) updateRate(c *gin.Context) {
	input, ok := s.bindRateInput(c)
	if !ok {
		return
	}

	rate, err := s.backend.UpdateShippingRate(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

func (s *Server) deleteRate(c *gin.Context) {
	soft := true
	if v := c.Query("softDelete"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			fail(c, fmt.Errorf("%w: softDelete %q", common.ErrInvalidInput, v))
			return
		}
		soft = parsed
	}

	if err := s.backend.DeleteShippingRate(c.Request.Context(), c.Param("id"), soft); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type commissionRateResponse struct {
	Rate    decimal.Decimal `json:"rate"`
	Percent decimal.Decimal `json:"percent"`
}

type commissionRateRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

func (s *Server) getCommissionRate(c *gin.Context) {
	c.JSON(http.StatusOK, commissionRateResponse{
		Rate:    s.state.CommissionRate(),
		Percent: s.state.CommissionPercent(),
	})
}

func (s *Server) setCommissionRate(c *gin.Context) {
	var req commissionRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		return
	}

	if err := s.state.SetCommissionPercent(c.Request.Context(), req.Percent); err != nil {
		fail(c, err)
		return
	}
	s.getCommissionRate(c)
}
