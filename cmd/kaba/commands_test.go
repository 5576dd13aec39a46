package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/engine"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/kaba-chine/kaba-admin/internal/sheets"
	"github.com/kaba-chine/kaba-admin/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(fake *testutil.FakeBackend) *engine.Engine {
	adapter := normalize.NewAdapter(normalize.NewImageResolver("http://localhost:3000/api", nil))
	return engine.New(fake, adapter)
}

func adapted(t *testing.T) []model.Delivery {
	t.Helper()
	adapter := normalize.NewAdapter(normalize.NewImageResolver("http://localhost:3000/api", nil))
	return adapter.AdaptAll(testutil.SampleDeliveries())
}

func TestRenderDelivery(t *testing.T) {
	deliveries := adapted(t)

	var buf bytes.Buffer
	require.NoError(t, renderDelivery(&buf, deliveries[3], "XOF"))
	out := buf.String()
	assert.Contains(t, out, "Livraison d-4")
	assert.Contains(t, out, "Annulé")
	assert.Contains(t, out, "Adresse invalide")
	assert.Contains(t, out, "Bateau")

	buf.Reset()
	require.NoError(t, renderDelivery(&buf, deliveries[2], "XOF"))
	out = buf.String()
	assert.Contains(t, out, "Paiements")
	assert.Contains(t, out, "Acompte")
	assert.Contains(t, out, "À domicile")
	assert.NotContains(t, out, "Motif d'annulation")
}

func TestAcceptDetails(t *testing.T) {
	tests := []struct {
		flags        map[string]string
		name         string
		wantDetailed bool
		wantErr      bool
	}{
		{name: "no flags is a simple accept", flags: map[string]string{}},
		{name: "notes", flags: map[string]string{"notes": "fragile"}, wantDetailed: true},
		{name: "weight and eta", flags: map[string]string{"weight": "2.5", "eta": "2025-04-01"}, wantDetailed: true},
		{name: "bad eta", flags: map[string]string{"eta": "01/04/2025"}, wantErr: true},
		{name: "zero weight", flags: map[string]string{"weight": "0"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := deliveriesAcceptCmd()
			for k, v := range tt.flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}
			details, detailed, err := acceptDetails(cmd)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDetailed, detailed)
			if eta := tt.flags["eta"]; eta != "" {
				require.NotNil(t, details.EstimatedArrival)
				assert.Equal(t, eta, details.EstimatedArrival.Format(time.DateOnly))
			}
		})
	}
}

func TestDeliveryActionError(t *testing.T) {
	err := deliveryActionError("rejetée", common.ErrReasonRequired)
	assert.Equal(t, "Un motif de rejet est requis", userMessage(err))
	assert.ErrorIs(t, err, common.ErrReasonRequired)

	err = deliveryActionError("acceptée", &common.APIError{StatusCode: 404})
	assert.Equal(t, "Livraison introuvable", userMessage(err))

	err = deliveryActionError("acceptée", &common.APIError{StatusCode: 500})
	assert.Equal(t, "La livraison n'a pas pu être acceptée", userMessage(err))
}

func TestRateInput(t *testing.T) {
	t.Run("only changed flags are sent", func(t *testing.T) {
		cmd := ratesUpdateCmd()
		require.NoError(t, cmd.Flags().Set("price-per-unit", "8500"))

		input, err := rateInput(cmd)
		require.NoError(t, err)
		require.NotNil(t, input.PricePerKg)
		assert.True(t, input.PricePerKg.Equal(decimal.NewFromInt(8500)))
		assert.Nil(t, input.BasePrice)
		assert.Nil(t, input.ShippingMode)
		assert.Nil(t, input.IsActive)
	})

	t.Run("mode is upper-cased", func(t *testing.T) {
		cmd := ratesCreateCmd()
		require.NoError(t, cmd.Flags().Set("mode", "bateau"))
		require.NoError(t, cmd.Flags().Set("base-price", "1000,5"))

		input, err := rateInput(cmd)
		require.NoError(t, err)
		assert.Equal(t, model.ShippingModeSea, *input.ShippingMode)
		assert.Equal(t, "1000.5", input.BasePrice.String())
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		for _, flags := range []map[string]string{
			{"mode": "TRAIN"},
			{"base-price": "abc"},
			{"min-weight": "10", "max-weight": "5"},
			{"insurance": "120"},
		} {
			cmd := ratesCreateCmd()
			for k, v := range flags {
				require.NoError(t, cmd.Flags().Set(k, v))
			}
			_, err := rateInput(cmd)
			assert.ErrorIs(t, err, common.ErrInvalidInput, "flags %v", flags)
		}
	})
}

func TestWeightRange(t *testing.T) {
	maxWeight := 30.0
	assert.Equal(t, "≥ 0 kg", weightRange(model.ShippingRate{ShippingMode: model.ShippingModeAir}))
	assert.Equal(t, "1-30 CBM", weightRange(model.ShippingRate{ShippingMode: model.ShippingModeSea, MinWeight: 1, MaxWeight: &maxWeight}))
}

func TestUnsyncedDeliveryIDs(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "a", Status: model.StatusAccepted},
		{ID: "b", Status: model.StatusCollected, AfalikaBatchID: "batch-1"},
		{ID: "c", Status: model.StatusCollected},
		{ID: "d", Status: model.StatusPending},
		{ID: "e", Status: model.StatusInTransit},
	}
	assert.Equal(t, []string{"a", "c"}, unsyncedDeliveryIDs(deliveries))
	assert.Empty(t, unsyncedDeliveryIDs(nil))
}

type scriptedSyncer struct {
	responses map[string]*model.SyncResponse
	errs      map[string]error
	cancel    context.CancelFunc
	cancelAt  string
	calls     []string
}

func (s *scriptedSyncer) SyncPackage(_ context.Context, id string) (*model.SyncResponse, error) {
	s.calls = append(s.calls, id)
	if id == s.cancelAt && s.cancel != nil {
		s.cancel()
		return nil, context.Canceled
	}
	if err := s.errs[id]; err != nil {
		return nil, err
	}
	if resp := s.responses[id]; resp != nil {
		return resp, nil
	}
	return &model.SyncResponse{Success: true}, nil
}

func TestSyncPackages(t *testing.T) {
	t.Run("collects successes and failures", func(t *testing.T) {
		syncer := &scriptedSyncer{
			errs:      map[string]error{"b": errors.New("boom")},
			responses: map[string]*model.SyncResponse{"c": {Success: false, Message: "déjà synchronisé"}},
		}
		steps := 0
		result := syncPackages(context.Background(), syncer, []string{"a", "b", "c", "d"}, func() { steps++ })

		assert.Equal(t, []string{"a", "d"}, result.Synced)
		assert.Len(t, result.Failed, 2)
		assert.EqualError(t, result.Failed["c"], "déjà synchronisé")
		assert.Equal(t, 4, steps)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		syncer := &scriptedSyncer{cancel: cancel, cancelAt: "b"}

		result := syncPackages(ctx, syncer, []string{"a", "b", "c"}, nil)

		assert.Equal(t, []string{"a"}, result.Synced)
		assert.Empty(t, result.Failed)
		assert.Equal(t, []string{"a", "b"}, syncer.calls)
	})

	t.Run("works with the fake backend", func(t *testing.T) {
		fake := testutil.NewFakeBackend()
		result := syncPackages(context.Background(), fake, []string{"x", "y"}, nil)
		assert.Equal(t, []string{"x", "y"}, result.Synced)
		assert.Equal(t, []string{"x", "y"}, fake.Synced)
	})
}

func TestFailedLogs(t *testing.T) {
	logs := []model.SyncLog{
		{ID: "1", Operation: "sync"},
		{ID: "2", Operation: "sync", ErrorMessage: "timeout"},
	}
	got := failedLogs(logs)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	var buf bytes.Buffer
	require.NoError(t, renderSyncLogs(&buf, logs))
	assert.Contains(t, buf.String(), "timeout")
	assert.Contains(t, buf.String(), "OK")
}

func TestExportReport(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.1")
	profit := decimal.RequireFromString("0.3")

	t.Run("writes every tab", func(t *testing.T) {
		writer := sheets.NewMockWriter()
		data, err := exportReport(context.Background(), newTestEngine(testutil.NewFakeBackend(testutil.SampleDeliveries()...)), writer, rate, profit, now)
		require.NoError(t, err)

		assert.Equal(t, 1, writer.WriteCallCount)
		assert.Same(t, data, writer.LastData)
		assert.Len(t, data.Deliveries, 4)
		assert.Len(t, data.Clients, 3)
		require.NotEmpty(t, data.Commissions)
		assert.True(t, data.Commissions[0].TotalAmount.Equal(decimal.NewFromInt(300)), "payments embedded in deliveries are exported")
	})

	t.Run("write failure", func(t *testing.T) {
		writer := sheets.NewMockWriter()
		writer.SetWriteError(errors.New("quota exceeded"))
		_, err := exportReport(context.Background(), newTestEngine(testutil.NewFakeBackend(testutil.SampleDeliveries()...)), writer, rate, profit, now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("backend failure", func(t *testing.T) {
		fake := testutil.NewFakeBackend()
		fake.Err = &common.APIError{StatusCode: 503}
		writer := sheets.NewMockWriter()
		_, err := exportReport(context.Background(), newTestEngine(fake), writer, rate, profit, now)
		require.ErrorIs(t, err, common.ErrBackend)
		assert.Zero(t, writer.WriteCallCount)
	})
}

func TestRenderPeriodReport(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	comparison := report.PeriodReport(adapted(t), report.PeriodMonth, now)

	var buf bytes.Buffer
	require.NoError(t, renderPeriodReport(&buf, comparison))
	out := buf.String()
	assert.Contains(t, out, "Rapport ce mois")
	assert.Contains(t, out, "En transit")
	assert.Contains(t, out, "Total actif")
}

func TestRenderFinanceStats(t *testing.T) {
	payments := report.PaymentsFromDeliveries(adapted(t))
	stats := report.FinanceSummary(payments, nil, decimal.RequireFromString("0.1"))

	var buf bytes.Buffer
	require.NoError(t, renderFinanceStats(&buf, stats, "XOF"))
	out := buf.String()
	assert.Contains(t, out, "300 XOF")
	assert.Contains(t, out, "Commission KABA (10 %)")
	assert.Contains(t, out, "30 XOF")
}

func TestFlagParams(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("status", "", "")
	cmd.Flags().String("payment-status", "", "")
	cmd.Flags().String("search", "", "")
	require.NoError(t, cmd.Flags().Set("payment-status", "paid"))
	require.NoError(t, cmd.Flags().Set("search", "ama"))

	params := flagParams(cmd, map[string]string{
		"status":         "status",
		"payment-status": "paymentStatus",
		"search":         "search",
		"missing":        "missing",
	})
	assert.Equal(t, map[string]string{"paymentStatus": "paid", "search": "ama"}, params)
}

func TestMessagesAndConversations(t *testing.T) {
	at := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	renderMessages(&buf, []model.Message{
		{Content: "Bonjour, où est mon colis ?", SenderType: model.SenderUser, CreatedAt: at},
		{Content: "Il arrive demain.", SenderType: model.SenderAdmin, CreatedAt: at.Add(time.Hour)},
	})
	out := buf.String()
	assert.Contains(t, out, "[02/03/2025 09:30] Client:")
	assert.Contains(t, out, "[02/03/2025 10:30] KABA:")

	buf.Reset()
	renderMessages(&buf, nil)
	assert.Contains(t, buf.String(), "Aucun message")

	conversations := []model.Conversation{{ID: "c1", UnreadCount: 2}, {ID: "c2"}}
	unread := unreadConversations(conversations)
	require.Len(t, unread, 1)
	assert.Equal(t, "c1", unread[0].ID)
}

func TestRenderTimeline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTimeline(&buf, report.DeliveryTimeline(adapted(t), time.UTC)))
	out := buf.String()
	assert.Contains(t, out, "Livraisons par mois")
	assert.Contains(t, out, "3")

	buf.Reset()
	require.NoError(t, renderTimeline(&buf, nil))
	assert.Contains(t, buf.String(), "Aucune livraison")
}

func TestRenderStatusTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderStatusTable(&buf))
	out := buf.String()
	for _, status := range normalize.KnownDeliveryStatuses() {
		assert.Contains(t, out, status)
	}
	assert.Contains(t, out, "En transit")
	assert.Contains(t, out, "Annulé")
}
