package report

import (
	"testing"
	"time"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveClients(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "d1", ClientID: "u1", RecipientName: "Ama", RecipientPhone: "+1", DeclaredValue: dec(100),
			CreatedAt: at(2025, 3, 1), Status: model.StatusPending, BackendStatus: "PENDING", HomeDelivery: true},
		{ID: "d2", ClientID: "u2", RecipientName: "Kofi", RecipientPhone: "+2", DeclaredValue: dec(50),
			CreatedAt: at(2025, 2, 1), Status: model.StatusDelivered},
		{ID: "d3", ClientID: "", RecipientName: "Orphan", DeclaredValue: dec(999), CreatedAt: at(2025, 3, 5)},
		{ID: "d4", ClientID: "u1", RecipientName: "Ama Bis", RecipientPhone: "+9", DeclaredValue: dec(250),
			CreatedAt: at(2025, 1, 10), Status: model.StatusInTransit, HomeDelivery: false},
		{ID: "d5", ClientID: "u1", DeclaredValue: dec(10), CreatedAt: at(2025, 3, 12), Status: model.StatusPending, BackendStatus: "PENDING", HomeDelivery: true},
	}

	clients := DeriveClients(deliveries)

	require.Len(t, clients, 2)
	ama := clients[0]
	assert.Equal(t, "u1", ama.ID)
	assert.Equal(t, "Ama", ama.Name)
	assert.Equal(t, "+1", ama.Phone)
	assert.Equal(t, 3, ama.DeliveryCount)
	assert.Equal(t, 2, ama.PendingDeliveryCount)
	assert.Len(t, ama.PendingDeliveries, 2)
	assert.True(t, dec(360).Equal(ama.TotalSpent))
	assert.True(t, ama.PreferHomeDelivery)
	require.NotNil(t, ama.LastDeliveryDate)
	assert.Equal(t, at(2025, 3, 12), *ama.LastDeliveryDate)

	kofi := clients[1]
	assert.Equal(t, "u2", kofi.ID)
	assert.Equal(t, 1, kofi.DeliveryCount)
	assert.Equal(t, 0, kofi.PendingDeliveryCount)
	assert.False(t, kofi.PreferHomeDelivery)
}

func TestDeriveClients_PendingUsesBackendStatus(t *testing.T) {
	tests := []struct {
		name          string
		backendStatus string
		want          int
	}{
		{name: "backend pending", backendStatus: "PENDING", want: 1},
		{name: "unknown status shown as pending", backendStatus: "REJECTED", want: 0},
		{name: "empty status", backendStatus: "", want: 0},
		{name: "accepted", backendStatus: "ACCEPTED", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deliveries := []model.Delivery{{
				ID: "d1", ClientID: "u1", CreatedAt: at(2025, 3, 1),
				Status: normalize.MapDeliveryStatus(tt.backendStatus), BackendStatus: tt.backendStatus,
			}}

			clients := DeriveClients(deliveries)

			require.Len(t, clients, 1)
			assert.Equal(t, tt.want, clients[0].PendingDeliveryCount)
			assert.Len(t, clients[0].PendingDeliveries, tt.want)
		})
	}
}

func TestDeriveClients_PreferenceFollowsLastProcessed(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "new", ClientID: "u1", CreatedAt: at(2025, 3, 1), HomeDelivery: true},
		{ID: "old", ClientID: "u1", CreatedAt: at(2024, 1, 1), HomeDelivery: false},
	}

	clients := DeriveClients(deliveries)

	require.Len(t, clients, 1)
	assert.False(t, clients[0].PreferHomeDelivery)
	assert.Equal(t, at(2025, 3, 1), *clients[0].LastDeliveryDate)
}

func TestDeriveClients_Empty(t *testing.T) {
	assert.Empty(t, DeriveClients(nil))
	assert.NotNil(t, DeriveClients(nil))
}

func TestPaymentsFromDeliveries(t *testing.T) {
	paid := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	deliveries := []model.Delivery{
		{
			ID: "d1", TrackingNumber: "KB-1", DeclaredValue: dec(5000), CreatedAt: at(2025, 3, 1),
			AfalikaBatchID: "batch-1",
			Payments: []model.BackendPayment{
				{ID: "p1", Amount: dec(2000), PaymentStatus: "PAID", PaymentDate: &paid, TransactionID: "tx-1"},
				{ID: "p2", Amount: dec(3000), PaymentStatus: "PENDING"},
			},
		},
		{ID: "d2", TrackingNumber: "KB-2", CreatedAt: at(2025, 3, 2)},
	}

	payments := PaymentsFromDeliveries(deliveries)

	require.Len(t, payments, 2)
	assert.Equal(t, "p1", payments[0].ID)
	assert.Equal(t, paid, payments[0].PaymentDate)
	assert.Equal(t, "tx-1", payments[0].TransactionID)
	assert.Equal(t, "mobile_money", payments[0].Method)
	assert.Equal(t, model.PaymentTypeFull, payments[0].PaymentType)
	assert.Equal(t, "KB-1", payments[0].TrackingNumber)
	assert.Equal(t, "d1", payments[0].DeliveryID)
	assert.True(t, payments[0].NotifiedToAfalika)
	require.NotNil(t, payments[0].TotalAmount)
	assert.True(t, dec(5000).Equal(*payments[0].TotalAmount))

	assert.Equal(t, at(2025, 3, 1), payments[1].PaymentDate)
	assert.Empty(t, PaymentsFromDeliveries(nil))
}

func TestMarkDefaultAddresses(t *testing.T) {
	addresses := []model.Address{
		{ID: "a1", KabaUserID: "u1"},
		{ID: "a2", KabaUserID: "u2"},
		{ID: "a3", KabaUserID: "u1"},
		{ID: "a4", KabaUserID: "u1"},
	}

	marked := MarkDefaultAddresses(addresses)

	require.Len(t, marked, 4)
	assert.True(t, marked[0].IsDefault)
	assert.Equal(t, "Adresse principale", marked[0].Label)
	assert.True(t, marked[1].IsDefault)
	assert.False(t, marked[2].IsDefault)
	assert.Equal(t, "Adresse secondaire 1", marked[2].Label)
	assert.Equal(t, "Adresse secondaire 2", marked[3].Label)
	assert.False(t, addresses[2].IsDefault)
	assert.Empty(t, addresses[0].Label)
}
