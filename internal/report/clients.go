package report

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/normalize"
	"github.com/shopspring/decimal"
)

// DeriveClients groups deliveries by owning user into clients, in first-seen order.
// Name and phone come from the client's first delivery; the home-delivery preference
// follows the last one processed. Deliveries without a user id are skipped.
// Only deliveries the backend reports as PENDING count as pending; statuses the
// mapper does not know are displayed as pending but not counted.
func DeriveClients(deliveries []model.Delivery) []model.Client {
	index := make(map[string]int)
	var clients []model.Client

	for _, d := range deliveries {
		if d.ClientID == "" {
			slog.Warn("delivery without client id", "delivery_id", d.ID)
			continue
		}

		i, ok := index[d.ClientID]
		if !ok {
			i = len(clients)
			index[d.ClientID] = i
			clients = append(clients, model.Client{
				ID:                d.ClientID,
				Name:              d.RecipientName,
				Phone:             d.RecipientPhone,
				TotalSpent:        decimal.Zero,
				PendingDeliveries: []model.Delivery{},
			})
		}

		c := &clients[i]
		c.DeliveryCount++
		c.TotalSpent = c.TotalSpent.Add(d.DeclaredValue)
		c.PreferHomeDelivery = d.HomeDelivery

		if c.LastDeliveryDate == nil || d.CreatedAt.After(*c.LastDeliveryDate) {
			created := d.CreatedAt
			c.LastDeliveryDate = &created
		}

		if backendPending(d) {
			c.PendingDeliveryCount++
			c.PendingDeliveries = append(c.PendingDeliveries, d)
		}
	}

	if clients == nil {
		return []model.Client{}
	}
	return clients
}

func backendPending(d model.Delivery) bool {
	return slices.Contains(normalize.BackendStatuses(model.StatusPending), d.BackendStatus)
}

// PaymentsFromDeliveries extracts finance rows from the payments embedded in deliveries.
// It backs the finance view when the payments endpoint returns nothing.
func PaymentsFromDeliveries(deliveries []model.Delivery) []model.Payment {
	var out []model.Payment
	for _, d := range deliveries {
		total := d.DeclaredValue
		for _, p := range d.Payments {
			date := d.CreatedAt
			if p.PaymentDate != nil {
				date = *p.PaymentDate
			}
			out = append(out, model.Payment{
				ID:                p.ID,
				Amount:            p.Amount,
				PaymentStatus:     p.PaymentStatus,
				PaymentDate:       date,
				TransactionID:     p.TransactionID,
				Method:            "mobile_money",
				TrackingNumber:    d.TrackingNumber,
				DeliveryID:        d.ID,
				NotifiedToAfalika: d.AfalikaBatchID != "",
				PaymentType:       model.PaymentTypeFull,
				TotalAmount:       &total,
			})
		}
	}
	if out == nil {
		return []model.Payment{}
	}
	return out
}

// MarkDefaultAddresses flags the first address of each user as the default and labels
// the others, leaving the input untouched.
func MarkDefaultAddresses(addresses []model.Address) []model.Address {
	seen := make(map[string]int, len(addresses))
	out := make([]model.Address, len(addresses))
	for i, a := range addresses {
		n := seen[a.KabaUserID]
		seen[a.KabaUserID] = n + 1

		a.IsDefault = n == 0
		if a.IsDefault {
			a.Label = "Adresse principale"
		} else {
			a.Label = fmt.Sprintf("Adresse secondaire %d", n)
		}
		out[i] = a
	}
	return out
}

// ClientNames maps client ids to display names.
func ClientNames(clients []model.Client) map[string]string {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names
}
