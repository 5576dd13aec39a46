package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/tui/themes"
)

// DeliveryDetailModel shows every field of one delivery.
type DeliveryDetailModel struct {
	theme    themes.Theme
	currency string
	delivery model.Delivery
	width    int
}

// NewDeliveryDetailModel creates an empty detail view.
func NewDeliveryDetailModel(theme themes.Theme, currency string) DeliveryDetailModel {
	return DeliveryDetailModel{theme: theme, currency: currency}
}

// SetDelivery selects the delivery to show.
func (m *DeliveryDetailModel) SetDelivery(d model.Delivery) {
	m.delivery = d
}

// Delivery returns the delivery shown.
func (m DeliveryDetailModel) Delivery() model.Delivery {
	return m.delivery
}

// Resize updates the component width.
func (m *DeliveryDetailModel) Resize(width int) {
	m.width = width
}

// View renders the detail view.
func (m DeliveryDetailModel) View() string {
	d := m.delivery
	if d.ID == "" {
		return m.theme.StatusPending.Render("Aucune livraison sélectionnée")
	}

	title := m.theme.Title.Render(fmt.Sprintf("%s %s", themes.MethodIcon(d.DeliveryMethod), d.PackageName))
	status := m.theme.StatusStyle(d.Status).Render(d.Status.Label())

	fields := [][2]string{
		{"Suivi", d.TrackingNumber},
		{"Statut", status},
		{"Client", d.RecipientName},
		{"Téléphone", d.RecipientPhone},
		{"Mode", methodShort(d.DeliveryMethod)},
		{"Livraison à domicile", cli.YesNo(d.HomeDelivery)},
		{"Valeur déclarée", cli.FormatMoney(d.DeclaredValue, m.currency)},
		{"Poids", fmt.Sprintf("%.2f kg", d.Weight)},
		{"Paiement", m.theme.PaymentStyle(d.PaymentStatus).Render(PaymentLabel(d.PaymentStatus))},
		{"Créée le", cli.FormatDateTime(d.CreatedAt)},
		{"Arrivée estimée", cli.FormatDatePtr(d.EstimatedArrival)},
	}
	if d.ActualWeight != nil {
		fields = append(fields, [2]string{"Poids réel", fmt.Sprintf("%.2f kg", *d.ActualWeight)})
	}
	if d.AfalikaBatchID != "" {
		fields = append(fields, [2]string{"Lot Afalika", d.AfalikaBatchID})
	}
	if d.Notes != "" {
		fields = append(fields, [2]string{"Notes", d.Notes})
	}
	if d.CancellationReason != "" {
		fields = append(fields, [2]string{"Motif du refus", m.theme.StatusError.Render(d.CancellationReason)})
	}
	if d.ProductImage != "" {
		fields = append(fields, [2]string{"Photo du produit", d.ProductImage})
	}
	if d.PurchaseProofImage != "" {
		fields = append(fields, [2]string{"Preuve d'achat", d.PurchaseProofImage})
	}

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%-22s %s", f[0]+":", f[1]))
	}

	sections := []string{title, "", strings.Join(lines, "\n")}
	if len(d.Payments) > 0 {
		sections = append(sections, "", m.theme.Subtitle.Render("Paiements"), m.renderPayments())
	}

	box := m.theme.RoundedBox
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m DeliveryDetailModel) renderPayments() string {
	lines := make([]string, 0, len(m.delivery.Payments))
	for _, p := range m.delivery.Payments {
		lines = append(lines, fmt.Sprintf("%-10s %-12s %s",
			cli.FormatDatePtr(p.PaymentDate),
			p.PaymentStatus,
			cli.FormatMoney(p.Amount, m.currency),
		))
	}
	return strings.Join(lines, "\n")
}
