package components

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/tui/themes"
)

// DeliveryTableModel lists deliveries in a scrollable table.
type DeliveryTableModel struct {
	table      table.Model
	theme      themes.Theme
	currency   string
	deliveries []model.Delivery
}

var deliveryColumns = []table.Column{
	{Title: "Suivi", Width: 14},
	{Title: "Colis", Width: 20},
	{Title: "Client", Width: 18},
	{Title: "Statut", Width: 11},
	{Title: "Mode", Width: 6},
	{Title: "Paiement", Width: 10},
	{Title: "Valeur", Width: 14},
	{Title: "Date", Width: 10},
}

// NewDeliveryTableModel creates an empty, focused table.
func NewDeliveryTableModel(theme themes.Theme, currency string) DeliveryTableModel {
	t := table.New(
		table.WithColumns(deliveryColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = theme.Selected
	t.SetStyles(styles)

	return DeliveryTableModel{
		table:    t,
		theme:    theme,
		currency: currency,
	}
}

// SetDeliveries replaces the rows and keeps the cursor in range.
func (m *DeliveryTableModel) SetDeliveries(deliveries []model.Delivery) {
	m.deliveries = deliveries

	rows := make([]table.Row, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, table.Row{
			d.TrackingNumber,
			cli.Truncate(d.PackageName, 20),
			cli.Truncate(d.RecipientName, 18),
			d.Status.Label(),
			methodShort(d.DeliveryMethod),
			PaymentLabel(d.PaymentStatus),
			cli.FormatMoney(d.DeclaredValue, m.currency),
			cli.FormatDate(d.CreatedAt),
		})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Selected returns the delivery under the cursor.
func (m DeliveryTableModel) Selected() (model.Delivery, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.deliveries) {
		return model.Delivery{}, false
	}
	return m.deliveries[cursor], true
}

// Len returns the number of rows.
func (m DeliveryTableModel) Len() int {
	return len(m.deliveries)
}

// Resize fits the table in the given area.
func (m *DeliveryTableModel) Resize(width, height int) {
	m.table.SetWidth(width)
	m.table.SetHeight(max(3, height))
}

// Update moves the cursor.
func (m DeliveryTableModel) Update(msg tea.Msg) (DeliveryTableModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m DeliveryTableModel) View() string {
	if len(m.deliveries) == 0 {
		return m.theme.StatusPending.Render("Aucune livraison ne correspond aux filtres")
	}
	return m.table.View()
}

func methodShort(method model.DeliveryMethod) string {
	if method == model.MethodBoat {
		return "Bateau"
	}
	return "Avion"
}

// PaymentLabel returns the French label of a payment status.
func PaymentLabel(status model.PaymentStatus) string {
	switch status {
	case model.PaymentPaid:
		return "Payé"
	case model.PaymentPartial:
		return "Partiel"
	case model.PaymentRefunded:
		return "Remboursé"
	case model.PaymentFailed:
		return "Échoué"
	case model.PaymentPending:
		return "En attente"
	default:
		return string(status)
	}
}
