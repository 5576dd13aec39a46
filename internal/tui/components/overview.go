// Package components contains the panels of the terminal dashboard.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/kaba-chine/kaba-admin/internal/cli"
	"github.com/kaba-chine/kaba-admin/internal/model"
	"github.com/kaba-chine/kaba-admin/internal/report"
	"github.com/kaba-chine/kaba-admin/internal/tui/themes"
	"github.com/shopspring/decimal"
)

// OverviewModel displays the headline counts and the monthly revenue series.
type OverviewModel struct {
	theme    themes.Theme
	summary  report.Summary
	monthly  []report.MonthBucket
	bar      progress.Model
	currency string
	width    int
}

// NewOverviewModel creates an empty overview panel.
func NewOverviewModel(theme themes.Theme, currency string) OverviewModel {
	bar := progress.New(
		progress.WithSolidFill(string(theme.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(24),
	)
	return OverviewModel{
		theme:    theme,
		bar:      bar,
		currency: currency,
		summary:  report.Summarize(nil),
	}
}

// SetData replaces the figures shown.
func (m *OverviewModel) SetData(summary report.Summary, monthly []report.MonthBucket) {
	m.summary = summary
	m.monthly = monthly
}

// Resize updates the component width.
func (m *OverviewModel) Resize(width int) {
	m.width = width
	m.bar.Width = max(10, min(width/3, 40))
}

// View renders the overview.
func (m OverviewModel) View() string {
	sections := []string{
		m.renderHeadline(),
		m.renderStatuses(),
		m.renderMethods(),
		m.renderMonthly(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m OverviewModel) renderHeadline() string {
	total := m.theme.Bold.Render(fmt.Sprintf("%d livraisons", m.summary.Total))
	value := m.theme.Bold.Render(cli.FormatMoney(m.summary.TotalDeclaredValue, m.currency))
	active := m.summary.StatusCounts[model.StatusAccepted] +
		m.summary.StatusCounts[model.StatusCollected] +
		m.summary.StatusCounts[model.StatusInTransit]

	return m.theme.RoundedBox.Render(fmt.Sprintf("%s  ·  valeur déclarée %s  ·  %d en cours", total, value, active)) + "\n"
}

// renderStatuses draws one bar per status, scaled on the total.
func (m OverviewModel) renderStatuses() string {
	title := m.theme.Subtitle.Render("Par statut")

	lines := make([]string, 0, len(model.DeliveryStatuses))
	for _, status := range model.DeliveryStatuses {
		count := m.summary.StatusCounts[status]
		lines = append(lines, fmt.Sprintf("%-12s %s %s",
			status.Label(),
			m.bar.ViewAs(share(count, m.summary.Total)),
			m.theme.StatusStyle(status).Render(fmt.Sprintf("%d", count)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n")) + "\n"
}

func (m OverviewModel) renderMethods() string {
	title := m.theme.Subtitle.Render("Par mode")
	line := fmt.Sprintf("%s Avion %d    %s Bateau %d",
		themes.MethodIcon(model.MethodPlane), m.summary.MethodCounts[model.MethodPlane],
		themes.MethodIcon(model.MethodBoat), m.summary.MethodCounts[model.MethodBoat],
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, line) + "\n"
}

// renderMonthly draws the revenue of each month relative to the best month.
func (m OverviewModel) renderMonthly() string {
	title := m.theme.Subtitle.Render("Revenus mensuels")
	if len(m.monthly) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.StatusPending.Render("Aucune donnée"))
	}

	best := decimal.Zero
	for _, b := range m.monthly {
		if b.Revenue.GreaterThan(best) {
			best = b.Revenue
		}
	}

	lines := make([]string, 0, len(m.monthly))
	for _, b := range m.monthly {
		ratio := 0.0
		if best.IsPositive() {
			ratio = b.Revenue.Div(best).InexactFloat64()
		}
		lines = append(lines, fmt.Sprintf("%-10s %s %s  (bénéfice %s)",
			b.Label(),
			m.bar.ViewAs(ratio),
			cli.FormatMoney(b.Revenue, m.currency),
			cli.FormatMoney(b.Profit, m.currency),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total)
}
