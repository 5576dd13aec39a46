package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kaba-chine/kaba-admin/internal/tui/components"
)

var viewTitles = []struct {
	title string
	view  View
}{
	{title: "Vue d'ensemble", view: ViewOverview},
	{title: "Livraisons", view: ViewDeliveries},
}

// View renders the UI. A panic while rendering odd data becomes an error line.
func (m Model) View() (out string) {
	if m.quitting {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			out = m.renderHeader() + "\n" + m.theme.StatusError.Render(fmt.Sprintf("Erreur d'affichage: %v", r)) + "\n"
		}
	}()

	sections := []string{m.renderHeader()}
	if m.dashboard == nil && m.loading {
		sections = append(sections, m.spinner.View()+" Chargement des livraisons...")
	} else {
		sections = append(sections, m.renderBody())
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	tabs := make([]string, 0, len(viewTitles))
	for _, t := range viewTitles {
		active := t.view == m.view || (t.view == ViewDeliveries && m.view == ViewDetail)
		if active {
			tabs = append(tabs, m.theme.TabActive.Render(t.title))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(t.title))
		}
	}

	title := m.theme.Title.Render("📦 KABA Chine")
	header := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title, "  "}, tabs...)...)
	if m.loading && m.dashboard != nil {
		header += "  " + m.spinner.View()
	}
	return header + "\n"
}

func (m Model) renderBody() string {
	switch m.view {
	case ViewDeliveries:
		return m.renderFilters() + "\n" + m.table.View()
	case ViewDetail:
		return m.detail.View()
	default:
		return m.overview.View()
	}
}

func (m Model) renderFilters() string {
	status := "tous"
	if s := statusFilters[m.statusIdx]; s != "" {
		status = s.Label()
	}
	payment := "tous"
	if p := paymentFilters[m.paymentIdx]; p != "" {
		payment = components.PaymentLabel(p)
	}

	return m.theme.Subtitle.Render(fmt.Sprintf("Statut: %s  ·  Paiement: %s  ·  %d/%d livraisons",
		status, payment, len(m.visible), len(m.deliveries)))
}

func (m Model) renderFooter() string {
	var lines []string
	if m.lastError != nil {
		lines = append(lines, m.theme.StatusError.Render("Erreur: "+m.lastError.Error()))
	}
	lines = append(lines, m.help.View(m.keymap))
	return "\n" + strings.Join(lines, "\n")
}
