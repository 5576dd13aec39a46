package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Views
	NextView key.Binding
	Select   key.Binding
	Back     key.Binding

	// Filters
	CycleStatus  key.Binding
	CyclePayment key.Binding
	ClearFilters key.Binding

	// Application
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "monter"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "descendre"),
		),

		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "changer de vue"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Entrée", "détails"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("Échap", "retour"),
		),

		CycleStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "filtrer par statut"),
		),
		CyclePayment: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "filtrer par paiement"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "effacer les filtres"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "actualiser"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "aide"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quitter"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Select, k.CycleStatus, k.CyclePayment, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns every binding, grouped by column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.Select, k.Back},
		{k.CycleStatus, k.CyclePayment, k.ClearFilters},
		{k.Refresh, k.Help, k.Quit},
	}
}
