package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Prompt        lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Section       lipgloss.Style
	Match         lipgloss.Style
	SelectionBg   lipgloss.Style
	ResultTitle   lipgloss.Style
	Category      lipgloss.Style
	Tag           lipgloss.Style
	Date          lipgloss.Style
	Preview       lipgloss.Style
	HistoryItem   lipgloss.Style
	ConfirmBox    lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		Confirm: lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Match:       lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		ResultTitle: lipgloss.NewStyle().Bold(true),
		Category:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Tag:         lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // blue
		Date:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		Preview:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		HistoryItem: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ConfirmBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("214")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
	}
}
