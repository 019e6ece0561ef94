package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"blogsearch/internal/domain"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width            int
	Height           int
	Open             bool
	Query            string
	Input            string // rendered text input
	Loading          bool
	Results          []domain.SearchResult
	SelectedIndex    int
	History          []string
	HistoryCursor    int
	ShowPreview      bool
	ConfirmClear     bool
	StatusMessage    string
	ShowHelp         bool
	HelpScrollOffset int
	HelpView         string // short key help shown at the bottom
	Categories       []string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	resultRender  *ResultRenderer
	historyRender *HistoryRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		resultRender:  NewResultRenderer(styles),
		historyRender: NewHistoryRenderer(styles),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	termHeight := state.Height
	if termHeight <= 0 {
		termHeight = 24
	}
	// Container padding, title, input and help
	bodyLines := termHeight - 8

	if !state.Open {
		content.WriteString(r.styles.Dim.Render("Press / or ctrl+k to search"))
		if len(state.Categories) > 0 {
			content.WriteString("\n")
			content.WriteString(r.styles.Dim.Render("Categories: " + strings.Join(state.Categories, " · ")))
		}
		content.WriteString("\n\n")
		content.WriteString(r.historyRender.RenderHistory(state.History, state.HistoryCursor))
	} else {
		content.WriteString(r.styles.Prompt.Render("Search: "))
		content.WriteString(state.Input)
		content.WriteString("\n\n")
		content.WriteString(r.renderPanelBody(state, bodyLines))
	}

	if state.StatusMessage != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Status.Render(state.StatusMessage))
	}

	helpText := state.HelpView
	if helpText == "" {
		helpText = "Press ? for help"
	}
	helpText = r.styles.Help.Render(helpText)

	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := termHeight - 2
	if paddingNeeded := availableLines - currentLines - 1; paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(helpText)

	mainStyle := r.styles.Main.MaxHeight(termHeight)
	finalContent := mainStyle.Render(content.String())

	if state.ConfirmClear {
		prompt := r.styles.Confirm.Render("Clear all search history? (y/n)")
		return r.popupRender.RenderPopupOverlay(finalContent, prompt, state.Height, state.Width, r.styles.ConfirmBox)
	}

	if state.ShowHelp {
		helpContent := r.renderHelpContent(termHeight, state.HelpScrollOffset)
		return r.popupRender.RenderPopupOverlay(finalContent, helpContent, state.Height, state.Width, r.styles.ConfirmBox)
	}

	return finalContent
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("blogsearch")
	if !state.Loading {
		return logo
	}

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := int(time.Now().UnixMilli()/80) % len(spinner)
	right := r.styles.StatusLoading.Render(fmt.Sprintf("%s Searching", spinner[frame]))

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	paddingWidth := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + right
	}
	return logo + "  " + right
}

// renderPanelBody shows history for an empty query, otherwise results
func (r *Renderer) renderPanelBody(state ViewState, maxLines int) string {
	if strings.TrimSpace(state.Query) == "" {
		if len(state.History) == 0 {
			return r.styles.Dim.Render("Type to search articles")
		}
		return r.historyRender.RenderHistory(state.History, state.HistoryCursor)
	}

	if len(state.Results) == 0 {
		if state.Loading {
			return r.styles.Dim.Render("Searching...")
		}
		return r.styles.Dim.Render(fmt.Sprintf("No results for %q", state.Query))
	}

	width := state.Width
	if width <= 0 {
		width = 80
	}
	header := r.styles.Section.Render(fmt.Sprintf("%d results", len(state.Results)))
	list := r.resultRender.RenderResults(state.Results, state.SelectedIndex, state.ShowPreview, width, maxLines-2)
	return header + "\n\n" + list
}

// renderHelpContent renders the help information
func (r *Renderer) renderHelpContent(height int, scrollOffset int) string {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	row := func(key, desc string) string {
		return fmt.Sprintf("  %-14s %s\n", keyStyle.Render(key), descStyle.Render(desc))
	}

	var help strings.Builder
	help.WriteString(r.styles.Title.Render("blogsearch Help"))
	help.WriteString("\n")

	help.WriteString(r.styles.Section.Render("Search"))
	help.WriteString("\n")
	help.WriteString(row("/, ctrl+k, alt+k", "Open search"))
	help.WriteString(row("ctrl+k, alt+k, esc", "Close search"))
	help.WriteString(row("↑/↓", "Move through results"))
	help.WriteString(row("enter", "Open highlighted article"))
	help.WriteString(row("tab", "Toggle body preview"))

	help.WriteString(r.styles.Section.Render("History"))
	help.WriteString("\n")
	help.WriteString(row("enter", "Search highlighted term"))
	help.WriteString(row("x, ctrl+x", "Remove highlighted term"))
	help.WriteString(row("ctrl+l", "Clear all history"))

	help.WriteString(r.styles.Section.Render("Other"))
	help.WriteString("\n")
	help.WriteString(row("?", "Toggle this help"))
	help.WriteString(strings.TrimSuffix(row("q, ctrl+c", "Quit"), "\n"))

	lines := strings.Split(help.String(), "\n")
	totalLines := len(lines)

	// Popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	if totalLines > visibleHeight {
		maxOffset := totalLines - visibleHeight
		if scrollOffset > maxOffset {
			scrollOffset = maxOffset
		}
		if scrollOffset < 0 {
			scrollOffset = 0
		}
		endLine := scrollOffset + visibleHeight
		lines = lines[scrollOffset:endLine]
		if scrollOffset > 0 {
			lines[0] = r.styles.Dim.Render("↑ (more above)")
		}
		if endLine < totalLines {
			lines[len(lines)-1] = r.styles.Dim.Render("↓ (more below)")
		}
	}

	return strings.Join(lines, "\n")
}
