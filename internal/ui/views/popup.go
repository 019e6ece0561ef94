package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers popupContent over a greyscale copy of
// mainContent. The background keeps its text left and right of the modal.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	styledPopup := popupStyle.Render(popupContent)
	popupLines := strings.Split(styledPopup, "\n")

	modalW := lipgloss.Width(styledPopup)
	modalH := len(popupLines)
	if width <= 0 {
		width = modalW
	}

	baseLines := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	if height < modalH {
		height = modalH
	}
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := (height - modalH) / 2
	if y < 0 {
		y = 0
	}

	out := make([]string, len(baseLines))
	for i, line := range baseLines {
		if i < y || i >= y+modalH {
			out[i] = desaturate(line)
			continue
		}
		runes := []rune(line)
		for len(runes) < x+modalW {
			runes = append(runes, ' ')
		}
		out[i] = desaturate(string(runes[:x])) + popupLines[i-y] + desaturate(string(runes[x+modalW:]))
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturate recolors plain text dim gray
func desaturate(plain string) string {
	if plain == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(plain)
}

// StripANSI removes color and style codes
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
