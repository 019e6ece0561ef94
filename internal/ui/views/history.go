package views

import (
	"fmt"
	"strings"
)

// HistoryRenderer draws the recent searches list
type HistoryRenderer struct {
	styles *Styles
}

// NewHistoryRenderer creates a history renderer
func NewHistoryRenderer(styles *Styles) *HistoryRenderer {
	return &HistoryRenderer{styles: styles}
}

// RenderHistory lists terms newest first with the cursor row highlighted.
// A negative cursor highlights nothing.
func (hr *HistoryRenderer) RenderHistory(items []string, cursor int) string {
	if len(items) == 0 {
		return hr.styles.Dim.Render("No recent searches")
	}

	var b strings.Builder
	b.WriteString(hr.styles.Section.Render(fmt.Sprintf("Recent searches (%d)", len(items))))
	for i, item := range items {
		b.WriteString("\n")
		if i == cursor {
			b.WriteString(hr.styles.SelectionBg.Render(hr.styles.Prompt.Render("▸ ") + hr.styles.HistoryItem.Render(item)))
			continue
		}
		b.WriteString("  " + hr.styles.HistoryItem.Render(item))
	}
	return b.String()
}
