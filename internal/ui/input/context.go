package input

import "blogsearch/internal/controller"

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State  controller.State
	Cursor int // highlighted history entry
}

// PanelOpen reports whether the search panel is showing
func (c *ModelContext) PanelOpen() bool {
	return c.State.Open
}

// Query returns the current search query
func (c *ModelContext) Query() string {
	return c.State.Query
}

// ResultCount returns the number of results on screen
func (c *ModelContext) ResultCount() int {
	return len(c.State.Results)
}

// SelectedIndex returns the highlighted result
func (c *ModelContext) SelectedIndex() int {
	return c.State.SelectedIndex
}

// HistoryCount returns the number of history entries
func (c *ModelContext) HistoryCount() int {
	return len(c.State.History)
}

// HistoryCursor returns the highlighted history entry
func (c *ModelContext) HistoryCursor() int {
	return c.Cursor
}

// CurrentHistoryItem returns the highlighted history term, or ""
func (c *ModelContext) CurrentHistoryItem() string {
	if c.Cursor < 0 || c.Cursor >= len(c.State.History) {
		return ""
	}
	return c.State.History[c.Cursor]
}
