package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"blogsearch/internal/ui/input/types"
)

// SearchMode handles the open panel. With an empty query the arrow keys walk
// the history list instead of the results.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	browsingHistory := ctx.Query() == "" && ctx.HistoryCount() > 0

	switch msg.String() {
	case "up", "ctrl+p":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "down", "ctrl+n":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "enter":
		if browsingHistory {
			return []types.Action{types.UseHistoryAction{Term: ctx.CurrentHistoryItem()}}, true
		}
		// Confirming a result is the controller's job
		return nil, true

	case "ctrl+x":
		if browsingHistory {
			return []types.Action{types.RemoveHistoryAction{Term: ctx.CurrentHistoryItem()}}, true
		}
		return nil, true

	case "ctrl+l":
		if ctx.HistoryCount() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeConfirmClear}}, true
		}
		return nil, true

	case "tab":
		return []types.Action{types.TogglePreviewAction{}}, true
	}

	return m.TextInputMode.HandleKey(msg, ctx)
}
