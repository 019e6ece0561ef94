package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"blogsearch/internal/ui/input/types"
)

// ConfirmMode asks before the whole history is cleared, then returns to the
// mode it was entered from
type ConfirmMode struct {
	returnTo types.Mode
	query    string
}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "clear-confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	m.returnTo = types.ModeClosed
	m.query = ""
	if ctx.PanelOpen() {
		m.returnTo = types.ModeSearch
		m.query = ctx.Query()
	}
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) back() types.Action {
	return types.ChangeModeAction{Mode: m.returnTo, Data: m.query}
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y":
		return []types.Action{types.ClearHistoryAction{}, m.back()}, true
	case "n", "N", "esc":
		return []types.Action{m.back()}, true
	}

	// Swallow everything else while the prompt is up
	return nil, true
}
