package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"blogsearch/internal/ui/input/types"
)

// ClosedMode browses the history list while the panel is hidden. The opening
// shortcuts belong to the controller.
type ClosedMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewClosedMode() *ClosedMode {
	return &ClosedMode{}
}

func (m *ClosedMode) Name() string {
	return "closed"
}

func (m *ClosedMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ClosedMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *ClosedMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if term := ctx.CurrentHistoryItem(); term != "" {
			return []types.Action{types.UseHistoryAction{Term: term}}, true
		}
		return nil, false

	case tea.KeyCtrlX, tea.KeyDelete:
		if term := ctx.CurrentHistoryItem(); term != "" {
			return []types.Action{types.RemoveHistoryAction{Term: term}}, true
		}
		return nil, false

	case tea.KeyCtrlL:
		if ctx.HistoryCount() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeConfirmClear}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "x":
		if term := ctx.CurrentHistoryItem(); term != "" {
			return []types.Action{types.RemoveHistoryAction{Term: term}}, true
		}
		return nil, false

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	default:
		m.lastKeyWasG = false
	}

	return nil, false
}
