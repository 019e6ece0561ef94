package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"blogsearch/internal/config"
	"blogsearch/internal/controller"
	"blogsearch/internal/domain"
	"blogsearch/internal/ui/input"
	inputtypes "blogsearch/internal/ui/input/types"
	"blogsearch/internal/ui/views"
)

// Model represents the UI state
type Model struct {
	ctrl   *controller.Controller
	config *config.Config
	state  controller.State // latest controller snapshot

	// UI-specific state not owned by the controller
	width            int
	height           int
	help             help.Model
	keys             keyMap
	showHelp         bool
	helpScrollOffset int
	showPreview      bool
	historyCursor    int
	statusMessage    string
	inPagerMode      bool // tracks if we're currently in pager mode

	renderer     *views.Renderer
	inputHandler *input.Handler

	// Panel shortcuts are owned by the controller, mounted on dispatcher
	dispatcher   *controller.KeyDispatcher
	unmount      func()
	selectedPath string // set by the controller's select handler

	categories func() []string

	// Program reference for terminal management
	program *tea.Program
}

// ModelOption configures a Model
type ModelOption func(*Model)

// WithCategories lists the blog categories on the closed panel
func WithCategories(fn func() []string) ModelOption {
	return func(m *Model) { m.categories = fn }
}

// NewModel creates a new UI model and mounts the controller's shortcuts.
// Build ctrl with controller.WithSelectHandler calling SelectArticle to get
// the article pager on Enter.
func NewModel(ctrl *controller.Controller, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	dispatcher := controller.NewKeyDispatcher()
	m := &Model{
		ctrl:         ctrl,
		config:       cfg,
		state:        ctrl.State(),
		help:         help.New(),
		keys:         newKeyMap(),
		showPreview:  cfg.UI.ShowBodyPreview,
		renderer:     views.NewRenderer(),
		inputHandler: input.New(),
		dispatcher:   dispatcher,
		unmount:      ctrl.Mount(dispatcher),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SelectArticle receives the path confirmed through the controller
func (m *Model) SelectArticle(path string) {
	m.selectedPath = path
}

// Unmount detaches the controller's shortcuts. Safe to call more than once.
func (m *Model) Unmount() {
	m.unmount()
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			return m, m.handleHelpKey(msg)
		}
		if handled, cmd := m.dispatchPanelKey(msg); handled {
			return m, cmd
		}

		ctx := &input.ModelContext{State: m.state, Cursor: m.historyCursor}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			_, next := m.handleNonKeyboardMsg(msg)
			return m, tea.Batch(cmd, next)
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// dispatchPanelKey offers panel-level keys to the controller before the
// input modes see them
func (m *Model) dispatchPanelKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.inputHandler.GetMode() == inputtypes.ModeConfirmClear {
		return false, nil
	}
	ev, ok := m.panelKeyEvent(msg)
	if !ok {
		return false, nil
	}

	before := m.ctrl.State()
	if !m.dispatcher.Dispatch(ev) {
		return false, nil
	}
	cmd := m.applyState(m.ctrl.State())

	path := m.selectedPath
	if path == "" {
		return true, cmd
	}
	m.selectedPath = ""
	return true, tea.Batch(cmd, m.showArticle(before.Results, path))
}

// panelKeyEvent translates msg for the controller. Keys the modes need for
// the history list are not offered.
func (m *Model) panelKeyEvent(msg tea.KeyMsg) (controller.KeyEvent, bool) {
	switch msg.Type {
	case tea.KeyCtrlK:
		return controller.KeyEvent{Name: "k", Ctrl: true}, true
	case tea.KeyEsc:
		return controller.KeyEvent{Name: "escape"}, m.state.Open
	case tea.KeyUp:
		return controller.KeyEvent{Name: "up"}, !m.browsingHistory()
	case tea.KeyDown:
		return controller.KeyEvent{Name: "down"}, !m.browsingHistory()
	case tea.KeyEnter:
		return controller.KeyEvent{Name: "enter"}, m.state.Open
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Paste {
			return controller.KeyEvent{Name: string(msg.Runes[0]), Meta: msg.Alt}, true
		}
	}
	return controller.KeyEvent{}, false
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return m.processAction(inputtypes.QuitAction{Force: true})
	case "esc", "?", "q":
		m.showHelp = false
		m.helpScrollOffset = 0
	case "up", "k":
		if m.helpScrollOffset > 0 {
			m.helpScrollOffset--
		}
	case "down", "j":
		m.helpScrollOffset++
	}
	return nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	bindings := m.keys.closedKeys()
	if m.state.Open {
		bindings = m.keys.openKeys()
	}

	state := views.ViewState{
		Width:            m.width,
		Height:           m.height,
		Open:             m.state.Open,
		Query:            m.state.Query,
		Input:            m.inputHandler.GetTextInput().View(),
		Loading:          m.state.Loading,
		Results:          m.state.Results,
		SelectedIndex:    m.state.SelectedIndex,
		History:          m.state.History,
		HistoryCursor:    m.historyCursor,
		ShowPreview:      m.showPreview,
		ConfirmClear:     m.inputHandler.GetMode() == inputtypes.ModeConfirmClear,
		StatusMessage:    m.statusMessage,
		ShowHelp:         m.showHelp,
		HelpScrollOffset: m.helpScrollOffset,
		HelpView:         m.help.ShortHelpView(bindings),
	}
	if m.categories != nil && !m.state.Open {
		state.Categories = m.categories()
	}
	return m.renderer.Render(state)
}

// refresh pulls the current snapshot after a synchronous controller call
func (m *Model) refresh() {
	m.applyState(m.ctrl.State())
}

// applyState adopts s unless an equal or newer snapshot was already seen
func (m *Model) applyState(s controller.State) tea.Cmd {
	if s.Version < m.state.Version {
		return nil
	}
	m.state = s
	m.clampHistoryCursor()

	// The panel can be toggled from outside the keyboard, keep the mode in line
	switch m.inputHandler.GetMode() {
	case inputtypes.ModeClosed:
		if s.Open {
			return m.inputHandler.ChangeMode(inputtypes.ModeSearch, s.Query)
		}
	case inputtypes.ModeSearch:
		if !s.Open {
			return m.inputHandler.ChangeMode(inputtypes.ModeClosed, "")
		}
	case inputtypes.ModeConfirmClear:
		if len(s.History) == 0 {
			mode := inputtypes.ModeClosed
			if s.Open {
				mode = inputtypes.ModeSearch
			}
			return m.inputHandler.ChangeMode(mode, s.Query)
		}
	}
	return nil
}

func (m *Model) clampHistoryCursor() {
	if m.historyCursor >= len(m.state.History) {
		m.historyCursor = len(m.state.History) - 1
	}
	if m.historyCursor < 0 {
		m.historyCursor = 0
	}
}

// browsingHistory reports whether navigation moves through history rather
// than results
func (m *Model) browsingHistory() bool {
	return !m.state.Open || strings.TrimSpace(m.state.Query) == ""
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.UpdateTextAction:
		m.ctrl.SetQuery(a.Text)
		m.refresh()
		return nil

	case inputtypes.NavigateAction:
		m.navigate(a.Direction)
		return nil

	case inputtypes.UseHistoryAction:
		if a.Term == "" {
			return nil
		}
		m.ctrl.UseHistoryItem(a.Term)
		m.refresh()
		return m.inputHandler.ChangeMode(inputtypes.ModeSearch, a.Term)

	case inputtypes.RemoveHistoryAction:
		if a.Term == "" {
			return nil
		}
		m.ctrl.RemoveFromHistory(a.Term)
		m.refresh()
		return nil

	case inputtypes.ClearHistoryAction:
		m.ctrl.ClearHistory()
		m.refresh()
		m.historyCursor = 0
		return nil

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		m.helpScrollOffset = 0
		return nil

	case inputtypes.TogglePreviewAction:
		m.showPreview = !m.showPreview
		return nil

	case inputtypes.QuitAction:
		if m.state.Open {
			m.ctrl.Close()
		}
		m.Unmount()
		return tea.Quit
	}

	log.Printf("Unhandled action %s in %s mode", action.Type(), m.inputHandler.ModeName())
	return nil
}

func (m *Model) navigate(direction string) {
	if !m.browsingHistory() {
		switch direction {
		case "up":
			m.ctrl.NavigateUp()
		case "down":
			m.ctrl.NavigateDown()
		}
		m.refresh()
		return
	}

	last := len(m.state.History) - 1
	switch direction {
	case "up":
		if m.historyCursor > 0 {
			m.historyCursor--
		}
	case "down":
		if m.historyCursor < last {
			m.historyCursor++
		}
	case "home":
		m.historyCursor = 0
	case "end":
		m.historyCursor = last
	}
	m.clampHistoryCursor()
}

// showArticle pages the selected document, or reports the selection when
// there is no terminal to hand over
func (m *Model) showArticle(results []domain.SearchResult, path string) tea.Cmd {
	if m.program != nil {
		for _, r := range results {
			if r.Document.Path == path {
				return m.articlePager(r.Document)
			}
		}
	}
	m.statusMessage = fmt.Sprintf("Selected %s", path)
	return clearStatusAfter(3 * time.Second)
}

// articlePager returns a command that shows doc using ov pager
func (m *Model) articlePager(doc domain.Document) tea.Cmd {
	content := NewArticleRenderer(m.width - 4).Render(doc)
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := NewPagerOps(m.program).Show(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return articlePagerMsg{path: doc.Path, err: err}
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		return m, m.applyState(msg.State)

	case tickMsg:
		// Don't continue tick loop if we're in pager mode
		if m.inPagerMode {
			return m, nil
		}
		return m, tick()

	case articlePagerMsg:
		if msg.err != nil {
			log.Printf("Article pager failed for %s: %v", msg.path, msg.err)
			m.statusMessage = fmt.Sprintf("Selected %s", msg.path)
			return m, clearStatusAfter(3 * time.Second)
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, tick()

	case clearStatusMsg:
		m.statusMessage = ""
		return m, nil

	default:
		return m, nil
	}
}

// tick returns a command that sends a tick message after a delay
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
