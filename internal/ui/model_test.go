package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/config"
	"blogsearch/internal/controller"
	"blogsearch/internal/domain"
	"blogsearch/internal/history"
	"blogsearch/internal/kvstore"
	inputtypes "blogsearch/internal/ui/input/types"
	"blogsearch/internal/ui/views"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]domain.SearchResult
}

func (f *fakeSearcher) Search(_ context.Context, q string) []domain.SearchResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.results[q]
}

func (f *fakeSearcher) Prewarm(context.Context) error { return nil }

func newTestModel(t *testing.T, historyItems ...string) (*Model, *controller.Controller) {
	t.Helper()
	searcher := &fakeSearcher{results: map[string][]domain.SearchResult{
		"go": {
			{Document: domain.Document{Path: "/posts/go", Title: "Go basics"}},
			{Document: domain.Document{Path: "/posts/goroutines", Title: "Goroutines"}},
		},
	}}
	hist := history.New(kvstore.NewMemoryStore(), history.DefaultKey, nil)
	for i := len(historyItems) - 1; i >= 0; i-- {
		hist.Add(historyItems[i])
	}
	var m *Model
	ctrl := controller.New(searcher, hist,
		controller.WithDebounce(5*time.Millisecond),
		controller.WithSelectHandler(func(path string) { m.SelectArticle(path) }),
	)
	t.Cleanup(ctrl.Shutdown)

	m = NewModel(ctrl, config.DefaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

// waitForResults blocks until the debounced search lands, then feeds the
// snapshot to the model the way the program subscription does
func waitForResults(t *testing.T, m *Model, ctrl *controller.Controller) {
	t.Helper()
	require.Eventually(t, func() bool {
		s := ctrl.State()
		return !s.Loading && len(s.Results) > 0
	}, time.Second, 5*time.Millisecond)
	m.Update(StateMsg{State: ctrl.State()})
}

func TestViewBeforeResize(t *testing.T) {
	hist := history.New(kvstore.NewMemoryStore(), history.DefaultKey, nil)
	ctrl := controller.New(&fakeSearcher{}, hist)
	t.Cleanup(ctrl.Shutdown)

	m := NewModel(ctrl, nil)
	assert.Equal(t, "Loading...", m.View())
}

func TestSlashOpensPanel(t *testing.T) {
	m, ctrl := newTestModel(t)

	m.Update(runes("/"))

	assert.True(t, ctrl.State().Open)
	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.GetMode())
	assert.Contains(t, views.StripANSI(m.View()), "Search:")
}

func TestCtrlKTogglesPanel(t *testing.T) {
	m, ctrl := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.True(t, ctrl.State().Open)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.False(t, ctrl.State().Open)
	assert.Equal(t, inputtypes.ModeClosed, m.inputHandler.GetMode())
}

func TestAltKTogglesPanel(t *testing.T) {
	m, ctrl := newTestModel(t)
	altK := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}, Alt: true}

	m.Update(altK)
	assert.True(t, ctrl.State().Open)
	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.GetMode())

	m.Update(altK)
	assert.False(t, ctrl.State().Open)
	assert.Equal(t, inputtypes.ModeClosed, m.inputHandler.GetMode())
	assert.Empty(t, ctrl.State().Query, "the toggle is not typed into the query")
}

func TestSlashIsTextWhilePanelOpen(t *testing.T) {
	m, ctrl := newTestModel(t)

	m.Update(runes("/"))
	m.Update(runes("/"))

	assert.True(t, ctrl.State().Open)
	assert.Equal(t, "/", ctrl.State().Query)
}

func TestQuitUnmountsShortcuts(t *testing.T) {
	m, ctrl := newTestModel(t)
	require.Equal(t, 1, m.dispatcher.Len())

	m.Update(runes("q"))
	assert.Equal(t, 0, m.dispatcher.Len())

	m.Update(runes("/"))
	assert.False(t, ctrl.State().Open)
}

func TestTypingSearchesAndEnterSelects(t *testing.T) {
	m, ctrl := newTestModel(t)

	m.Update(runes("/"))
	typeText(m, "go")
	assert.Equal(t, "go", ctrl.State().Query)

	waitForResults(t, m, ctrl)
	assert.Contains(t, views.StripANSI(m.View()), "Go basics")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, ctrl.State().SelectedIndex)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	s := ctrl.State()
	assert.False(t, s.Open)
	assert.Equal(t, []string{"go"}, s.History)
	assert.Equal(t, inputtypes.ModeClosed, m.inputHandler.GetMode())
	assert.Equal(t, "Selected /posts/goroutines", m.statusMessage)
}

func TestEscapeClosesAndRecordsQuery(t *testing.T) {
	m, ctrl := newTestModel(t)

	m.Update(runes("/"))
	typeText(m, "go")
	waitForResults(t, m, ctrl)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	s := ctrl.State()
	assert.False(t, s.Open)
	assert.Empty(t, s.Query)
	assert.Equal(t, []string{"go"}, s.History)
}

func TestNoResultsMessage(t *testing.T) {
	m, ctrl := newTestModel(t)

	m.Update(runes("/"))
	typeText(m, "zz")
	assert.Eventually(t, func() bool {
		m.Update(StateMsg{State: ctrl.State()})
		return strings.Contains(views.StripANSI(m.View()), `No results for "zz"`)
	}, time.Second, 5*time.Millisecond)
}

func TestHistoryNavigationWhenClosed(t *testing.T) {
	m, ctrl := newTestModel(t, "rust", "go")

	m.Update(runes("j"))
	assert.Equal(t, 1, m.historyCursor)
	m.Update(runes("j"))
	assert.Equal(t, 1, m.historyCursor, "cursor stops at the last entry")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	s := ctrl.State()
	assert.True(t, s.Open)
	assert.Equal(t, "go", s.Query)
	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.GetMode())
	assert.Equal(t, "go", m.inputHandler.GetTextInput().Value())
}

func TestRemoveHistoryItem(t *testing.T) {
	m, ctrl := newTestModel(t, "rust", "go")

	m.Update(runes("x"))

	assert.Equal(t, []string{"go"}, ctrl.State().History)
	assert.Equal(t, 0, m.historyCursor)
}

func TestClearHistoryConfirmation(t *testing.T) {
	m, ctrl := newTestModel(t, "rust", "go")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, inputtypes.ModeConfirmClear, m.inputHandler.GetMode())
	assert.Contains(t, views.StripANSI(m.View()), "Clear all search history? (y/n)")

	m.Update(runes("n"))
	assert.Equal(t, inputtypes.ModeClosed, m.inputHandler.GetMode())
	assert.Len(t, ctrl.State().History, 2)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m.Update(runes("y"))
	assert.Equal(t, inputtypes.ModeClosed, m.inputHandler.GetMode())
	assert.Empty(t, ctrl.State().History)
}

func TestClearHistoryFromOpenPanelKeepsQuery(t *testing.T) {
	m, ctrl := newTestModel(t, "rust")

	m.Update(runes("/"))
	typeText(m, "go")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m.Update(runes("y"))

	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.GetMode())
	assert.Equal(t, "go", m.inputHandler.GetTextInput().Value())
	assert.True(t, ctrl.State().Open)
	assert.Empty(t, ctrl.State().History)
}

func TestStaleStateIgnored(t *testing.T) {
	m, ctrl := newTestModel(t)

	old := ctrl.State()
	m.Update(runes("/"))
	require.True(t, m.state.Open)

	m.Update(StateMsg{State: old})
	assert.True(t, m.state.Open)
	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.GetMode())
}

func TestExternalOpenSyncsMode(t *testing.T) {
	m, ctrl := newTestModel(t)

	ctrl.Open()
	m.Update(StateMsg{State: ctrl.State()})

	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.GetMode())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, views.StripANSI(m.View()), "blogsearch Help")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestTabTogglesPreview(t *testing.T) {
	m, _ := newTestModel(t)
	require.True(t, m.showPreview)

	m.Update(runes("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.showPreview)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestClosedViewListsCategories(t *testing.T) {
	hist := history.New(kvstore.NewMemoryStore(), history.DefaultKey, nil)
	ctrl := controller.New(&fakeSearcher{}, hist)
	t.Cleanup(ctrl.Shutdown)

	m := NewModel(ctrl, nil, WithCategories(func() []string { return []string{"frontend", "go"} }))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Contains(t, views.StripANSI(m.View()), "Categories: frontend · go")
}

func TestArticleRendererIncludesMetadata(t *testing.T) {
	out := views.StripANSI(NewArticleRenderer(80).Render(domain.Document{
		Path:        "/posts/go",
		Title:       "Go basics",
		Description: "An introduction",
		Category:    "programming",
		Tags:        []string{"go", "intro"},
		Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		BodyText:    "Hello gophers",
	}))

	assert.Contains(t, out, "Go basics")
	assert.Contains(t, out, "/posts/go · programming · 2024-01-02 · #go #intro")
	assert.Contains(t, out, "An introduction")
	assert.Contains(t, out, "Hello gophers")
}
