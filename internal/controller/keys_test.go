package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogsearch/internal/domain"
	"blogsearch/internal/history"
)

func TestSlashOpensUnlessTyping(t *testing.T) {
	c, _ := newController(t, &fakeSearcher{})

	assert.False(t, c.HandleKey(KeyEvent{Name: "/", InTextInput: true}))
	assert.False(t, c.State().Open)

	assert.True(t, c.HandleKey(KeyEvent{Name: "/"}))
	assert.True(t, c.State().Open)

	// Once open, "/" is ordinary input for the search box
	assert.False(t, c.HandleKey(KeyEvent{Name: "/"}))
}

func TestModifierKToggles(t *testing.T) {
	c, _ := newController(t, &fakeSearcher{})

	assert.False(t, c.HandleKey(KeyEvent{Name: "k"}))
	assert.True(t, c.HandleKey(KeyEvent{Name: "k", Ctrl: true}))
	assert.True(t, c.State().Open)
	assert.True(t, c.HandleKey(KeyEvent{Name: "K", Meta: true}))
	assert.False(t, c.State().Open)
}

func TestEscapeCloses(t *testing.T) {
	c, _ := newController(t, &fakeSearcher{})

	assert.False(t, c.HandleKey(KeyEvent{Name: "Escape"}))
	c.Open()
	assert.True(t, c.HandleKey(KeyEvent{Name: "esc"}))
	assert.False(t, c.State().Open)
}

func TestArrowsAndEnter(t *testing.T) {
	f := &fakeSearcher{results: map[string][]domain.SearchResult{"go": hits("/a", "/b")}}
	var selected string
	c := New(f, history.New(nil, "", nil), WithDebounce(testDelay), WithSelectHandler(func(p string) { selected = p }))
	defer c.Shutdown()

	c.Open()
	assert.False(t, c.HandleKey(KeyEvent{Name: "enter"}))

	c.SetQuery("go")
	waitForResults(t, c, 2)
	assert.True(t, c.HandleKey(KeyEvent{Name: "ArrowDown"}))
	assert.Equal(t, 1, c.State().SelectedIndex)
	assert.True(t, c.HandleKey(KeyEvent{Name: "up"}))
	assert.True(t, c.HandleKey(KeyEvent{Name: "down"}))

	assert.True(t, c.HandleKey(KeyEvent{Name: "Enter"}))
	assert.Equal(t, "/b", selected)
	s := c.State()
	assert.False(t, s.Open)
	assert.Equal(t, []string{"go"}, s.History)
}

func TestMountDetaches(t *testing.T) {
	c, _ := newController(t, &fakeSearcher{})
	d := NewKeyDispatcher()

	unmount := c.Mount(d)
	assert.Equal(t, 1, d.Len())
	assert.True(t, d.Dispatch(KeyEvent{Name: "/"}))
	assert.True(t, c.State().Open)

	unmount()
	unmount()
	assert.Equal(t, 0, d.Len())
	assert.False(t, d.Dispatch(KeyEvent{Name: "escape"}))
	assert.True(t, c.State().Open)
}

func TestDispatcherStopsAtFirstConsumer(t *testing.T) {
	d := NewKeyDispatcher()
	var order []string
	d.AddListener(func(KeyEvent) bool { order = append(order, "first"); return false })
	remove := d.AddListener(func(KeyEvent) bool { order = append(order, "second"); return true })
	d.AddListener(func(KeyEvent) bool { order = append(order, "third"); return true })

	require.True(t, d.Dispatch(KeyEvent{Name: "x"}))
	assert.Equal(t, []string{"first", "second"}, order)

	remove()
	order = nil
	require.True(t, d.Dispatch(KeyEvent{Name: "x"}))
	assert.Equal(t, []string{"first", "third"}, order)
}
