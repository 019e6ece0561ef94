package controller

import (
	"strings"
	"sync"
)

// KeyEvent is a key press in a UI-neutral form
type KeyEvent struct {
	Name        string // "/", "k", "escape", "up", "down", "enter", ...
	Ctrl        bool
	Meta        bool
	InTextInput bool // focus is in an editable field other than the search box
}

func (e KeyEvent) key() string {
	switch name := strings.ToLower(e.Name); name {
	case "esc":
		return "escape"
	case "arrowup":
		return "up"
	case "arrowdown":
		return "down"
	case "return":
		return "enter"
	default:
		return name
	}
}

// HandleKey applies the panel shortcuts and reports whether ev was consumed.
//
//	/            open (not while typing in another field)
//	Ctrl/Meta+K  toggle
//	Escape       close
//	Up/Down      move the selection
//	Enter        confirm the selection
func (c *Controller) HandleKey(ev KeyEvent) bool {
	open := c.State().Open
	key := ev.key()

	if key == "k" && (ev.Ctrl || ev.Meta) {
		c.Toggle()
		return true
	}
	if !open {
		if key == "/" && !ev.InTextInput && !ev.Ctrl && !ev.Meta {
			c.Open()
			return true
		}
		return false
	}

	switch key {
	case "escape":
		c.Close()
	case "up":
		c.NavigateUp()
	case "down":
		c.NavigateDown()
	case "enter":
		path, ok := c.SelectCurrent()
		if !ok {
			return false
		}
		c.Close()
		if c.onSelect != nil {
			c.onSelect(path)
		}
	default:
		return false
	}
	return true
}

// KeySource delivers key events to listeners until they are removed
type KeySource interface {
	AddListener(fn func(KeyEvent) bool) (remove func())
}

// Mount attaches the shortcuts to src and returns the detach function
func (c *Controller) Mount(src KeySource) func() {
	remove := src.AddListener(c.HandleKey)
	var once sync.Once
	return func() { once.Do(remove) }
}

// KeyDispatcher is an in-process KeySource
type KeyDispatcher struct {
	mu        sync.Mutex
	listeners map[uint64]func(KeyEvent) bool
	order     []uint64
	nextID    uint64
}

// NewKeyDispatcher creates a dispatcher without listeners
func NewKeyDispatcher() *KeyDispatcher {
	return &KeyDispatcher{listeners: make(map[uint64]func(KeyEvent) bool)}
}

// AddListener implements KeySource
func (d *KeyDispatcher) AddListener(fn func(KeyEvent) bool) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners[id] = fn
	d.order = append(d.order, id)

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.listeners, id)
		for i, o := range d.order {
			if o == id {
				d.order = append(d.order[:i:i], d.order[i+1:]...)
				break
			}
		}
	}
}

// Dispatch offers ev to listeners in registration order until one consumes it
func (d *KeyDispatcher) Dispatch(ev KeyEvent) bool {
	d.mu.Lock()
	fns := make([]func(KeyEvent) bool, 0, len(d.order))
	for _, id := range d.order {
		fns = append(fns, d.listeners[id])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		if fn(ev) {
			return true
		}
	}
	return false
}

// Len returns the number of attached listeners
func (d *KeyDispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
