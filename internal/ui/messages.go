package ui

import (
	"time"

	"blogsearch/internal/controller"
)

// StateMsg carries a controller snapshot into the UI loop
type StateMsg struct {
	State controller.State
}

// tickMsg is sent on a timer for animations
type tickMsg time.Time

// articlePagerMsg contains the result of an article pager command
type articlePagerMsg struct {
	path string
	err  error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
