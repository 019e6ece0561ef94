package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"blogsearch/internal/domain"
)

// ArticleRenderer formats a document for the pager
type ArticleRenderer struct {
	width int
}

// NewArticleRenderer creates an article renderer wrapping at width
func NewArticleRenderer(width int) *ArticleRenderer {
	if width <= 0 || width > 100 {
		width = 100
	}
	return &ArticleRenderer{width: width}
}

// Render returns the article as styled text
func (r *ArticleRenderer) Render(doc domain.Document) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	descStyle := lipgloss.NewStyle().Italic(true).Width(r.width)
	bodyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(r.width)

	var b strings.Builder
	title := doc.Title
	if title == "" {
		title = doc.Path
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	meta := []string{doc.Path}
	if doc.Category != "" {
		meta = append(meta, doc.Category)
	}
	if !doc.Date.IsZero() {
		meta = append(meta, doc.Date.Format("2006-01-02"))
	}
	if len(doc.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(doc.Tags, " #"))
	}
	b.WriteString(metaStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if doc.Description != "" {
		b.WriteString(descStyle.Render(doc.Description))
		b.WriteString("\n\n")
	}
	if doc.BodyText != "" {
		b.WriteString(bodyStyle.Render(doc.BodyText))
		b.WriteString("\n")
	}
	return b.String()
}

// PagerOps shows content in ov while the Bubble Tea program is suspended
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show displays content using ov pager
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Do not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
