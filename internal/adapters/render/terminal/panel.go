package terminal

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

// PanelView prints the marker panel. Each call redraws the part it owns.
type PanelView struct {
	console *Console

	mu           sync.Mutex
	title        string
	inputEnabled bool
	visible      bool
}

var _ ports.PanelView = (*PanelView)(nil)

func NewPanelView(console *Console) *PanelView {
	return &PanelView{console: console, inputEnabled: true}
}

func (p *PanelView) ShowLoading(marker domain.Marker) {
	p.mu.Lock()
	p.title = marker.Title
	p.visible = true
	p.mu.Unlock()

	st := p.console.styles
	p.console.Println(lipgloss.JoinVertical(lipgloss.Left,
		st.section.Render(st.title.Render("┌ "+marker.Title)),
		st.empty.Render("│ loading…"),
	))
}

func (p *PanelView) ShowDetail(detail domain.MarkerDetail) {
	st := p.console.styles
	title := detail.Title
	if title == "" {
		p.mu.Lock()
		title = p.title
		p.mu.Unlock()
	}

	lines := []string{st.title.Render("┌ " + title)}
	if detail.Description != "" {
		lines = append(lines, st.detail.Render("│ "+detail.Description))
	}
	p.console.Println(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (p *PanelView) ShowChat(chat []domain.ChatMessage) {
	p.console.Println(chatView(chat, p.console.styles))
}

func (p *PanelView) ShowError(err error) {
	p.console.Warn("│ could not load marker: " + err.Error())
}

func (p *PanelView) SetInputEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputEnabled = enabled
}

func (p *PanelView) InputEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inputEnabled
}

func (p *PanelView) ClearInput() {}

func (p *PanelView) Hide() {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = false
	p.title = ""
	p.mu.Unlock()

	if wasVisible {
		p.console.Println(p.console.styles.empty.Render("└ panel closed"))
	}
}

func (p *PanelView) Visible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}
