package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/zoommark/internal/domain"
)

type imageLoadedMsg struct {
	image domain.Image
	err   error
}

// imageLoadModel spins while an image loads and leaves a one-line summary
// of what was loaded as its final frame.
type imageLoadModel struct {
	spinner spinner.Model
	id      domain.ImageID
	load    tea.Cmd
	image   domain.Image
	err     error
	done    bool
	loaded  lipgloss.Style
}

func newImageLoadModel(id domain.ImageID, load tea.Cmd) imageLoadModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return imageLoadModel{
		spinner: s,
		id:      id,
		load:    load,
		loaded:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

func (m imageLoadModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m imageLoadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case imageLoadedMsg:
		m.done = true
		m.image = msg.image
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m imageLoadModel) View() string {
	if !m.done {
		return fmt.Sprintf("%s Loading %s...", m.spinner.View(), m.id)
	}
	if m.err != nil {
		return ""
	}

	name := m.image.Name
	if name == "" {
		name = string(m.image.ID)
	}
	return m.loaded.Render(fmt.Sprintf("Loaded %s (%s)", name, markerCount(len(m.image.Markers)))) + "\n"
}

func markerCount(n int) string {
	if n == 1 {
		return "1 marker"
	}
	return fmt.Sprintf("%d markers", n)
}

// runImageLoad shows progress for id on output while load runs and returns
// the loaded image.
func runImageLoad(ctx context.Context, output io.Writer, id domain.ImageID, load func(context.Context) (domain.Image, error)) (domain.Image, error) {
	loadCmd := func() tea.Msg {
		image, err := load(ctx)
		return imageLoadedMsg{image: image, err: err}
	}

	p := tea.NewProgram(
		newImageLoadModel(id, loadCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return domain.Image{}, err
	}

	result, ok := finalModel.(imageLoadModel)
	if !ok {
		return domain.Image{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.image, result.err
}
