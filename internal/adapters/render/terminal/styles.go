package terminal

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	name     lipgloss.Style
	link     lipgloss.Style
	detail   lipgloss.Style
	warning  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
	marker   lipgloss.Style
	meta     lipgloss.Style
	user     lipgloss.Style
	placing  lipgloss.Style
	browsing lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		link:     lipgloss.NewStyle().Foreground(lipgloss.Color("159")).Underline(true),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
		marker:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		user:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
		placing:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(lipgloss.Color("214")),
		browsing: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}
