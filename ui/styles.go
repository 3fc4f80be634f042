package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	title   lipgloss.Style
	word    lipgloss.Style
	focus   lipgloss.Style
	guide   lipgloss.Style
	preview lipgloss.Style
	status  lipgloss.Style
	errText lipgloss.Style
	done    lipgloss.Style
}

func newStyles() styles {
	var (
		focusColor  lipgloss.Color
		subtleColor lipgloss.Color
	)
	if termenv.HasDarkBackground() {
		focusColor = lipgloss.Color("203")
		subtleColor = lipgloss.Color("241")
	} else {
		focusColor = lipgloss.Color("160")
		subtleColor = lipgloss.Color("248")
	}

	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		word:    lipgloss.NewStyle(),
		focus:   lipgloss.NewStyle().Foreground(focusColor).Bold(true),
		guide:   lipgloss.NewStyle().Foreground(subtleColor),
		preview: lipgloss.NewStyle().Foreground(subtleColor),
		status:  lipgloss.NewStyle().Foreground(subtleColor),
		errText: lipgloss.NewStyle().Foreground(focusColor),
		done:    lipgloss.NewStyle().Bold(true).Foreground(focusColor),
	}
}
