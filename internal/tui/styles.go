// Package tui holds the interactive terminal forms and the lipgloss views of the client.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	danger    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}
	info      = lipgloss.AdaptiveColor{Light: "#1F6FEB", Dark: "#58A6FF"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)

	mutedStyle   = lipgloss.NewStyle().Foreground(subtle)
	successStyle = lipgloss.NewStyle().Foreground(special)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)
	infoStyle    = lipgloss.NewStyle().Foreground(info)

	liveBadge  = lipgloss.NewStyle().Background(danger).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1)
	paperBadge = lipgloss.NewStyle().Background(info).Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Padding(0, 1)
)

// Header renders a screen title.
func Header(title string) string {
	return headerStyle.Render(title)
}

// ModeBadge renders the trading mode, LIVE in red.
func ModeBadge(mode domain.TradingMode) string {
	if mode == domain.TradingModeLive {
		return liveBadge.Render("LIVE")
	}
	return paperBadge.Render("PAPER")
}

func kindStyle(kind domain.NotificationKind) lipgloss.Style {
	switch kind {
	case domain.NotificationSuccess:
		return successStyle
	case domain.NotificationError:
		return errorStyle
	default:
		return infoStyle
	}
}

func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}
