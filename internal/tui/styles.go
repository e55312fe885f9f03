package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/invoicer-dev/invoicer/internal/model"
)

var (
	primaryColor = lipgloss.Color("#7D56F4")
	mutedColor   = lipgloss.Color("#6C757D")
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	errorColor   = lipgloss.Color("#DC3545")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Width(18).
			Foreground(mutedColor)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

func statusBadge(status model.PaymentStatus) string {
	color := errorColor
	switch status {
	case model.PaymentPaid:
		color = successColor
	case model.PaymentPartial:
		color = warningColor
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(strings.ToUpper(string(status)))
}
