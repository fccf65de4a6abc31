package styles

import "github.com/charmbracelet/lipgloss"

// Common border styles
var (
	// BorderNormal is the standard border for most UI elements
	BorderNormal = lipgloss.NormalBorder()

	// BorderRounded is used for the chart panel
	BorderRounded = lipgloss.RoundedBorder()
)

// Panel styles
var (
	// PanelStyle wraps the chart
	PanelStyle = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// TitleStyle is for the metric name above the chart
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// MutedStyle is for secondary text
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle is for fetch and validation errors
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// WarningStyle is for captured log warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)
)

// Status bar styles
var (
	// StatusBarStyle wraps the status bar
	StatusBarStyle = lipgloss.NewStyle().
			Border(BorderNormal).
			BorderForeground(ColorBorder)

	// StatusTitleStyle is for the window limits
	StatusTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	// StatusTimeStyle is for the timestamp
	StatusTimeStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// BadgeStyle is the base for inline setting badges
	BadgeStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true)
)

// Footer and help styles
var (
	// FooterHintStyle is for keyboard hints
	FooterHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// HeaderStyle is for help section headers
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true)

	// ViewTitleStyle is for dialog titles
	ViewTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	// HelpDialogStyle wraps the help overlay
	HelpDialogStyle = lipgloss.NewStyle().
			Border(BorderRounded).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)

// Badge renders text as a colored badge.
func Badge(text string, color lipgloss.Color) string {
	return BadgeStyle.Foreground(color).Render(text)
}
