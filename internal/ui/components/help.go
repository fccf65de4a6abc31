package components

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/tswindow/internal/ui/styles"
)

// HelpText renders the key bindings as a footer line or a centered overlay.
type HelpText struct {
	width  int
	height int
	model  help.Model
}

// NewHelp creates a new help component
func NewHelp() *HelpText {
	m := help.New()
	m.Styles.ShortKey = lipgloss.NewStyle().Foreground(styles.ColorPrimary)
	m.Styles.ShortDesc = styles.FooterHintStyle
	m.Styles.FullKey = lipgloss.NewStyle().Foreground(styles.ColorPrimary).Bold(true)
	m.Styles.FullDesc = lipgloss.NewStyle().Foreground(styles.ColorText)
	return &HelpText{model: m}
}

// SetSize sets the size of the help component
func (h *HelpText) SetSize(width, height int) {
	h.width = width
	h.height = height
	h.model.Width = width
}

// ShortHelp renders a one-line footer.
func (h *HelpText) ShortHelp(keys help.KeyMap) string {
	return h.model.ShortHelpView(keys.ShortHelp())
}

// View renders the full help overlay centered on the screen.
func (h *HelpText) View(keys help.KeyMap) string {
	title := styles.ViewTitleStyle.Render("Keyboard Shortcuts")
	body := h.model.FullHelpView(keys.FullHelp())
	dialog := styles.HelpDialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))

	if h.width > 0 {
		dialog = lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, dialog)
	}
	return dialog
}
