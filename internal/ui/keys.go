// Package ui holds the key bindings, messages and components of the
// tswindow terminal browser.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard bindings for the browser
type KeyMap struct {
	// Navigation
	Quit        key.Binding
	Help        key.Binding
	CloseDialog key.Binding
	NextMetric  key.Binding
	PrevMetric  key.Binding

	// Window paging
	Older  key.Binding
	Newer  key.Binding
	Latest key.Binding

	// Window shape
	NextPreset    key.Binding
	NextUnit      key.Binding
	PrevUnit      key.Binding
	MoreUnits     key.Binding
	FewerUnits    key.Binding
	NextAlgorithm key.Binding

	// Reduction
	NextStrategy key.Binding
	TogglePost   key.Binding
	MorePoints   key.Binding
	FewerPoints  key.Binding

	// Display
	ToggleTable key.Binding
	Refresh     key.Binding
}

// DefaultKeyMap returns the default keyboard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		CloseDialog: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close help"),
		),
		NextMetric: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next metric"),
		),
		PrevMetric: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous metric"),
		),

		Older: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "older window"),
		),
		Newer: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "newer window"),
		),
		Latest: key.NewBinding(
			key.WithKeys("end", "0"),
			key.WithHelp("end/0", "live window"),
		),

		NextPreset: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "next preset"),
		),
		NextUnit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "larger unit"),
		),
		PrevUnit: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "smaller unit"),
		),
		MoreUnits: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "widen window"),
		),
		FewerUnits: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "narrow window"),
		),
		NextAlgorithm: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "rounding"),
		),

		NextStrategy: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "strategy"),
		),
		TogglePost: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "post anchoring"),
		),
		MorePoints: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more points"),
		),
		FewerPoints: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "fewer points"),
		),

		ToggleTable: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "table"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Older, k.Newer, k.NextPreset, k.NextStrategy, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, one group per
// column.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.CloseDialog, k.NextMetric, k.PrevMetric},
		{k.Older, k.Newer, k.Latest},
		{k.NextPreset, k.NextUnit, k.PrevUnit, k.MoreUnits, k.FewerUnits, k.NextAlgorithm},
		{k.NextStrategy, k.TogglePost, k.MorePoints, k.FewerPoints},
		{k.ToggleTable, k.Refresh},
	}
}
