package components

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/render"
	"github.com/willibrandon/tswindow/internal/ui/styles"
)

// ChartPanel shows a reduced window as a line graph or, toggled, as a table
// of entries.
type ChartPanel struct {
	width  int
	height int

	result    *query.Result
	showTable bool
	layout    string
	maxGraph  int

	table table.Model
}

// NewChartPanel creates an empty panel. layout overrides the per-unit label
// format when set; graphHeight caps the graph's rows when positive.
func NewChartPanel(layout string, graphHeight int) *ChartPanel {
	t := table.New(
		table.WithColumns(entryColumns(20)),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(styles.BorderNormal).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(styles.ColorSelectedFg).
		Background(styles.ColorSelectedBg)
	t.SetStyles(s)

	return &ChartPanel{layout: layout, maxGraph: graphHeight, table: t}
}

func entryColumns(labelWidth int) []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Time", Width: labelWidth},
		{Title: "X", Width: 10},
		{Title: "Value", Width: 14},
	}
}

// SetSize sets the outer dimensions of the panel.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.table.SetHeight(max(height-4, 3))
}

// SetResult replaces the displayed window.
func (p *ChartPanel) SetResult(r *query.Result) {
	p.result = r
	p.table.SetRows(p.rows())
}

// Result returns the displayed window, nil before the first fetch.
func (p *ChartPanel) Result() *query.Result {
	return p.result
}

// ToggleTable switches between graph and table mode.
func (p *ChartPanel) ToggleTable() {
	p.showTable = !p.showTable
}

// ShowingTable reports whether table mode is on.
func (p *ChartPanel) ShowingTable() bool {
	return p.showTable
}

// Update forwards navigation keys to the table in table mode.
func (p *ChartPanel) Update(msg tea.Msg) tea.Cmd {
	if !p.showTable {
		return nil
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return cmd
}

func (p *ChartPanel) rows() []table.Row {
	if p.result == nil {
		return nil
	}
	f := p.result.Formatter
	layout := p.labelLayout()

	rows := make([]table.Row, len(p.result.Entries))
	for i, e := range p.result.Entries {
		rows[i] = table.Row{
			strconv.Itoa(i),
			f.Format(float64(e.X), layout),
			strconv.FormatFloat(float64(e.X), 'f', 2, 32),
			strconv.FormatFloat(float64(e.Y), 'f', 4, 32),
		}
	}
	return rows
}

func (p *ChartPanel) labelLayout() string {
	if p.layout != "" {
		return p.layout
	}
	if p.result == nil {
		return ""
	}
	return chart.DefaultLayout(p.result.Formatter.Unit())
}

// View renders the panel.
func (p *ChartPanel) View() string {
	if p.result == nil {
		return styles.PanelStyle.Render(styles.MutedStyle.Render("Loading..."))
	}

	title := styles.TitleStyle.Render(p.result.Metric) + " " +
		styles.Badge(p.result.Strategy.String(), styles.StrategyColor(p.result.Strategy)) +
		styles.MutedStyle.Render(fmt.Sprintf("%d points", len(p.result.Entries)))

	var body string
	if p.showTable {
		p.table.SetColumns(entryColumns(max(len(p.labelLayout()), 8)))
		body = p.table.View()
	} else {
		opts := render.DefaultOptions()
		// leave room for the border, padding and y-axis labels
		opts.Width = max(p.width-16, 20)
		opts.Height = max(p.height-5, 2)
		if p.maxGraph > 0 {
			opts.Height = min(opts.Height, p.maxGraph)
		}
		opts.Color = styles.StrategyGraphColor(p.result.Strategy)
		body = render.Graph(p.result.Entries, p.result.Formatter, opts)
	}

	values := chart.Values(p.result.Entries)
	spark := RenderSparkline(values, min(max(p.width/4, 8), 40), styles.StrategyColor(p.result.Strategy))
	footer := spark + " " + GetTrend(values).String()

	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, footer))
}
