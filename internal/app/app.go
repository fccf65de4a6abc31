// Package app implements the interactive window browser: a Bubbletea model
// that pages through a metric's history one window at a time and re-reduces
// it as the window shape and strategy change.
package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-wordwrap"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/config"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/query"
	"github.com/willibrandon/tswindow/internal/timerange"
	"github.com/willibrandon/tswindow/internal/ui"
	"github.com/willibrandon/tswindow/internal/ui/components"
	"github.com/willibrandon/tswindow/internal/ui/styles"
)

// Source is a history source that can also list its metrics. Both stores
// satisfy it.
type Source interface {
	metrics.HistorySource
	Metrics(ctx context.Context) ([]string, error)
}

// Model represents the browser's Bubbletea model
type Model struct {
	config     *config.Config
	source     Source
	sourceName string

	// UI state
	width  int
	height int
	keys   ui.KeyMap

	// UI components
	help      *components.HelpText
	statusBar *components.StatusBar
	panel     *components.ChartPanel
	spinner   spinner.Model

	// Window and reduction settings
	metricNames []string
	metricIdx   int
	unit        timerange.Unit
	qty         int
	offset      int
	algorithm   timerange.Algorithm
	strategy    chart.Strategy
	post        bool
	maxCount    int
	preset      timerange.Preset

	// Application state
	helpVisible bool
	quitting    bool
	ready       bool
	loading     bool
	seq         int
	err         error

	now func() time.Time
}

// New creates a browser for metric on src, starting from the chart defaults
// in cfg. An empty metric selects the first one the source lists.
func New(cfg *config.Config, src Source, sourceName, metric string) (*Model, error) {
	unit, err := timerange.ParseUnit(cfg.Chart.Unit)
	if err != nil {
		return nil, err
	}
	algorithm, err := timerange.ParseAlgorithm(cfg.Chart.Algorithm)
	if err != nil {
		return nil, err
	}
	strategy, err := chart.ParseStrategy(cfg.Chart.Strategy)
	if err != nil {
		return nil, err
	}

	statusBar := components.NewStatusBar(sourceName)
	statusBar.SetDateFormat(cfg.Chart.DateFormat)

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorAccent)

	m := &Model{
		config:     cfg,
		source:     src,
		sourceName: sourceName,
		keys:       ui.DefaultKeyMap(),
		help:       components.NewHelp(),
		statusBar:  statusBar,
		panel:      components.NewChartPanel(cfg.Chart.DateFormat, cfg.UI.ChartHeight),
		spinner:    s,
		unit:       unit,
		qty:        max(cfg.Chart.Qty, 1),
		algorithm:  algorithm,
		strategy:   strategy,
		post:       cfg.Chart.Post,
		maxCount:   cfg.Chart.MaxCount,
		preset:     timerange.PresetLast24h,
		now:        time.Now,
	}
	if metric != "" {
		m.metricNames = []string{metric}
	}
	return m, nil
}

// Init starts the first fetch and the clocks
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		fetchMetricList(m.source),
		tickStatusBar(),
		tickRefresh(m.config.UI.RefreshInterval),
		m.spinner.Tick,
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.statusBar.SetSize(msg.Width)
		// header, status bar, error line and footer
		m.panel.SetSize(msg.Width, msg.Height-5)
		m.ready = true
		return m, nil

	case ui.MetricListMsg:
		if msg.Error != nil {
			m.err = msg.Error
			logger.Warn("failed to list metrics", "source", m.sourceName, "error", msg.Error)
			return m, nil
		}
		for _, name := range msg.Names {
			if !slices.Contains(m.metricNames, name) {
				m.metricNames = append(m.metricNames, name)
			}
		}
		return m.refetch()

	case ui.ResultDataMsg:
		if msg.Seq != m.seq {
			// superseded by a newer request
			return m, nil
		}
		m.loading = false
		m.statusBar.ObserveFetch(msg.Elapsed)
		if msg.Error != nil {
			m.err = msg.Error
			logger.Warn("window fetch failed", "metric", m.metric(), "error", msg.Error)
			return m, nil
		}
		m.err = nil
		m.panel.SetResult(msg.Result)
		m.statusBar.SetWindow(msg.Result.Limits, m.offset, msg.Result.Samples)
		return m, nil

	case ui.RefreshTickMsg:
		next := tickRefresh(m.config.UI.RefreshInterval)
		// only the live window moves
		if m.offset != 0 || m.loading {
			return m, next
		}
		var cmd tea.Cmd
		m, cmd = m.refetch()
		return m, tea.Batch(cmd, next)

	case StatusBarTickMsg:
		m.statusBar.SetTimestamp(msg.Timestamp)
		return m, tickStatusBar()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.helpVisible = !m.helpVisible
		return m, nil
	}
	if m.helpVisible {
		if key.Matches(msg, m.keys.CloseDialog) {
			m.helpVisible = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Older):
		m.offset--
	case key.Matches(msg, m.keys.Newer):
		if m.offset == 0 {
			return m, nil
		}
		m.offset++
	case key.Matches(msg, m.keys.Latest):
		m.offset = 0

	case key.Matches(msg, m.keys.NextPreset):
		m.preset = m.preset.Next()
		m.unit = m.preset.Unit()
		m.qty = m.preset.Qty()
		m.maxCount = m.preset.MaxCount()
		m.offset = 0
	case key.Matches(msg, m.keys.NextUnit):
		upper, err := m.unit.Upper()
		if err != nil {
			return m, nil
		}
		m.unit = upper
	case key.Matches(msg, m.keys.PrevUnit):
		lower, err := m.unit.Lower()
		if err != nil {
			return m, nil
		}
		m.unit = lower
	case key.Matches(msg, m.keys.MoreUnits):
		m.qty++
	case key.Matches(msg, m.keys.FewerUnits):
		if m.qty <= 1 {
			return m, nil
		}
		m.qty--
	case key.Matches(msg, m.keys.NextAlgorithm):
		if m.algorithm == timerange.Rounded {
			m.algorithm = timerange.UpperRounded
		} else {
			m.algorithm = timerange.Rounded
		}

	case key.Matches(msg, m.keys.NextStrategy):
		m.strategy = m.strategy.Next()
	case key.Matches(msg, m.keys.TogglePost):
		m.post = !m.post
	case key.Matches(msg, m.keys.MorePoints):
		m.maxCount++
	case key.Matches(msg, m.keys.FewerPoints):
		if m.maxCount <= 1 {
			return m, nil
		}
		m.maxCount--

	case key.Matches(msg, m.keys.NextMetric):
		if len(m.metricNames) < 2 {
			return m, nil
		}
		m.metricIdx = (m.metricIdx + 1) % len(m.metricNames)
	case key.Matches(msg, m.keys.PrevMetric):
		if len(m.metricNames) < 2 {
			return m, nil
		}
		m.metricIdx = (m.metricIdx - 1 + len(m.metricNames)) % len(m.metricNames)

	case key.Matches(msg, m.keys.ToggleTable):
		m.panel.ToggleTable()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		// falls through to refetch

	default:
		return m, m.panel.Update(msg)
	}

	return m.refetch()
}

// refetch issues a query for the current settings. Responses to earlier
// requests are ignored once it is sent.
func (m Model) refetch() (Model, tea.Cmd) {
	metric := m.metric()
	if metric == "" {
		return m, nil
	}
	m.seq++
	m.loading = true
	return m, fetchResult(m.source, m.Query(), m.seq)
}

func (m Model) metric() string {
	if len(m.metricNames) == 0 {
		return ""
	}
	return m.metricNames[m.metricIdx]
}

// Query returns the query for the current settings.
func (m Model) Query() query.Query {
	return query.Query{
		Metric: m.metric(),
		Window: query.Window{
			Ref:       m.now(),
			Unit:      m.unit,
			Qty:       m.qty,
			Offset:    m.offset,
			Algorithm: m.algorithm,
		},
		MaxCount: m.maxCount,
		Strategy: m.strategy,
		Post:     m.post,
		Source:   m.sourceName,
	}
}

// View renders the application UI
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.helpVisible {
		return m.help.View(m.keys)
	}

	var errLine string
	if m.err != nil {
		msg := wordwrap.WrapString(FormatFetchError(m.err), uint(max(m.width-2, 20)))
		errLine = styles.ErrorStyle.Render(msg)
	} else if m.metric() == "" {
		errLine = styles.MutedStyle.Render("No metrics in " + m.sourceName)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.panel.View(),
		errLine,
		m.statusBar.View(),
		m.help.ShortHelp(m.keys),
	)
}

// renderHeader renders the window and reduction settings
func (m Model) renderHeader() string {
	parts := []string{
		styles.TitleStyle.Render("tswindow"),
		fmt.Sprintf("%d %s", m.qty, m.unit),
		m.algorithm.String(),
		styles.Badge(m.strategy.String(), styles.StrategyColor(m.strategy)),
		fmt.Sprintf("max %d", m.maxCount),
	}
	if m.post {
		parts = append(parts, styles.Badge("post", styles.ColorWarning))
	}
	if m.loading {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, "  ")
}
