package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	reportdto "blazectl/internal/modules/report/dto"
	"blazectl/internal/ui/components"
	"blazectl/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type SummaryPort interface {
	Summary(ctx context.Context) (reportdto.SummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SummaryLoadedMsg struct {
	Summary reportdto.SummaryOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    SummaryPort
	summary reportdto.SummaryOutput
	err     error
	totals  viewport.Model
	chart   viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port SummaryPort) Model {
	style := lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	totals := viewport.New(0, 0)
	totals.Style = style
	chart := viewport.New(0, 0)
	chart.Style = style

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	return Model{
		port:    port,
		totals:  totals,
		chart:   chart,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshContent()

	case SummaryLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.summary = msg.Summary
		}
		m.refreshContent()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var vCmd tea.Cmd
		m.totals, vCmd = m.totals.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Aggregating sessions…")
	}

	leftW := m.width * 4 / 10
	rightW := m.width - leftW
	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Height(m.height - 2)

	left := pane.Width(leftW - 2).Render(m.totals.View())
	right := pane.Width(rightW - 2).Render(m.chart.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// Reload recomputes the summary from the record log.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return SummaryLoadedMsg{}
		}
		s, err := m.port.Summary(context.Background())
		return SummaryLoadedMsg{Summary: s, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	leftW := m.width * 4 / 10
	rightW := m.width - leftW
	m.totals.Width = leftW - 4
	m.totals.Height = m.height - 4
	m.chart.Width = rightW - 4
	m.chart.Height = m.height - 4
}

func (m *Model) refreshContent() {
	if m.err != nil {
		m.totals.SetContent(theme.Bad.Render("summary: " + m.err.Error()))
		m.chart.SetContent("")
		return
	}
	m.totals.SetContent(RenderTotals(m.summary))
	m.chart.SetContent(m.renderChart())
}

// RenderTotals formats windows, streaks and the last-7-day table.
func RenderTotals(s reportdto.SummaryOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Totals") + "\n")
	row := func(label string, t reportdto.TotalsOutput) {
		sb.WriteString(fmt.Sprintf("%-10s %s %s %s\n",
			theme.Muted.Render(label),
			theme.Train.Render(formatHM(t.Train)),
			theme.Battle.Render(formatHM(t.Battle)),
			formatHM(t.Total)))
	}
	row("all time", s.AllTime)
	for _, w := range s.Windows {
		row(fmt.Sprintf("%dd", w.Days), w.Totals)
	}

	sb.WriteString("\n" + theme.Title.Render("Streaks") + "\n")
	sb.WriteString(fmt.Sprintf("any %s  train %s  battle %s\n",
		theme.Hot.Render(humanize.Comma(int64(s.StreakAny))),
		theme.Train.Render(humanize.Comma(int64(s.StreakTrain))),
		theme.Battle.Render(humanize.Comma(int64(s.StreakBattle)))))

	sb.WriteString("\n" + theme.Title.Render("Last 7 days") + "\n")
	for i := len(s.Last7) - 1; i >= 0; i-- {
		d := s.Last7[i]
		sb.WriteString(fmt.Sprintf("%s  %s %s %s\n", d.Date,
			theme.Train.Render(formatHM(d.Totals.Train)),
			theme.Battle.Render(formatHM(d.Totals.Battle)),
			formatHM(d.Totals.Total)))
	}
	if s.Sparkline != "" {
		sb.WriteString("\n" + theme.Muted.Render("30d ") + s.Sparkline + "\n")
	}
	if s.Skipped > 0 {
		sb.WriteString("\n" + theme.Bad.Render(fmt.Sprintf("%d malformed lines skipped", s.Skipped)) + "\n")
	}
	return sb.String()
}

func (m Model) renderChart() string {
	xs := make([]float64, len(m.summary.Trend))
	ys := make([]float64, len(m.summary.Trend))
	for i, p := range m.summary.Trend {
		xs[i], ys[i] = p.X, p.Y
	}
	trend := components.ResampleTrend(xs, ys, len(m.summary.Daily))
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Hours per day") + "\n\n")
	sb.WriteString(components.RenderHoursChart(m.summary.Daily, trend,
		m.chart.Width-10, m.chart.Height-6,
		fmt.Sprintf("last %d days, trend in orange", len(m.summary.Daily))))
	return sb.String()
}

func formatHM(secs int64) string {
	mins := secs / 60
	return fmt.Sprintf("%3dh %02dm", mins/60, mins%60)
}
