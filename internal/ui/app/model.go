package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "blazectl/internal/modules/report/dto"
	sessiondto "blazectl/internal/modules/session/dto"
	"blazectl/internal/ui/components"
	"blazectl/internal/ui/theme"
	historyview "blazectl/internal/ui/views/history"
	statsview "blazectl/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Start(ctx context.Context, tag string) (sessiondto.StartOutput, error)
	Stop(ctx context.Context, tag string) (sessiondto.StopOutput, error)
	Status(ctx context.Context) (sessiondto.StatusOutput, error)
	Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error)
}

type reportPort interface {
	Summary(ctx context.Context) (reportdto.SummaryOutput, error)
	Refresh(ctx context.Context) reportdto.RefreshOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabStats tabID = iota
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Stats", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

type statusLoadedMsg struct {
	status sessiondto.StatusOutput
	err    error
}

type sessionStartedMsg struct {
	out sessiondto.StartOutput
	err error
}

type sessionStoppedMsg struct {
	out     sessiondto.StopOutput
	refresh reportdto.RefreshOutput
	err     error
}

type refreshedMsg struct{ out reportdto.RefreshOutput }

type tickMsg time.Time

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Train   key.Binding
	Battle  key.Binding
	Stop    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Train:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "start train")),
		Battle:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start battle")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop running")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "render report")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Train, k.Battle, k.Stop, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Train, k.Battle, k.Stop},
		{k.Refresh, k.Tab},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the running
// session readout, the help overlay and the command palette. Aggregation and
// persistence stay behind the session and report ports.
type Model struct {
	session sessionPort
	report  reportPort

	statsView   statsview.Model
	historyView historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	active    sessiondto.StatusOutput
	now       time.Time
	status    string
	width     int
	height    int
}

func NewModel(session sessionPort, report reportPort) Model {
	return Model{
		session:     session,
		report:      report,
		statsView:   statsview.New(report),
		historyView: historyview.New(session),
		activeTab:   tabStats,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		now:         time.Now(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.statsView.Init(),
		m.historyView.Init(),
		m.loadStatusCmd(),
		tick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case statusLoadedMsg:
		if msg.err != nil {
			m.status = "status: " + msg.err.Error()
		} else {
			m.active = msg.status
		}
		return m, nil

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
			return m, nil
		}
		switch {
		case msg.out.OtherRunning != "":
			m.status = fmt.Sprintf("%s is still running; stop it first", msg.out.OtherRunning)
		case msg.out.AlreadyRunning:
			m.status = fmt.Sprintf("already running: %s since %s", msg.out.Activity, msg.out.StartedAt.UTC().Format("15:04"))
		default:
			m.status = "started " + msg.out.Activity
		}
		return m, m.loadStatusCmd()

	case sessionStoppedMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.out.Stopped {
			m.status = fmt.Sprintf("no active %s session", msg.out.Activity)
			return m, nil
		}
		m.status = fmt.Sprintf("stopped %s after %s", msg.out.Activity, msg.out.Duration.Truncate(time.Second))
		if len(msg.refresh.Warnings) > 0 {
			m.status += " (" + strings.Join(msg.refresh.Warnings, "; ") + ")"
		}
		return m, tea.Batch(m.loadStatusCmd(), m.statsView.Reload(), m.historyView.Reload())

	case refreshedMsg:
		switch {
		case len(msg.out.Warnings) > 0:
			m.status = strings.Join(msg.out.Warnings, "; ")
		case msg.out.Committed:
			m.status = "report rendered and committed"
		default:
			m.status = "report rendered"
		}
		return m, tea.Batch(m.statsView.Reload(), m.historyView.Reload())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the history filter while the user is typing.
		if m.activeTab == tabHistory && m.historyView.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case msg.String() == "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Train):
			return m, m.startCmd("train")
		case key.Matches(msg, m.keys.Battle):
			return m, m.startCmd("battle")
		case key.Matches(msg, m.keys.Stop):
			if !m.active.Active {
				m.status = "no active session"
				return m, nil
			}
			return m, m.stopCmd(m.active.Activity)
		case key.Matches(msg, m.keys.Refresh):
			m.status = "rendering…"
			return m, m.refreshCmd()
		}
	}

	// Loaded messages are routed to both views; everything else goes to the
	// visible tab only.
	var cmd tea.Cmd
	switch msg.(type) {
	case statsview.SummaryLoadedMsg:
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd
	case historyview.RecordsLoadedMsg:
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	}
	switch m.activeTab {
	case tabStats:
		m.statsView, cmd = m.statsView.Update(msg)
	case tabHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabHistory:
		content = m.historyView.View()
	default:
		content = m.statsView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "blazectl  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.active.Active {
		left = theme.Activity(m.active.Activity).Render("● "+m.active.Activity+" "+m.elapsed()) + "  " + left
	}
	right := theme.Muted.Render("t/b:start  x:stop  ?:help  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// elapsed is measured against the last tick so the readout advances without
// re-reading the state file.
func (m Model) elapsed() string {
	d := m.now.Sub(m.active.StartedAt)
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	mm := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, mm, s)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(strings.ToLower(input))
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "start", "stop":
		if len(parts) < 2 {
			m.status = "usage: " + parts[0] + " <train|battle>"
			return m, nil
		}
		if parts[0] == "start" {
			return m, m.startCmd(parts[1])
		}
		return m, m.stopCmd(parts[1])

	case "render":
		m.status = "rendering…"
		return m, m.refreshCmd()

	case "reload":
		return m, tea.Batch(m.loadStatusCmd(), m.statsView.Reload(), m.historyView.Reload())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.statsView, _ = m.statsView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadStatusCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.session.Status(context.Background())
		return statusLoadedMsg{status: st, err: err}
	}
}

func (m Model) startCmd(tag string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), tag)
		return sessionStartedMsg{out: out, err: err}
	}
}

// stopCmd stops the session and refreshes the report in the same step, the
// way the stop command does on the CLI.
func (m Model) stopCmd(tag string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		out, err := m.session.Stop(ctx, tag)
		if err != nil || !out.Stopped {
			return sessionStoppedMsg{out: out, err: err}
		}
		var refresh reportdto.RefreshOutput
		if m.report != nil {
			refresh = m.report.Refresh(ctx)
		}
		return sessionStoppedMsg{out: out, refresh: refresh}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		if m.report == nil {
			return refreshedMsg{}
		}
		return refreshedMsg{out: m.report.Refresh(context.Background())}
	}
}
