package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	sessiondto "blazectl/internal/modules/session/dto"
	"blazectl/internal/platform/isoduration"
	"blazectl/internal/ui/theme"
)

const recentLimit = 50

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type RecordsLoadedMsg struct {
	Records []sessiondto.RecordOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type recordItem struct {
	record sessiondto.RecordOutput
}

func (i recordItem) Title() string {
	return fmt.Sprintf("%s  %s", i.record.Activity, i.record.Start.UTC().Format("2006-01-02 15:04"))
}

func (i recordItem) Description() string {
	return fmt.Sprintf("%s  %s", formatDuration(i.record.Duration), humanize.Time(i.record.End))
}

func (i recordItem) FilterValue() string {
	return i.record.Activity + " " + i.record.Start.UTC().Format("2006-01-02")
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    HistoryPort
	list    list.Model
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
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

	case RecordsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "History"
		items := make([]list.Item, len(msg.Records))
		for i, r := range msg.Records {
			items[i] = recordItem{record: r}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.preview.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.preview.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading sessions…")
	}

	listW := m.width * 45 / 100
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Reload re-reads the most recent sessions from the index.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return RecordsLoadedMsg{}
		}
		records, err := m.port.Recent(context.Background(), recentLimit)
		return RecordsLoadedMsg{Records: records, Err: err}
	}
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 45 / 100
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return theme.Muted.Render("No sessions logged yet")
	}
	r := item.record
	var sb strings.Builder
	sb.WriteString(theme.Activity(r.Activity).Render(r.Activity) + "\n\n")
	sb.WriteString(theme.Muted.Render("start:    ") + r.Start.UTC().Format(time.RFC3339) + "\n")
	sb.WriteString(theme.Muted.Render("end:      ") + r.End.UTC().Format(time.RFC3339) + "\n")
	sb.WriteString(theme.Muted.Render("duration: ") + formatDuration(r.Duration) + "\n")
	sb.WriteString(theme.Muted.Render("iso:      ") + isoduration.Format(r.Duration) + "\n")
	sb.WriteString(theme.Muted.Render("ended:    ") + humanize.Time(r.End) + "\n")
	return sb.String()
}

func formatDuration(d time.Duration) string {
	total := int64(d / time.Minute)
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}
