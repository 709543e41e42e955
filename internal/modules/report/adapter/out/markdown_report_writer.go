package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"blazectl/internal/modules/report/domain"
	reportout "blazectl/internal/modules/report/port/out"
	"blazectl/internal/platform/atomicfile"
	apperrors "blazectl/internal/platform/errors"
	"blazectl/internal/platform/markdown"
	"blazectl/internal/platform/version"
)

type MarkdownReportWriter struct {
	path       string
	chartPath  string
	asciiChart bool
}

// NewMarkdownReportWriter writes the report to reportPath and links the chart
// relative to it. asciiChart adds a plain-text activity section. A report
// file that already holds blazectl markers keeps everything outside them.
func NewMarkdownReportWriter(reportPath, chartPath string, asciiChart bool) reportout.ReportWriter {
	return &MarkdownReportWriter{path: reportPath, chartPath: chartPath, asciiChart: asciiChart}
}

func (w *MarkdownReportWriter) WriteReport(_ context.Context, summary domain.Summary) (string, error) {
	content := RenderMarkdown(summary, w.chartLink(), w.asciiChart)
	existing, err := os.ReadFile(w.path)
	switch {
	case err == nil:
		if body := string(existing); markdown.HasManagedBlock(body, markdown.StartMarker, markdown.EndMarker) {
			content = markdown.ReplaceManagedBlock(body, markdown.StartMarker, markdown.EndMarker, content)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read report: %w: %w", apperrors.ErrIO, err)
	}
	if err := atomicfile.WriteFile(w.path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w: %w", apperrors.ErrIO, err)
	}
	return w.path, nil
}

func (w *MarkdownReportWriter) chartLink() string {
	if w.chartPath == "" {
		return ""
	}
	rel, err := filepath.Rel(filepath.Dir(w.path), w.chartPath)
	if err != nil {
		return filepath.ToSlash(w.chartPath)
	}
	return filepath.ToSlash(rel)
}

// RenderMarkdown formats a summary as the README report.
func RenderMarkdown(s domain.Summary, chartLink string, asciiChart bool) string {
	var b strings.Builder
	hm := domain.FormatHM

	b.WriteString("# BLAZECTL\n\n")
	b.WriteString("> A minimal command-line time tracker for disciplined solo work.\n")
	b.WriteString("> Run `start` / `stop`, keep JSONL logs, and track **Train** and **Battle** hours.\n\n")

	b.WriteString("## Field Report\n\n")
	fmt.Fprintf(&b, "- **Updated (UTC):** %s\n", s.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- **All-time (Total):** %s\n", hm(s.AllTime.Total()))
	fmt.Fprintf(&b, "- **All-time (Train):** %s\n", hm(s.AllTime.Train))
	fmt.Fprintf(&b, "- **All-time (Battle):** %s\n", hm(s.AllTime.Battle))
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "- **Skipped log lines:** %d\n", s.Skipped)
	}
	b.WriteString("\n")

	b.WriteString("## Rolling windows\n\n")
	b.WriteString("| Window | Train | Battle | Total |\n")
	b.WriteString("|--------|-------|--------|-------|\n")
	for _, win := range s.Windows {
		fmt.Fprintf(&b, "| %dd | %s | %s | %s |\n", win.Days, hm(win.Totals.Train), hm(win.Totals.Battle), hm(win.Totals.Total()))
	}
	b.WriteString("\n")

	b.WriteString("## Daily (last 7 days)\n\n")
	b.WriteString("| Date       | Train | Battle | Total |\n")
	b.WriteString("|------------|-------|--------|-------|\n")
	for _, row := range s.Last7 {
		fmt.Fprintf(&b, "| %s | %5s | %6s | %5s |\n", row.Date, hm(row.Totals.Train), hm(row.Totals.Battle), hm(row.Totals.Total()))
	}
	b.WriteString("\n")

	b.WriteString("## Streaks\n\n")
	fmt.Fprintf(&b, "- Any: %d days\n", s.Streaks.Any)
	fmt.Fprintf(&b, "- Train: %d days\n", s.Streaks.Train)
	fmt.Fprintf(&b, "- Battle: %d days\n", s.Streaks.Battle)
	b.WriteString("\n")

	if chartLink != "" {
		fmt.Fprintf(&b, "## Activity (last %d days)\n\n", domain.TrendWindowDays)
		fmt.Fprintf(&b, "![Daily hours with trend](%s)\n\n", chartLink)
	}

	if asciiChart {
		fmt.Fprintf(&b, "## Activity (last %dd)\n\n", domain.SparklineDays)
		b.WriteString("```text\n")
		b.WriteString(PlotMinutes(s.Last30Minutes))
		b.WriteString("\n```\n\n")
		fmt.Fprintf(&b, "%s (total minutes per day)\n\n", domain.Sparkline(s.Last30Minutes))
	}

	b.WriteString("## Usage\n\n")
	b.WriteString("```bash\n")
	b.WriteString("blazectl start train     # begin a session\n")
	b.WriteString("blazectl stop train      # end it and refresh this report\n")
	b.WriteString("blazectl status          # show the running session\n")
	b.WriteString("blazectl render-report   # regenerate this file\n")
	b.WriteString("```\n\n")
	fmt.Fprintf(&b, "<sub>Generated by blazectl %s</sub>\n", version.Version)
	return b.String()
}

// PlotMinutes draws a small line chart of per-day minutes.
func PlotMinutes(minutes []int64) string {
	if len(minutes) == 0 {
		return "no data"
	}
	data := make([]float64, len(minutes))
	for i, m := range minutes {
		data[i] = float64(m)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.Caption("minutes per day"),
	)
}
