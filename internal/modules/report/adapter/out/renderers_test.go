package out_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportadapter "blazectl/internal/modules/report/adapter/out"
	"blazectl/internal/modules/report/domain"
	"blazectl/internal/platform/markdown"
)

func scenarioSummary(t *testing.T) domain.Summary {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := domain.NewLedger()
	l.Add(domain.Entry{Activity: domain.ActivityTrain, Start: start, Duration: 90 * time.Minute})
	return domain.Summarize(l, start.Add(3*time.Hour))
}

func TestRenderMarkdownScenario(t *testing.T) {
	t.Parallel()
	md := reportadapter.RenderMarkdown(scenarioSummary(t), "assets/activity.svg", false)

	assert.Contains(t, md, "- **Updated (UTC):** 2024-01-01T03:00:00Z")
	assert.Contains(t, md, "- **All-time (Train):** 1h 30m")
	assert.Contains(t, md, "- **All-time (Battle):** 0h 00m")
	assert.Contains(t, md, "| Date       | Train | Battle | Total |")
	assert.Contains(t, md, "| 2024-01-01 | 1h 30m | 0h 00m | 1h 30m |")
	assert.Contains(t, md, "| 2023-12-26 | 0h 00m | 0h 00m | 0h 00m |")
	assert.Contains(t, md, "| 7d | 1h 30m | 0h 00m | 1h 30m |")
	assert.Contains(t, md, "- Any: 1 days")
	assert.Contains(t, md, "![Daily hours with trend](assets/activity.svg)")
	assert.NotContains(t, md, "total minutes per day")
	assert.NotContains(t, md, "Skipped log lines")

	// daily rows ascend
	assert.Less(t, strings.Index(md, "| 2023-12-26 |"), strings.Index(md, "| 2024-01-01 |"))
}

func TestRenderMarkdownASCIISection(t *testing.T) {
	t.Parallel()
	s := scenarioSummary(t)
	s.Skipped = 2
	md := reportadapter.RenderMarkdown(s, "", true)

	assert.Contains(t, md, "## Activity (last 30d)")
	assert.Contains(t, md, strings.Repeat("▁", 29)+"█ (total minutes per day)")
	assert.Contains(t, md, "- **Skipped log lines:** 2")
	assert.NotContains(t, md, "![Daily hours")
}

func TestMarkdownReportWriterLinksChartRelative(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writer := reportadapter.NewMarkdownReportWriter(
		filepath.Join(root, "README.md"),
		filepath.Join(root, "assets", "activity.svg"),
		false,
	)
	path, err := writer.WriteReport(context.Background(), scenarioSummary(t))
	require.NoError(t, err)
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "](assets/activity.svg)")
}

func TestMarkdownReportWriterKeepsTextAroundMarkers(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "README.md")
	existing := "# My log\n\n" + markdown.StartMarker + "\nstale\n" + markdown.EndMarker + "\n\nhand written\n"
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	writer := reportadapter.NewMarkdownReportWriter(path, "", false)
	_, err := writer.WriteReport(context.Background(), scenarioSummary(t))
	require.NoError(t, err)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	got := string(payload)
	assert.True(t, strings.HasPrefix(got, "# My log\n\n"+markdown.StartMarker+"\n"))
	assert.True(t, strings.HasSuffix(got, markdown.EndMarker+"\n\nhand written\n"))
	assert.NotContains(t, got, "stale")
	assert.Contains(t, got, "1h 30m")
}

func TestYDomain(t *testing.T) {
	t.Parallel()
	lo, hi := reportadapter.YDomain([]float64{2, 2, 2})
	assert.InDelta(t, 1.5, lo, 1e-9)
	assert.InDelta(t, 2.5, hi, 1e-9)

	lo, hi = reportadapter.YDomain([]float64{0, 0}, nil)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = reportadapter.YDomain([]float64{0, 10}, []float64{4})
	assert.Equal(t, 0.0, lo)
	assert.InDelta(t, 11, hi, 1e-9)

	lo, hi = reportadapter.YDomain([]float64{5, 15})
	assert.InDelta(t, 4, lo, 1e-9)
	assert.InDelta(t, 16, hi, 1e-9)

	lo, hi = reportadapter.YDomain()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestSVGChartWriter(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "assets", "activity.svg")
	got, err := reportadapter.NewSVGChartWriter(path).WriteChart(context.Background(), scenarioSummary(t))
	require.NoError(t, err)
	assert.Equal(t, path, got)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(payload)
	assert.Contains(t, svg, "<svg")
	assert.Contains(t, svg, `width="800"`)
	assert.Contains(t, svg, "<polygon")
	assert.Contains(t, svg, "<polyline")
	assert.Contains(t, svg, "2023-10-19")
	assert.Contains(t, svg, "2024-01-01")
}

func TestDrawChartFlatAndEmpty(t *testing.T) {
	t.Parallel()
	empty := domain.Summarize(domain.NewLedger(), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	require.NoError(t, reportadapter.DrawChart(&buf, empty))
	assert.Contains(t, buf.String(), "1.0h")

	buf.Reset()
	assert.Error(t, reportadapter.DrawChart(&buf, domain.Summary{}))
}
