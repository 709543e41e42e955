package usecase

import (
	"context"
	"fmt"

	"blazectl/internal/modules/report/domain"
	reportdto "blazectl/internal/modules/report/dto"
	reportin "blazectl/internal/modules/report/port/in"
	reportout "blazectl/internal/modules/report/port/out"
	"blazectl/internal/modules/report/service"
	"blazectl/internal/platform/logger"
)

// Interactor renders and publishes reports. chart, publisher and watcher may
// be nil.
type Interactor struct {
	svc       *service.ReportService
	report    reportout.ReportWriter
	chart     reportout.ChartWriter
	publisher reportout.Publisher
	watcher   reportout.ChangeWatcher
}

func NewInteractor(
	svc *service.ReportService,
	report reportout.ReportWriter,
	chart reportout.ChartWriter,
	publisher reportout.Publisher,
	watcher reportout.ChangeWatcher,
) reportin.Usecase {
	return &Interactor{svc: svc, report: report, chart: chart, publisher: publisher, watcher: watcher}
}

func (i *Interactor) Render(ctx context.Context) (reportdto.RenderOutput, error) {
	summary, err := i.svc.Build(ctx)
	if err != nil {
		return reportdto.RenderOutput{}, err
	}
	if summary.Skipped > 0 {
		logger.Warn("skipped malformed log lines", "count", summary.Skipped)
	}

	out := reportdto.RenderOutput{Skipped: summary.Skipped}
	if i.chart != nil {
		path, err := i.chart.WriteChart(ctx, summary)
		if err != nil {
			logger.Warn("chart generation failed", "error", err)
		} else {
			out.ChartPath = path
		}
	}
	path, err := i.report.WriteReport(ctx, summary)
	if err != nil {
		return reportdto.RenderOutput{}, err
	}
	out.ReportPath = path
	logger.Debug("report rendered", "report", out.ReportPath, "chart", out.ChartPath)
	return out, nil
}

func (i *Interactor) Publish(ctx context.Context) (reportdto.PublishOutput, error) {
	if i.publisher == nil {
		return reportdto.PublishOutput{}, nil
	}
	committed, message, err := i.publisher.Publish(ctx, i.svc.Now())
	if err != nil {
		return reportdto.PublishOutput{}, err
	}
	return reportdto.PublishOutput{Committed: committed, Message: message}, nil
}

func (i *Interactor) Refresh(ctx context.Context) reportdto.RefreshOutput {
	out := reportdto.RefreshOutput{}
	if _, err := i.Render(ctx); err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("render report: %v", err))
		logger.Warn("report refresh failed", "error", err)
		return out
	}
	out.Rendered = true
	published, err := i.Publish(ctx)
	if err != nil {
		out.Warnings = append(out.Warnings, fmt.Sprintf("auto-commit: %v", err))
		logger.Warn("auto-commit failed", "error", err)
		return out
	}
	out.Committed = published.Committed
	return out
}

func (i *Interactor) Summary(ctx context.Context) (reportdto.SummaryOutput, error) {
	summary, err := i.svc.Build(ctx)
	if err != nil {
		return reportdto.SummaryOutput{}, err
	}
	return toSummaryOutput(summary), nil
}

func (i *Interactor) Watch(ctx context.Context, onRender func(reportdto.RenderOutput, error)) error {
	if i.watcher == nil {
		return fmt.Errorf("change watcher is not configured")
	}
	return i.watcher.Watch(ctx, func() {
		out, err := i.Render(ctx)
		if onRender != nil {
			onRender(out, err)
		}
	})
}

func toTotals(t domain.Totals) reportdto.TotalsOutput {
	return reportdto.TotalsOutput{Train: t.Train, Battle: t.Battle, Total: t.Total()}
}

func toSummaryOutput(s domain.Summary) reportdto.SummaryOutput {
	windows := make([]reportdto.WindowOutput, 0, len(s.Windows))
	for _, w := range s.Windows {
		windows = append(windows, reportdto.WindowOutput{Days: w.Days, Totals: toTotals(w.Totals)})
	}
	days := make([]reportdto.DayOutput, 0, len(s.Last7))
	for _, row := range s.Last7 {
		days = append(days, reportdto.DayOutput{Date: row.Date.String(), Totals: toTotals(row.Totals)})
	}
	trend := make([]reportdto.PointOutput, 0, len(s.Trend))
	for _, p := range s.Trend {
		trend = append(trend, reportdto.PointOutput{X: p.X, Y: p.Y})
	}
	return reportdto.SummaryOutput{
		GeneratedAt:   s.GeneratedAt,
		Today:         s.Today.String(),
		AllTime:       toTotals(s.AllTime),
		Windows:       windows,
		StreakAny:     s.Streaks.Any,
		StreakTrain:   s.Streaks.Train,
		StreakBattle:  s.Streaks.Battle,
		Last7:         days,
		Last30Minutes: append([]int64(nil), s.Last30Minutes...),
		Sparkline:     domain.Sparkline(s.Last30Minutes),
		Daily:         append([]float64(nil), s.Daily...),
		Trend:         trend,
		Skipped:       s.Skipped,
	}
}
