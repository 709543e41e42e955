package bootstrap

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	reportinadapter "blazectl/internal/modules/report/adapter/in"
	reportoutadapter "blazectl/internal/modules/report/adapter/out"
	reportservice "blazectl/internal/modules/report/service"
	reportusecase "blazectl/internal/modules/report/usecase"
	sessioninadapter "blazectl/internal/modules/session/adapter/in"
	sessionoutadapter "blazectl/internal/modules/session/adapter/out"
	sessionout "blazectl/internal/modules/session/port/out"
	sessionservice "blazectl/internal/modules/session/service"
	sessionusecase "blazectl/internal/modules/session/usecase"
	"blazectl/internal/platform/clock"
	"blazectl/internal/platform/config"
	"blazectl/internal/platform/logger"
	uiapp "blazectl/internal/ui/app"
)

const watchDebounce = 300 * time.Millisecond

type App struct {
	Config     config.Config
	SessionCLI sessioninadapter.CLIHandler
	ReportCLI  reportinadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config) (*App, error) {
	logger.Configure(os.Stderr, cfg.LogLevel)
	clk := clock.SystemClock{}
	app := &App{Config: cfg}

	// The index only accelerates history queries; the JSONL log stays the
	// source of truth, so index failures surface as warnings on stop.
	index := newLazyRecordIndex(cfg)
	app.closers = append(app.closers, index.Close)

	var notifier sessionout.Notifier
	if cfg.Notify {
		notifier = sessionoutadapter.NewBeeepNotifier()
	}
	var locker sessionout.Locker
	if cfg.Lock {
		locker = storeLocker{cfg: cfg, next: sessionoutadapter.NewFileLocker(cfg.LockPath)}
	}

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk),
		sessionoutadapter.NewFileActiveStateStore(cfg.StoreDir),
		sessionoutadapter.NewJSONLRecordStore(cfg.StoreDir),
		index,
		notifier,
		locker,
	)

	reportUC := reportusecase.NewInteractor(
		reportservice.NewReportService(clk, reportoutadapter.NewSessionRecordAdapter(sessionUC)),
		reportoutadapter.NewMarkdownReportWriter(cfg.ReportPath, cfg.ChartPath, cfg.ASCIIChart),
		reportoutadapter.NewSVGChartWriter(cfg.ChartPath),
		reportoutadapter.NewGitPublisher(cfg.Root, []string{cfg.ReportPath, cfg.ChartPath, cfg.StoreDir}, cfg.AutoCommit),
		reportoutadapter.NewFSNotifyWatcher(cfg.StoreDir, watchDebounce),
	)

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.ReportCLI = reportinadapter.NewCLIHandler(reportUC)
	return app, nil
}

// Close releases the resources opened by New.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunDashboard(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.ReportCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
