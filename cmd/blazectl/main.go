package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"blazectl/internal/bootstrap"
	reportdto "blazectl/internal/modules/report/dto"
	"blazectl/internal/platform/config"
	"blazectl/internal/platform/logger"
	"blazectl/internal/platform/version"
	"blazectl/internal/ui/theme"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:           "blazectl",
		Short:         "Track train and battle sessions and render an activity report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&root, "root", ".", "project directory")

	cmd.AddCommand(newStartCmd(&root))
	cmd.AddCommand(newStopCmd(&root))
	cmd.AddCommand(newStatusCmd(&root))
	cmd.AddCommand(newRenderCmd(&root))
	cmd.AddCommand(newReindexCmd(&root))
	cmd.AddCommand(newLogCmd(&root))
	cmd.AddCommand(newDashCmd(&root))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func loadApp(root string) (*bootstrap.App, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp runs fn against a freshly wired app and releases it afterwards.
func withApp(root string, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(root)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()
	return fn(app)
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func newStartCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start <train|battle>",
		Short: "Start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*root, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("start: %w", err)
				}
				w := cmd.OutOrStdout()
				if out.AlreadyRunning {
					_, _ = fmt.Fprintf(w, "Already running: %s since %s\n", out.Activity, stamp(out.StartedAt))
					return nil
				}
				if out.OtherRunning != "" {
					_, _ = fmt.Fprintf(w, "Auto-stop %s before starting %s. Run `blazectl stop %s` first.\n",
						out.OtherRunning, out.Activity, out.OtherRunning)
				}
				_, _ = fmt.Fprintf(w, "Started %s at %s (UTC)\n", out.Activity, stamp(out.StartedAt))
				return nil
			})
		},
	}
}

func newStopCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <train|battle>",
		Short: "Stop a session, log it and refresh the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*root, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Stop(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("stop: %w", err)
				}
				w := cmd.OutOrStdout()
				if !out.Stopped {
					_, _ = fmt.Fprintf(w, "No active `%s` session.\n", out.Activity)
					return nil
				}
				_, _ = fmt.Fprintf(w, "Stopped %s after %s (%s)\n",
					out.Activity, out.Duration.Truncate(time.Second), out.DurationISO)

				refresh := app.ReportCLI.Refresh(cmd.Context())
				for _, warning := range refresh.Warnings {
					logger.Warn("refresh after stop", "warning", warning)
				}
				return nil
			})
		},
	}
}

func newStatusCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*root, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Status(cmd.Context())
				if err != nil {
					return fmt.Errorf("status: %w", err)
				}
				w := cmd.OutOrStdout()
				if !out.Active {
					_, _ = fmt.Fprintln(w, "No active session.")
					return nil
				}
				_, _ = fmt.Fprintf(w, "Active: %s since %s (UTC) %s\n",
					theme.Activity(out.Activity).Render(out.Activity),
					stamp(out.StartedAt),
					theme.Muted.Render("started "+humanize.Time(out.StartedAt)))
				return nil
			})
		},
	}
}

func newRenderCmd(root *string) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "render-report",
		Aliases: []string{"render-readme"},
		Short:   "Regenerate the report and activity chart",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*root, func(app *bootstrap.App) error {
				w := cmd.OutOrStdout()
				out, err := app.ReportCLI.Render(cmd.Context())
				if err != nil {
					return fmt.Errorf("render report: %w", err)
				}
				printRender(cmd, out)
				if published, err := app.ReportCLI.Publish(cmd.Context()); err != nil {
					logger.Warn("auto-commit failed", "error", err)
				} else if published.Committed {
					_, _ = fmt.Fprintf(w, "committed: %s\n", published.Message)
				}
				if !watch {
					return nil
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				_, _ = fmt.Fprintf(w, "watching %s, ctrl+c to stop\n", app.Config.StoreDir)
				return app.ReportCLI.Watch(ctx, func(out reportdto.RenderOutput, err error) {
					if err != nil {
						logger.Error("re-render failed", "error", err)
						return
					}
					printRender(cmd, out)
				})
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "re-render whenever the session log changes")
	return cmd
}

func printRender(cmd *cobra.Command, out reportdto.RenderOutput) {
	w := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(w, "report: %s\n", out.ReportPath)
	if out.ChartPath != "" {
		_, _ = fmt.Fprintf(w, "chart:  %s\n", out.ChartPath)
	}
	if out.Skipped > 0 {
		_, _ = fmt.Fprintf(w, "skipped %d malformed lines\n", out.Skipped)
	}
}

func newReindexCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the session index from the log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*root, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Reindex(cmd.Context())
				if err != nil {
					return fmt.Errorf("reindex: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d sessions, skipped %d lines\n", out.Indexed, out.Skipped)
				return nil
			})
		},
	}
}

func newLogCmd(root *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List the most recent sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*root, func(app *bootstrap.App) error {
				records, err := app.SessionCLI.Recent(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("log: %w", err)
				}
				w := cmd.OutOrStdout()
				if len(records) == 0 {
					_, _ = fmt.Fprintln(w, "No sessions logged.")
					return nil
				}
				for _, r := range records {
					_, _ = fmt.Fprintf(w, "%s  %-6s  %8s  %s\n",
						r.Start.UTC().Format("2006-01-02 15:04"),
						r.Activity,
						r.Duration.Truncate(time.Second),
						humanize.Time(r.End))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of sessions to show")
	return cmd
}

func newDashCmd(root *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Run the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(*root, bootstrap.RunDashboard)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}
