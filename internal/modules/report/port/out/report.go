package out

import (
	"context"
	"iter"
	"time"

	"blazectl/internal/modules/report/domain"
)

type EntrySource interface {
	Entries(ctx context.Context) iter.Seq2[domain.Entry, error]
}

type ReportWriter interface {
	WriteReport(ctx context.Context, summary domain.Summary) (string, error)
}

type ChartWriter interface {
	WriteChart(ctx context.Context, summary domain.Summary) (string, error)
}

// Publisher commits generated files when a commit is due. It reports whether
// a commit was made and the message used.
type Publisher interface {
	Publish(ctx context.Context, now time.Time) (committed bool, message string, err error)
}

type ChangeWatcher interface {
	Watch(ctx context.Context, onChange func()) error
}
