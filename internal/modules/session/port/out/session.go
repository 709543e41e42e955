package out

import (
	"context"
	"iter"

	"blazectl/internal/modules/session/domain"
)

type RecordStore interface {
	Append(ctx context.Context, record domain.Record) error
	All(ctx context.Context) iter.Seq2[domain.Record, error]
}

type ActiveStateStore interface {
	LoadActive(ctx context.Context) (domain.ActiveState, error)
	SaveActive(ctx context.Context, state domain.ActiveState) error
}

// RecordIndex is a derived, rebuildable query view over the record logs.
type RecordIndex interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, record domain.Record) error
	Recent(ctx context.Context, limit int) ([]domain.Record, error)
}

type Notifier interface {
	Notify(title, message string) error
}

type Locker interface {
	Acquire() (release func(), err error)
}
