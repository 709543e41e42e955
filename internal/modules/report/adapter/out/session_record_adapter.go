package out

import (
	"context"
	"iter"

	"blazectl/internal/modules/report/domain"
	reportout "blazectl/internal/modules/report/port/out"
	sessionin "blazectl/internal/modules/session/port/in"
)

type SessionRecordAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionRecordAdapter(sessions sessionin.Usecase) reportout.EntrySource {
	return &SessionRecordAdapter{sessions: sessions}
}

func (a *SessionRecordAdapter) Entries(ctx context.Context) iter.Seq2[domain.Entry, error] {
	return func(yield func(domain.Entry, error) bool) {
		for record, err := range a.sessions.ScanRecords(ctx) {
			if err != nil {
				if !yield(domain.Entry{}, err) {
					return
				}
				continue
			}
			entry := domain.Entry{
				Activity: record.Activity,
				Start:    record.Start,
				Duration: record.Duration,
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}
