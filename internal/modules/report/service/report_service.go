package service

import (
	"context"
	"time"

	"blazectl/internal/modules/report/domain"
	reportout "blazectl/internal/modules/report/port/out"
	"blazectl/internal/platform/clock"
)

type ReportService struct {
	clock  clock.Clock
	source reportout.EntrySource
}

func NewReportService(clock clock.Clock, source reportout.EntrySource) *ReportService {
	return &ReportService{clock: clock, source: source}
}

// Build folds every logged session into a summary anchored at the current
// UTC day.
func (s *ReportService) Build(ctx context.Context) (domain.Summary, error) {
	ledger, err := domain.Fold(s.source.Entries(ctx))
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(ledger, s.Now()), nil
}

func (s *ReportService) Now() time.Time {
	return s.clock.Now().UTC()
}
