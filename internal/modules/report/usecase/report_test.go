package usecase_test

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blazectl/internal/modules/report/domain"
	"blazectl/internal/modules/report/service"
	"blazectl/internal/modules/report/usecase"
	apperrors "blazectl/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeSource struct {
	entries []domain.Entry
	errs    []error
}

func (f fakeSource) Entries(context.Context) iter.Seq2[domain.Entry, error] {
	return func(yield func(domain.Entry, error) bool) {
		for _, e := range f.entries {
			if !yield(e, nil) {
				return
			}
		}
		for _, err := range f.errs {
			if !yield(domain.Entry{}, err) {
				return
			}
		}
	}
}

type fakeReport struct {
	got domain.Summary
	err error
}

func (f *fakeReport) WriteReport(_ context.Context, s domain.Summary) (string, error) {
	f.got = s
	if f.err != nil {
		return "", f.err
	}
	return "README.md", nil
}

type fakeChart struct{ err error }

func (f fakeChart) WriteChart(context.Context, domain.Summary) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "assets/activity.svg", nil
}

type fakePublisher struct {
	calledAt time.Time
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, now time.Time) (bool, string, error) {
	f.calledAt = now
	if f.err != nil {
		return false, "", f.err
	}
	return true, "blazectl: update", nil
}

var now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func scenarioSource() fakeSource {
	return fakeSource{
		entries: []domain.Entry{{Activity: domain.ActivityTrain, Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Duration: 90 * time.Minute}},
		errs:    []error{errors.Join(apperrors.ErrParse, errors.New("line 3"))},
	}
}

func TestRenderWritesChartAndReport(t *testing.T) {
	t.Parallel()
	report := &fakeReport{}
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), report, fakeChart{}, nil, nil)

	out, err := uc.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "README.md", out.ReportPath)
	assert.Equal(t, "assets/activity.svg", out.ChartPath)
	assert.Equal(t, 1, out.Skipped)
	assert.Equal(t, int64(5400), report.got.AllTime.Train)
}

func TestRenderChartFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{}, fakeChart{err: errors.New("disk full")}, nil, nil)

	out, err := uc.Render(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.ChartPath)
	assert.Equal(t, "README.md", out.ReportPath)
}

func TestRenderReportFailureIsFatal(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{err: apperrors.ErrIO}, fakeChart{}, nil, nil)
	_, err := uc.Render(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrIO)
}

func TestRenderAbortsOnReadFailure(t *testing.T) {
	t.Parallel()
	source := fakeSource{errs: []error{apperrors.ErrIO}}
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, source), &fakeReport{}, nil, nil, nil)
	_, err := uc.Render(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrIO)
}

func TestRefreshCollectsWarnings(t *testing.T) {
	t.Parallel()
	publisher := &fakePublisher{}
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{}, fakeChart{}, publisher, nil)

	out := uc.Refresh(context.Background())
	assert.True(t, out.Rendered)
	assert.True(t, out.Committed)
	assert.Empty(t, out.Warnings)
	assert.Equal(t, now, publisher.calledAt)

	failing := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{}, nil, &fakePublisher{err: errors.New("git missing")}, nil)
	out = failing.Refresh(context.Background())
	assert.True(t, out.Rendered)
	assert.False(t, out.Committed)
	require.Len(t, out.Warnings, 1)

	broken := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{err: apperrors.ErrIO}, nil, publisher, nil)
	out = broken.Refresh(context.Background())
	assert.False(t, out.Rendered)
	require.Len(t, out.Warnings, 1)
}

func TestPublishWithoutPublisherIsNoop(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{}, nil, nil, nil)
	out, err := uc.Publish(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Committed)
	assert.Error(t, uc.Watch(context.Background(), nil))
}

func TestSummaryMapsDomain(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewReportService(fixedClock{now}, scenarioSource()), &fakeReport{}, nil, nil, nil)
	out, err := uc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", out.Today)
	assert.Equal(t, int64(5400), out.AllTime.Total)
	assert.Equal(t, 1, out.StreakTrain)
	require.Len(t, out.Last7, 7)
	assert.Equal(t, "2024-01-01", out.Last7[6].Date)
	require.Len(t, out.Windows, 3)
	assert.Equal(t, 75, out.Windows[2].Days)
	assert.Len(t, out.Daily, domain.TrendWindowDays)
	assert.NotEmpty(t, out.Trend)
}
