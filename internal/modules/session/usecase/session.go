package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"blazectl/internal/modules/session/domain"
	sessiondto "blazectl/internal/modules/session/dto"
	sessionin "blazectl/internal/modules/session/port/in"
	sessionout "blazectl/internal/modules/session/port/out"
	"blazectl/internal/modules/session/service"
	apperrors "blazectl/internal/platform/errors"
	"blazectl/internal/platform/isoduration"
	"blazectl/internal/platform/logger"
)

const defaultRecentLimit = 10

// Interactor drives the session lifecycle. index, notifier and locker are
// optional and may be nil.
type Interactor struct {
	svc         *service.SessionService
	activeStore sessionout.ActiveStateStore
	records     sessionout.RecordStore
	index       sessionout.RecordIndex
	notifier    sessionout.Notifier
	locker      sessionout.Locker
}

func NewInteractor(
	svc *service.SessionService,
	activeStore sessionout.ActiveStateStore,
	records sessionout.RecordStore,
	index sessionout.RecordIndex,
	notifier sessionout.Notifier,
	locker sessionout.Locker,
) sessionin.Usecase {
	return &Interactor{
		svc:         svc,
		activeStore: activeStore,
		records:     records,
		index:       index,
		notifier:    notifier,
		locker:      locker,
	}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	activity, err := domain.ParseActivity(input.Tag)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	release, err := i.lock()
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	defer release()

	state, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	next, result := i.svc.Start(state, activity)
	out := sessiondto.StartOutput{
		Activity:       activity.String(),
		StartedAt:      result.StartedAt,
		AlreadyRunning: result.AlreadyRunning,
	}
	if result.OtherRunning {
		out.OtherRunning = activity.Other().String()
	}
	if result.AlreadyRunning {
		return out, nil
	}
	if err := i.activeStore.SaveActive(ctx, next); err != nil {
		return sessiondto.StartOutput{}, err
	}
	if result.OtherRunning {
		i.notify("blazectl", fmt.Sprintf("%s is still running. Stop it before starting %s.", out.OtherRunning, activity))
	}
	logger.Debug("session started", "activity", activity, "start", result.StartedAt)
	return out, nil
}

// Stop saves the cleared state before appending the record. A failed append
// therefore drops that one record and leaves the tag idle.
func (i *Interactor) Stop(ctx context.Context, input sessiondto.StopInput) (sessiondto.StopOutput, error) {
	activity, err := domain.ParseActivity(input.Tag)
	if err != nil {
		return sessiondto.StopOutput{}, err
	}
	release, err := i.lock()
	if err != nil {
		return sessiondto.StopOutput{}, err
	}
	defer release()

	state, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.StopOutput{}, err
	}
	next, record, ok := i.svc.Stop(state, activity)
	if !ok {
		return sessiondto.StopOutput{Activity: activity.String()}, nil
	}
	if err := i.activeStore.SaveActive(ctx, next); err != nil {
		return sessiondto.StopOutput{}, err
	}
	if err := i.records.Append(ctx, record); err != nil {
		return sessiondto.StopOutput{}, err
	}
	if i.index != nil {
		if err := i.index.Upsert(ctx, record); err != nil {
			logger.Warn("index session failed; run `blazectl reindex` to rebuild", "error", err)
		}
	}
	duration := isoduration.Format(record.Duration)
	i.notify("blazectl", fmt.Sprintf("Stopped %s after %s.", activity, record.Duration))
	logger.Debug("session stopped", "activity", activity, "duration", duration)

	return sessiondto.StopOutput{
		Activity:    activity.String(),
		Stopped:     true,
		Start:       record.Start,
		End:         record.End,
		Duration:    record.Duration,
		DurationISO: duration,
	}, nil
}

func (i *Interactor) Status(ctx context.Context) (sessiondto.StatusOutput, error) {
	state, err := i.activeStore.LoadActive(ctx)
	if err != nil {
		return sessiondto.StatusOutput{}, err
	}
	activity, since, ok := state.Running()
	if !ok {
		return sessiondto.StatusOutput{}, nil
	}
	return sessiondto.StatusOutput{
		Active:    true,
		Activity:  activity.String(),
		StartedAt: since,
		Elapsed:   i.svc.Elapsed(since),
	}, nil
}

func (i *Interactor) ScanRecords(ctx context.Context) iter.Seq2[sessiondto.RecordOutput, error] {
	return func(yield func(sessiondto.RecordOutput, error) bool) {
		for record, err := range i.records.All(ctx) {
			if err != nil {
				if !yield(sessiondto.RecordOutput{}, err) {
					return
				}
				continue
			}
			if !yield(toOutput(record), nil) {
				return
			}
		}
	}
}

func (i *Interactor) Reindex(ctx context.Context) (sessiondto.ReindexOutput, error) {
	if i.index == nil {
		return sessiondto.ReindexOutput{}, fmt.Errorf("record index is not configured")
	}
	if err := i.index.Reset(ctx); err != nil {
		return sessiondto.ReindexOutput{}, err
	}
	out := sessiondto.ReindexOutput{}
	for record, err := range i.records.All(ctx) {
		if err != nil {
			if errors.Is(err, apperrors.ErrParse) {
				logger.Warn("skipping malformed record", "error", err)
				out.Skipped++
				continue
			}
			return out, err
		}
		if err := i.index.Upsert(ctx, record); err != nil {
			return out, err
		}
		out.Indexed++
	}
	return out, nil
}

func (i *Interactor) Recent(ctx context.Context, limit int) ([]sessiondto.RecordOutput, error) {
	if i.index == nil {
		return nil, fmt.Errorf("record index is not configured")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	records, err := i.index.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.RecordOutput, 0, len(records))
	for _, record := range records {
		out = append(out, toOutput(record))
	}
	return out, nil
}

func (i *Interactor) lock() (func(), error) {
	if i.locker == nil {
		return func() {}, nil
	}
	return i.locker.Acquire()
}

func (i *Interactor) notify(title, message string) {
	if i.notifier == nil {
		return
	}
	if err := i.notifier.Notify(title, message); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

func toOutput(record domain.Record) sessiondto.RecordOutput {
	return sessiondto.RecordOutput{
		Activity: record.Activity.String(),
		Start:    record.Start,
		End:      record.End,
		Duration: record.Duration,
	}
}
