package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "blazectl/internal/platform/errors"
)

type Activity string

const (
	Train  Activity = "train"
	Battle Activity = "battle"
)

// Activities lists every tag in status precedence order.
var Activities = []Activity{Train, Battle}

func ParseActivity(raw string) (Activity, error) {
	switch Activity(strings.ToLower(strings.TrimSpace(raw))) {
	case Train:
		return Train, nil
	case Battle:
		return Battle, nil
	}
	return "", fmt.Errorf("%w: %q (expected train or battle)", apperrors.ErrInvalidTag, raw)
}

func (a Activity) Other() Activity {
	if a == Train {
		return Battle
	}
	return Train
}

func (a Activity) String() string { return string(a) }

// ActiveState holds the start time of each running activity. A zero time means
// the activity is idle. Transitions return a new value and never mutate the
// receiver.
type ActiveState struct {
	train  time.Time
	battle time.Time
}

func NewActiveState(train, battle time.Time) ActiveState {
	return ActiveState{train: normalize(train), battle: normalize(battle)}
}

func (s ActiveState) StartedAt(a Activity) (time.Time, bool) {
	t := s.train
	if a == Battle {
		t = s.battle
	}
	return t, !t.IsZero()
}

func (s ActiveState) Idle() bool {
	return s.train.IsZero() && s.battle.IsZero()
}

// Running reports the first running activity, train before battle.
func (s ActiveState) Running() (Activity, time.Time, bool) {
	for _, a := range Activities {
		if t, ok := s.StartedAt(a); ok {
			return a, t, true
		}
	}
	return "", time.Time{}, false
}

type StartResult struct {
	StartedAt      time.Time
	AlreadyRunning bool
	OtherRunning   bool
}

// Start marks a as running since now. Starting a running activity keeps the
// original start time.
func (s ActiveState) Start(a Activity, now time.Time) (ActiveState, StartResult) {
	_, otherRunning := s.StartedAt(a.Other())
	if since, ok := s.StartedAt(a); ok {
		return s, StartResult{StartedAt: since, AlreadyRunning: true, OtherRunning: otherRunning}
	}
	now = normalize(now)
	return s.with(a, now), StartResult{StartedAt: now, OtherRunning: otherRunning}
}

// Stop clears a and returns the finished record. ok is false when a was idle.
func (s ActiveState) Stop(a Activity, now time.Time) (ActiveState, Record, bool) {
	since, ok := s.StartedAt(a)
	if !ok {
		return s, Record{}, false
	}
	return s.with(a, time.Time{}), NewRecord(a, since, now), true
}

func (s ActiveState) with(a Activity, t time.Time) ActiveState {
	next := s
	if a == Battle {
		next.battle = t
	} else {
		next.train = t
	}
	return next
}

// Record is one finished session. Start and End are UTC with second precision.
type Record struct {
	Activity Activity
	Start    time.Time
	End      time.Time
	Duration time.Duration
}

// NewRecord derives the duration from start and end, clamped at zero.
func NewRecord(a Activity, start, end time.Time) Record {
	start = normalize(start)
	end = normalize(end)
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return Record{Activity: a, Start: start, End: end, Duration: d}
}

// Month is the UTC year-month partition key of the record.
func (r Record) Month() (int, time.Month) {
	return r.Start.UTC().Year(), r.Start.UTC().Month()
}

func normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Second)
}
