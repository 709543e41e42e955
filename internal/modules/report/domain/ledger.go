package domain

import (
	"errors"
	"iter"
	"time"

	apperrors "blazectl/internal/platform/errors"
)

const (
	ActivityTrain  = "train"
	ActivityBattle = "battle"
)

// Entry is the slice of a session record the aggregation needs.
type Entry struct {
	Activity string
	Start    time.Time
	Duration time.Duration
}

// Totals are seconds per activity.
type Totals struct {
	Train  int64
	Battle int64
}

func (t Totals) Total() int64 { return t.Train + t.Battle }

func (t Totals) Plus(o Totals) Totals {
	return Totals{Train: t.Train + o.Train, Battle: t.Battle + o.Battle}
}

func (t *Totals) add(activity string, secs int64) {
	switch activity {
	case ActivityTrain:
		t.Train += secs
	case ActivityBattle:
		t.Battle += secs
	}
}

// Ledger holds per-day totals keyed by the UTC date of each session start.
type Ledger struct {
	PerDay  map[Date]Totals
	AllTime Totals
	Skipped int
}

func NewLedger() *Ledger {
	return &Ledger{PerDay: map[Date]Totals{}}
}

func (l *Ledger) Add(e Entry) {
	secs := int64(e.Duration / time.Second)
	if secs < 0 {
		secs = 0
	}
	day := DateOf(e.Start)
	t := l.PerDay[day]
	t.add(e.Activity, secs)
	l.PerDay[day] = t
	l.AllTime.add(e.Activity, secs)
}

func (l *Ledger) Day(d Date) Totals {
	return l.PerDay[d]
}

func (l *Ledger) Sum(days []Date) Totals {
	sum := Totals{}
	for _, d := range days {
		sum = sum.Plus(l.PerDay[d])
	}
	return sum
}

// Fold accumulates entries in any order. Errors wrapping ErrParse are counted
// in Skipped; any other error aborts the fold.
func Fold(entries iter.Seq2[Entry, error]) (*Ledger, error) {
	l := NewLedger()
	for e, err := range entries {
		if err != nil {
			if errors.Is(err, apperrors.ErrParse) {
				l.Skipped++
				continue
			}
			return nil, err
		}
		l.Add(e)
	}
	return l, nil
}
