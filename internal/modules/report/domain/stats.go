package domain

// WindowSizes are the rolling windows, in days, ending today inclusive.
var WindowSizes = []int{7, 30, 75}

// MaxStreak bounds the backward walk on long histories.
const MaxStreak = 365

type Window struct {
	Days   int
	Totals Totals
}

type Streaks struct {
	Any    int
	Train  int
	Battle int
}

func (l *Ledger) Windows(today Date) []Window {
	out := make([]Window, 0, len(WindowSizes))
	for _, n := range WindowSizes {
		out = append(out, Window{Days: n, Totals: l.Sum(DaysBack(today, n))})
	}
	return out
}

// Streak counts consecutive days ending at today that satisfy pred.
func (l *Ledger) Streak(today Date, pred func(Totals) bool) int {
	count := 0
	for d := today; count < MaxStreak; d = d.AddDays(-1) {
		if !pred(l.PerDay[d]) {
			break
		}
		count++
	}
	return count
}

func (l *Ledger) Streaks(today Date) Streaks {
	return Streaks{
		Any:    l.Streak(today, func(t Totals) bool { return t.Total() > 0 }),
		Train:  l.Streak(today, func(t Totals) bool { return t.Train > 0 }),
		Battle: l.Streak(today, func(t Totals) bool { return t.Battle > 0 }),
	}
}
