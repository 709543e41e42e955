package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	TableDays     = 7
	SparklineDays = 30
)

type DayRow struct {
	Date   Date
	Totals Totals
}

// Summary is everything the renderers consume.
type Summary struct {
	GeneratedAt time.Time
	Today       Date
	AllTime     Totals
	Windows     []Window
	Streaks     Streaks
	Last7       []DayRow
	// Last30Minutes are total minutes per day, oldest first.
	Last30Minutes []int64
	// Daily holds hours per day over the trend window, oldest first.
	Daily   []float64
	Trend   []Point
	Skipped int
}

func Summarize(l *Ledger, now time.Time) Summary {
	today := DateOf(now)
	rows := make([]DayRow, 0, TableDays)
	for _, d := range DaysBack(today, TableDays) {
		rows = append(rows, DayRow{Date: d, Totals: l.Day(d)})
	}
	last30 := make([]int64, 0, SparklineDays)
	for _, d := range DaysBack(today, SparklineDays) {
		last30 = append(last30, l.Day(d).Total()/60)
	}
	daily := l.DailyHours(today)
	return Summary{
		GeneratedAt:   now.UTC(),
		Today:         today,
		AllTime:       l.AllTime,
		Windows:       l.Windows(today),
		Streaks:       l.Streaks(today),
		Last7:         rows,
		Last30Minutes: last30,
		Daily:         daily,
		Trend:         Trend(daily),
		Skipped:       l.Skipped,
	}
}

// Window returns the totals of the window spanning days, or zero totals.
func (s Summary) Window(days int) Totals {
	for _, w := range s.Windows {
		if w.Days == days {
			return w.Totals
		}
	}
	return Totals{}
}

// FormatHM renders seconds as "{h}h {mm}m".
func FormatHM(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%dh %02dm", secs/3600, (secs%3600)/60)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline maps each value onto eight block glyphs scaled between the
// series min and max. A flat series renders the lowest block.
func Sparkline(values []int64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			norm := float64(v-lo) / float64(hi-lo)
			idx = int(math.Round(norm * float64(len(sparkBlocks)-1)))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
