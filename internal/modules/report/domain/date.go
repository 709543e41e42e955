package domain

import (
	"fmt"
	"time"
)

// Date is a UTC calendar day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DaysBack returns the n days ending at today, oldest first.
func DaysBack(today Date, n int) []Date {
	if n <= 0 {
		return nil
	}
	days := make([]Date, n)
	for i := range days {
		days[i] = today.AddDays(i - (n - 1))
	}
	return days
}
