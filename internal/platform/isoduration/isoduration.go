// Package isoduration encodes durations as the restricted ISO-8601 form
// PT{h}H{m}M{s}S used by the session logs.
package isoduration

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Format renders d with whole seconds. Negative durations are clamped to zero
// and hours are not folded into days.
func Format(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("PT%dH%dM%dS", secs/3600, (secs%3600)/60, secs%60)
}

// Parse accepts PT followed by any of the H, M and S components in that order,
// each at most once. "PT0S" and "PT1H30M0S" are valid; "P1DT2H" is not.
func Parse(s string) (time.Duration, error) {
	if len(s) < 3 || s[:2] != "PT" {
		return 0, fmt.Errorf("duration %q: missing PT prefix", s)
	}
	rest := s[2:]
	units := []struct {
		unit byte
		mult time.Duration
	}{{'H', time.Hour}, {'M', time.Minute}, {'S', time.Second}}

	var total time.Duration
	next := 0
	for len(rest) > 0 {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i == len(rest) {
			return 0, fmt.Errorf("duration %q: malformed component", s)
		}
		n, err := strconv.ParseInt(rest[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("duration %q: %w", s, err)
		}
		matched := false
		for next < len(units) {
			u := units[next]
			next++
			if u.unit == rest[i] {
				if n > math.MaxInt64/int64(u.mult) || time.Duration(n)*u.mult > math.MaxInt64-total {
					return 0, fmt.Errorf("duration %q: out of range", s)
				}
				total += time.Duration(n) * u.mult
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("duration %q: unexpected unit %q", s, rest[i])
		}
		rest = rest[i+1:]
	}
	return total, nil
}
