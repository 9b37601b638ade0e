package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// IntervalSchedule is the fixed-period variant of §4.3: a positive duration
// plus an anchor instant captured at scheduler start, advanced by whole
// periods (never by now()) to avoid drift.
type IntervalSchedule struct {
	Period time.Duration

	mu       sync.Mutex
	lastFire time.Time
}

// ParseIntervalDuration parses a human-readable duration like "5 minutes",
// "1 hour", "2 days", "5s", "10 minute". Units recognized (case-insensitive,
// with or without trailing "s"): second, minute, hour, day.
func ParseIntervalDuration(raw string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, newInvalidPattern("interval", raw, fmt.Errorf("empty duration"))
	}

	// Split into a leading numeric amount and a trailing unit word, allowing
	// either "5m"-style compact suffixes or "5 minutes"-style spelled units.
	i := 0
	for i < len(s) && (s[i] == '.' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	if i == 0 {
		return 0, newInvalidPattern("interval", raw, fmt.Errorf("missing numeric amount"))
	}
	amountStr := s[:i]
	unit := strings.TrimSpace(s[i:])

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, newInvalidPattern("interval", raw, fmt.Errorf("bad amount: %w", err))
	}

	unit = strings.TrimSuffix(unit, "s")
	var base time.Duration
	switch unit {
	case "", "second", "sec":
		base = time.Second
	case "minute", "min", "m":
		base = time.Minute
	case "hour", "hr", "h":
		base = time.Hour
	case "day", "d":
		base = 24 * time.Hour
	default:
		return 0, newInvalidPattern("interval", raw, fmt.Errorf("unrecognized unit %q", unit))
	}

	d := time.Duration(amount * float64(base))
	if d <= 0 {
		return 0, newInvalidPattern("interval", raw, fmt.Errorf("duration must be positive"))
	}
	return d, nil
}

// NewIntervalSchedule constructs an IntervalSchedule from a period, anchored
// so the first tick fires promptly: last_fire is initialised to
// start - period.
func NewIntervalSchedule(period time.Duration, start time.Time) (*IntervalSchedule, error) {
	if period <= 0 {
		return nil, newInvalidPattern("interval", period.String(), fmt.Errorf("period must be positive"))
	}
	return &IntervalSchedule{Period: period, lastFire: start.Add(-period)}, nil
}

// Anchor resets last_fire so the next tick at or after now fires promptly,
// per §4.7 step 1 ("capture start_anchor := now() and assign it to every
// IntervalSchedule").
func (is *IntervalSchedule) Anchor(now time.Time) {
	is.mu.Lock()
	defer is.mu.Unlock()
	is.lastFire = now.Add(-is.Period)
}

// IsDue reports whether (now - last_fire) >= period.
func (is *IntervalSchedule) IsDue(now time.Time) bool {
	is.mu.Lock()
	defer is.mu.Unlock()
	return now.Sub(is.lastFire) >= is.Period
}

// MarkFired advances last_fire by whole periods. If the loop is late by more
// than one period, the catch-up firings are coalesced into a single
// advance and coalesced reports how many periods were skipped (for the
// caller to log a warning).
func (is *IntervalSchedule) MarkFired(now time.Time) (coalesced int) {
	is.mu.Lock()
	defer is.mu.Unlock()

	is.lastFire = is.lastFire.Add(is.Period)
	for now.Sub(is.lastFire) >= is.Period {
		is.lastFire = is.lastFire.Add(is.Period)
		coalesced++
	}
	return coalesced
}
