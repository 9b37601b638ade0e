package runner

import (
	"fmt"
	"time"
)

// formatDuration renders a duration as a human-readable, at-most-two-unit
// string (e.g. "1 h, 30 m", "1 s, 133 ms"), for debug_info and log lines.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0 ms"
	}

	type unit struct {
		name string
		size time.Duration
	}
	units := []unit{
		{"d", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
		{"ms", time.Millisecond},
	}

	parts := make([]string, 0, 2)
	remaining := d
	for _, u := range units {
		if remaining < u.size {
			continue
		}
		n := remaining / u.size
		parts = append(parts, fmt.Sprintf("%d %s", n, u.name))
		remaining -= n * u.size
		if len(parts) == 2 {
			break
		}
	}
	if len(parts) == 0 {
		return "0 ms"
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
