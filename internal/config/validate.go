package config

import (
	"fmt"
	"time"
)

// Severity distinguishes a fatal problem from an advisory one, mirroring
// the original implementation's ValidationResult enum.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Issue is one validation finding against a File, independent of whether
// Resolve would also fail on it (Validate is meant to run standalone, e.g.
// for the `validate` subcommand, without constructing real Task/Sink
// objects).
type Issue struct {
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	prefix := "error"
	if i.Severity == SeverityWarning {
		prefix = "warning"
	}
	return fmt.Sprintf("%s: %s", prefix, i.Message)
}

// Validate checks f for the fatal/advisory problems spec.md §6/§8 (S6) call
// out. Unlike the original implementation, a duplicate task name is
// reported as an Error, not a Warning: spec.md §3 states task names are
// unique across the loaded set as a hard invariant, so a collision cannot
// be merely advisory (see DESIGN.md's Open Question resolution).
func Validate(f *File) []Issue {
	var issues []Issue
	seen := map[string]struct{}{}

	for i, t := range f.Tasks {
		pos := i + 1

		if t.Name == "" {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("task at position %d: name must not be empty", pos)})
		} else if _, dup := seen[t.Name]; dup {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("task %q: duplicate task name", t.Name)})
		}
		seen[t.Name] = struct{}{}

		if t.Cmd == "" {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("task %q: cmd must not be empty", t.Name)})
		}

		if t.When != nil && t.Every != "" {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("task %q: defines both 'when' and 'every'", t.Name)})
		} else if t.When == nil && t.Every == "" {
			issues = append(issues, Issue{SeverityError, fmt.Sprintf("task %q: no schedule specified (needs 'when' or 'every')", t.Name)})
		}

		tzBad := false
		if t.Timezone != "" {
			if _, err := time.LoadLocation(t.Timezone); err != nil {
				tzBad = true
				issues = append(issues, Issue{SeverityError, fmt.Sprintf("task %q: unable to parse timezone %q", t.Name, t.Timezone)})
			}
		}

		if _, err := resolveTask(t); err != nil {
			// Any lower-level resolution failure (bad pattern, bad duration)
			// not already reported above is surfaced here too, so `validate`
			// catches everything `run` would refuse to start on. Sinks are
			// checked separately below.
			alreadyReported := t.Name == "" || t.Cmd == "" || (t.When != nil) == (t.Every != "") || tzBad
			if !alreadyReported {
				issues = append(issues, Issue{SeverityError, fmt.Sprintf("task %q: %v", t.Name, err)})
			}
		}
	}

	for _, s := range append(append([]SinkFile{}, f.Alerts.OnFailure...), f.Alerts.OnSuccess...) {
		if _, err := resolveSink(s); err != nil {
			issues = append(issues, Issue{SeverityError, err.Error()})
		}
	}

	return issues
}

// HasErrors reports whether issues contains at least one fatal finding.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
