package config

import (
	"fmt"
	"time"

	"github.com/cout970/cronrs/internal/alert"
	"github.com/cout970/cronrs/internal/schedule"
	"github.com/cout970/cronrs/internal/task"
)

// Resolve turns a parsed File into the scheduler's typed runtime objects:
// one *task.Task per entry and the alert pipeline's sink lists. It is the
// single place where YAML surface syntax becomes schedule.Schedule /
// schedule.IntervalSchedule / task.Config values. Validation errors here are
// fatal (spec.md §7: "pattern and timezone errors are fatal at config
// validation; after start, they cannot re-occur").
func Resolve(f *File) ([]*task.Task, *alert.Pipeline, ResolvedLogging, error) {
	tasks := make([]*task.Task, 0, len(f.Tasks))
	seen := make(map[string]struct{}, len(f.Tasks))

	for i, def := range f.Tasks {
		if def.Name == "" {
			return nil, nil, ResolvedLogging{}, fmt.Errorf("task at position %d: name must not be empty", i+1)
		}
		if _, dup := seen[def.Name]; dup {
			return nil, nil, ResolvedLogging{}, fmt.Errorf("task %q: duplicate task name", def.Name)
		}
		seen[def.Name] = struct{}{}

		t, err := resolveTask(def)
		if err != nil {
			return nil, nil, ResolvedLogging{}, fmt.Errorf("task %q: %w", def.Name, err)
		}
		tasks = append(tasks, t)
	}

	pipeline := &alert.Pipeline{}
	for _, s := range f.Alerts.OnSuccess {
		sink, err := resolveSink(s)
		if err != nil {
			return nil, nil, ResolvedLogging{}, fmt.Errorf("alerts.on_success: %w", err)
		}
		pipeline.OnSuccess = append(pipeline.OnSuccess, sink)
	}
	for _, s := range f.Alerts.OnFailure {
		sink, err := resolveSink(s)
		if err != nil {
			return nil, nil, ResolvedLogging{}, fmt.Errorf("alerts.on_failure: %w", err)
		}
		pipeline.OnFailure = append(pipeline.OnFailure, sink)
	}

	logging := ResolvedLogging{
		Output: f.Logging.Output,
		Level:  f.Logging.Level,
		Path:   f.Logging.Path,
	}
	if logging.Output == "" {
		logging.Output = "stdout"
	}
	if logging.Level == "" {
		logging.Level = "info"
	}

	return tasks, pipeline, logging, nil
}

func resolveTask(def TaskDefinition) (*task.Task, error) {
	if def.When != nil && def.Every != "" {
		return nil, fmt.Errorf("defines both 'when' and 'every'; only one is allowed")
	}

	cfg := task.Config{
		Name:             def.Name,
		Cmd:              def.Cmd,
		WorkingDirectory: def.WorkingDirectory,
		Env:              def.Env,
		RunAs:            def.RunAs,
		Shell:            def.Shell,
		StdoutPath:       def.Stdout,
		StderrPath:       def.Stderr,
		AvoidOverlapping: def.AvoidOverlapping,
	}

	if def.Timezone != "" {
		loc, err := time.LoadLocation(def.Timezone)
		if err != nil {
			return nil, &schedule.UnknownTimezone{Name: def.Timezone, Err: err}
		}
		cfg.Timezone = loc
	}

	if def.TimeLimit != "" {
		d, err := schedule.ParseIntervalDuration(def.TimeLimit)
		if err != nil {
			return nil, fmt.Errorf("time_limit: %w", err)
		}
		if d < time.Second {
			d = time.Second
		}
		cfg.TimeLimit = d
	}

	switch {
	case def.Every != "":
		period, err := schedule.ParseIntervalDuration(def.Every)
		if err != nil {
			return nil, fmt.Errorf("every: %w", err)
		}
		interval, err := schedule.NewIntervalSchedule(period, time.Now())
		if err != nil {
			return nil, fmt.Errorf("every: %w", err)
		}
		cfg.Interval = interval
	case def.When != nil:
		sched, err := resolveWhen(def.When)
		if err != nil {
			return nil, fmt.Errorf("when: %w", err)
		}
		cfg.Schedule = &sched
	default:
		return nil, fmt.Errorf("no schedule specified: requires exactly one of 'when' or 'every'")
	}

	return task.New(cfg)
}

func resolveWhen(w *WhenFile) (schedule.Schedule, error) {
	if w.Detailed != nil {
		return schedule.ParseDetailed(schedule.DetailedFields{
			DayOfWeek:      w.Detailed.DayOfWeekList,
			DayOfWeekToken: w.Detailed.DayOfWeek,
			Year:           w.Detailed.Year,
			Month:          w.Detailed.Month,
			Day:            w.Detailed.Day,
			Hour:           w.Detailed.Hour,
			Minute:         w.Detailed.Minute,
			Second:         w.Detailed.Second,
			Timezone:       w.Detailed.Timezone,
		})
	}
	return schedule.ParseCompact(w.Compact)
}

func resolveSink(s SinkFile) (alert.Sink, error) {
	switch s.Type {
	case "cmd":
		if s.Cmd == "" {
			return nil, fmt.Errorf("cmd sink: 'cmd' is required")
		}
		return alert.NewCmdSink(alert.CmdSinkConfig{Cmd: s.Cmd}), nil
	case "webhook":
		if s.URL == "" {
			return nil, fmt.Errorf("webhook sink: 'url' is required")
		}
		return alert.NewWebhookSink(alert.WebhookSinkConfig{
			URL: s.URL, Method: s.Method, Body: s.Body, Headers: s.Headers,
		}), nil
	case "email":
		if s.To == "" {
			return nil, fmt.Errorf("email sink: 'to' is required")
		}
		return alert.NewEmailSink(alert.EmailSinkConfig{
			SMTPServer: s.SMTPServer, SMTPPort: s.SMTPPort,
			SMTPUsername: s.SMTPUsername, SMTPPassword: s.SMTPPassword,
			To: s.To, Subject: s.Subject, Body: s.Body, From: s.From,
		}), nil
	default:
		return nil, fmt.Errorf("unknown sink type %q", s.Type)
	}
}
