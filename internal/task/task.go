package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/cout970/cronrs/internal/schedule"
	"github.com/cout970/cronrs/pkg/logx"
)

// Config holds everything needed to construct an immutable Task. Exactly
// one of Schedule/Interval must be set, per §3's invariant.
type Config struct {
	Name     string
	Cmd      string
	Schedule *schedule.Schedule
	Interval *schedule.IntervalSchedule

	Timezone         *time.Location
	WorkingDirectory string
	Env              map[string]string
	RunAs            string
	Shell            string
	StdoutPath       string
	StderrPath       string
	TimeLimit        time.Duration
	AvoidOverlapping bool
}

// Task is the immutable-config-plus-runtime-state object of §3/§4.4.
type Task struct {
	Name     string
	Cmd      string
	schedule *schedule.Schedule
	interval *schedule.IntervalSchedule

	Timezone         *time.Location
	WorkingDirectory string
	Env              map[string]string
	RunAs            string
	Shell            string
	StdoutPath       string
	StderrPath       string
	TimeLimit        time.Duration
	AvoidOverlapping bool

	mu       sync.Mutex
	inFlight map[RunToken]struct{}
}

const defaultShell = "/bin/sh"

// New validates cfg and applies §3's defaults (shell, stdio paths).
func New(cfg Config) (*Task, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("task: name must not be empty")
	}
	if (cfg.Schedule == nil) == (cfg.Interval == nil) {
		return nil, fmt.Errorf("task %q: exactly one of schedule or interval is required", cfg.Name)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = defaultShell
	}
	stdout := cfg.StdoutPath
	if stdout == "" {
		stdout = fmt.Sprintf(".tmp/%s_stdout.log", cfg.Name)
	}
	stderr := cfg.StderrPath
	if stderr == "" {
		stderr = fmt.Sprintf(".tmp/%s_stderr.log", cfg.Name)
	}

	return &Task{
		Name:             cfg.Name,
		Cmd:              cfg.Cmd,
		schedule:         cfg.Schedule,
		interval:         cfg.Interval,
		Timezone:         cfg.Timezone,
		WorkingDirectory: cfg.WorkingDirectory,
		Env:              cfg.Env,
		RunAs:            cfg.RunAs,
		Shell:            shell,
		StdoutPath:       stdout,
		StderrPath:       stderr,
		TimeLimit:        cfg.TimeLimit,
		AvoidOverlapping: cfg.AvoidOverlapping,
		inFlight:         map[RunToken]struct{}{},
	}, nil
}

// IsDue evaluates whether the task should fire at now, per §4.2/§4.3.
func (t *Task) IsDue(now time.Time, defaultTZ *time.Location) bool {
	if t.schedule != nil {
		return t.schedule.Matches(now, t.Timezone, defaultTZ)
	}
	return t.interval.IsDue(now)
}

// AnchorInterval resets the interval anchor to now (§4.7 step 1). It is a
// no-op for calendar-based tasks.
func (t *Task) AnchorInterval(now time.Time) {
	if t.interval != nil {
		t.interval.Anchor(now)
	}
}

// MarkFired advances the interval anchor after a firing decision has been
// made for this tick. It is a no-op for calendar-based tasks; returns the
// number of coalesced catch-up periods (0 for calendar tasks).
func (t *Task) MarkFired(now time.Time) int {
	if t.interval == nil {
		return 0
	}
	return t.interval.MarkFired(now)
}

// TryBegin enforces the overlapping policy of §4.4: if AvoidOverlapping is
// true and the in-flight set is non-empty, it logs a warning and returns
// false; otherwise it inserts a fresh RunToken and returns true.
func (t *Task) TryBegin(log logx.Logger) (RunToken, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.AvoidOverlapping && len(t.inFlight) > 0 {
		log.Warn("skipping overlapping run", logx.String("task", t.Name))
		return RunToken{}, false
	}
	tok := NewRunToken()
	t.inFlight[tok] = struct{}{}
	return tok, true
}

// OnRunComplete removes tok from the in-flight set.
func (t *Task) OnRunComplete(tok RunToken) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.inFlight, tok)
}

// InFlightCount reports the current number of live runs, for observability
// and for Testable Property 4 (overlap prevention).
func (t *Task) InFlightCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inFlight)
}
