// Package scheduler implements the 1 Hz tick-driven dispatcher of §4.7: it
// evaluates all tasks each second, honours per-task timezones, enforces
// at-most-one-concurrent-execution when requested, and hands due firings to
// a bounded worker pool that spawns isolated child processes.
package scheduler

import (
	"context"
	"time"

	"github.com/cout970/cronrs/internal/alert"
	"github.com/cout970/cronrs/internal/runner"
	"github.com/cout970/cronrs/internal/task"
	"github.com/cout970/cronrs/pkg/logx"
)

// ShutdownGrace is how long the loop waits for in-flight runs to finish
// after the shutdown signal, before giving up and returning anyway, per
// §4.7 step 6.
const ShutdownGrace = 10 * time.Second

// execer is satisfied by *runner.Runner; narrowed to an interface so tests
// can substitute a stub without spawning real child processes.
type execer interface {
	Run(ctx context.Context, t *task.Task) task.RunContext
}

// Scheduler is the single entry point after configuration is loaded.
type Scheduler struct {
	Tasks     []*task.Task
	DefaultTZ *time.Location
	Pipeline  *alert.Pipeline
	Log       logx.Logger
	Runner    execer

	pool *pool
}

// Run executes the scheduler loop until ctx is canceled (SIGTERM/SIGINT,
// wired by the caller), then drains in-flight runs and returns.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Runner == nil {
		s.Runner = &runner.Runner{Log: s.Log}
	}
	s.pool = newPool(len(s.Tasks))

	// Step 1: capture the start anchor and assign it to every interval task.
	start := time.Now()
	for _, t := range s.Tasks {
		t.AnchorInterval(start)
	}

	// Step 3: align to the next whole second.
	if !sleepUntil(ctx, nextWholeSecond(time.Now())) {
		return s.drain()
	}

	var lastTick time.Time
	for {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		if !lastTick.IsZero() && now.Before(lastTick) {
			// Backward clock jump: skip this tick entirely, per §9's
			// resolution of the open question.
			s.Log.Warn("system clock moved backward; skipping tick", logx.Time("now", now), logx.Time("last_tick", lastTick))
		} else {
			s.tick(ctx, now)
		}
		lastTick = now

		if !sleepUntil(ctx, nextWholeSecond(time.Now())) {
			break
		}
	}

	return s.drain()
}

// tick evaluates every task in declaration order, step 4 of §4.7.
func (s *Scheduler) tick(ctx context.Context, now time.Time) {
	for _, t := range s.Tasks {
		if !t.IsDue(now, s.DefaultTZ) {
			continue
		}

		if coalesced := t.MarkFired(now); coalesced > 0 {
			s.Log.Warn("interval catch-up coalesced into a single firing",
				logx.String("task", t.Name), logx.Int("skipped_periods", coalesced))
		}

		tok, ok := t.TryBegin(s.Log)
		if !ok {
			continue
		}

		tt := t
		ttok := tok
		s.pool.Submit(func() {
			rc := s.Runner.Run(ctx, tt)
			tt.OnRunComplete(ttok)
			s.Pipeline.Dispatch(rc)
		})
	}
}

// drain implements step 6's "wait up to 10s, SIGKILL survivors" at the loop
// level: in-flight Runner.Run calls already react to ctx cancellation with
// their own SIGTERM/grace/SIGKILL sequence (§4.5 step 5); this just bounds
// how long the loop itself waits for them to report back.
func (s *Scheduler) drain() error {
	s.Log.Info("scheduler stopping, waiting for in-flight runs")
	if !s.pool.Wait(ShutdownGrace) {
		s.Log.Warn("shutdown grace period elapsed with runs still in flight")
	}
	return nil
}

func nextWholeSecond(now time.Time) time.Time {
	return now.Truncate(time.Second).Add(time.Second)
}

// sleepUntil blocks until t or ctx is canceled, whichever comes first. It
// reports whether it woke up because of t (true) or ctx cancellation
// (false), and never busy-waits.
func sleepUntil(ctx context.Context, t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
