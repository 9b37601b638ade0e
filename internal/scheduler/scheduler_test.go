package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cout970/cronrs/internal/alert"
	"github.com/cout970/cronrs/internal/schedule"
	"github.com/cout970/cronrs/internal/task"
	"github.com/cout970/cronrs/pkg/logx"
)

type stubRunner struct {
	mu    sync.Mutex
	calls []string
	delay time.Duration
}

func (s *stubRunner) Run(ctx context.Context, t *task.Task) task.RunContext {
	s.mu.Lock()
	s.calls = append(s.calls, t.Name)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	return task.RunContext{TaskName: t.Name, ExitCode: 0}
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func everySecondTask(t *testing.T, name string, avoidOverlapping bool) *task.Task {
	t.Helper()
	sched, err := schedule.ParseCompact("* *-*-* *:*:*")
	if err != nil {
		t.Fatal(err)
	}
	tk, err := task.New(task.Config{Name: name, Cmd: "true", Schedule: &sched, AvoidOverlapping: avoidOverlapping})
	if err != nil {
		t.Fatal(err)
	}
	return tk
}

func TestTickDispatchesDueTasksInOrder(t *testing.T) {
	a := everySecondTask(t, "a", false)
	b := everySecondTask(t, "b", false)
	stub := &stubRunner{}

	s := &Scheduler{
		Tasks:    []*task.Task{a, b},
		Pipeline: &alert.Pipeline{Log: logx.Nop()},
		Log:      logx.Nop(),
		Runner:   stub,
		pool:     newPool(4),
	}

	s.tick(context.Background(), time.Now())
	s.pool.Wait(time.Second)

	if got := stub.callCount(); got != 2 {
		t.Fatalf("expected 2 dispatches, got %d", got)
	}
}

func TestTickHonoursOverlapPrevention(t *testing.T) {
	tk := everySecondTask(t, "x", true)
	stub := &stubRunner{delay: 200 * time.Millisecond}

	s := &Scheduler{
		Tasks:    []*task.Task{tk},
		Pipeline: &alert.Pipeline{Log: logx.Nop()},
		Log:      logx.Nop(),
		Runner:   stub,
		pool:     newPool(4),
	}

	now := time.Now()
	s.tick(context.Background(), now)
	// A second tick while the first run is still in flight must be skipped.
	s.tick(context.Background(), now.Add(time.Second))
	s.pool.Wait(time.Second)

	if got := stub.callCount(); got != 1 {
		t.Fatalf("expected exactly 1 dispatch under avoid_overlapping, got %d", got)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := newPool(2)
	var active, maxActive int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 6; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(50 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		})
	}
	wg.Wait()

	// newPool raises any size below 4 to 4, the pool's minimum.
	if maxActive > 4 {
		t.Fatalf("pool exceeded its bound: max concurrent = %d", maxActive)
	}
}

func TestSchedulerDrainWaitsForInFlightRuns(t *testing.T) {
	tk := everySecondTask(t, "x", false)
	stub := &stubRunner{delay: 100 * time.Millisecond}

	s := &Scheduler{
		Tasks:    []*task.Task{tk},
		Pipeline: &alert.Pipeline{Log: logx.Nop()},
		Log:      logx.Nop(),
		Runner:   stub,
		pool:     newPool(4),
	}

	s.tick(context.Background(), time.Now())
	if err := s.drain(); err != nil {
		t.Fatal(err)
	}
	if got := stub.callCount(); got != 1 {
		t.Fatalf("expected the in-flight run to have been dispatched, got %d", got)
	}
}
