package task

import (
	"testing"
	"time"

	"github.com/cout970/cronrs/internal/schedule"
	"github.com/cout970/cronrs/pkg/logx"
)

func mustSchedule(t *testing.T, compact string) *schedule.Schedule {
	t.Helper()
	s, err := schedule.ParseCompact(compact)
	if err != nil {
		t.Fatal(err)
	}
	return &s
}

func TestNewRejectsBothOrNeitherScheduleKind(t *testing.T) {
	s := mustSchedule(t, "* *-*-* *:*:*")
	iv, _ := schedule.NewIntervalSchedule(time.Second, time.Now())

	if _, err := New(Config{Name: "x", Schedule: s, Interval: iv}); err == nil {
		t.Fatal("expected error when both schedule and interval are set")
	}
	if _, err := New(Config{Name: "x"}); err == nil {
		t.Fatal("expected error when neither schedule nor interval is set")
	}
}

func TestNewDefaults(t *testing.T) {
	s := mustSchedule(t, "* *-*-* *:*:*")
	tk, err := New(Config{Name: "backup", Cmd: "true", Schedule: s})
	if err != nil {
		t.Fatal(err)
	}
	if tk.Shell != "/bin/sh" {
		t.Errorf("shell default = %q", tk.Shell)
	}
	if tk.StdoutPath != ".tmp/backup_stdout.log" {
		t.Errorf("stdout default = %q", tk.StdoutPath)
	}
	if tk.StderrPath != ".tmp/backup_stderr.log" {
		t.Errorf("stderr default = %q", tk.StderrPath)
	}
}

func TestOverlapPrevention(t *testing.T) {
	s := mustSchedule(t, "* *-*-* *:*:*")
	tk, err := New(Config{Name: "x", Schedule: s, AvoidOverlapping: true})
	if err != nil {
		t.Fatal(err)
	}
	log := logx.Nop()

	tok1, ok := tk.TryBegin(log)
	if !ok {
		t.Fatal("expected first TryBegin to succeed")
	}
	if _, ok := tk.TryBegin(log); ok {
		t.Fatal("expected second concurrent TryBegin to fail under avoid_overlapping")
	}
	if got := tk.InFlightCount(); got != 1 {
		t.Fatalf("in-flight count = %d, want 1", got)
	}

	tk.OnRunComplete(tok1)
	if got := tk.InFlightCount(); got != 0 {
		t.Fatalf("in-flight count after complete = %d, want 0", got)
	}
	if _, ok := tk.TryBegin(log); !ok {
		t.Fatal("expected TryBegin to succeed again after completion")
	}
}

func TestAllowOverlappingGrowsInFlightSet(t *testing.T) {
	s := mustSchedule(t, "* *-*-* *:*:*")
	tk, err := New(Config{Name: "x", Schedule: s, AvoidOverlapping: false})
	if err != nil {
		t.Fatal(err)
	}
	log := logx.Nop()
	for i := 0; i < 3; i++ {
		if _, ok := tk.TryBegin(log); !ok {
			t.Fatalf("TryBegin %d should succeed when overlapping is allowed", i)
		}
	}
	if got := tk.InFlightCount(); got != 3 {
		t.Fatalf("in-flight count = %d, want 3", got)
	}
}
