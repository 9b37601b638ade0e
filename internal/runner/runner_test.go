package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cout970/cronrs/internal/schedule"
	"github.com/cout970/cronrs/internal/task"
	"github.com/cout970/cronrs/pkg/logx"
)

func newTask(t *testing.T, dir string, cmd string, mutate func(*task.Config)) *task.Task {
	t.Helper()
	cfg := task.Config{
		Name:       "t",
		Cmd:        cmd,
		StdoutPath: filepath.Join(dir, "out.log"),
		StderrPath: filepath.Join(dir, "err.log"),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	iv, err := schedule.NewIntervalSchedule(time.Hour, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Interval = iv
	tk, err := task.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return tk
}

func TestRunnerSuccess(t *testing.T) {
	dir := t.TempDir()
	tk := newTask(t, dir, "exit 0", nil)
	r := &Runner{Log: logx.Nop()}
	rc := r.Run(context.Background(), tk)
	if !rc.Success() {
		t.Fatalf("expected success, got %+v", rc)
	}
	if rc.ExitCode != 0 {
		t.Fatalf("exit code = %d", rc.ExitCode)
	}
}

func TestRunnerFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	tk := newTask(t, dir, "false", nil)
	r := &Runner{Log: logx.Nop()}
	rc := r.Run(context.Background(), tk)
	if rc.Success() {
		t.Fatal("expected failure")
	}
	if rc.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", rc.ExitCode)
	}
}

func TestRunnerTimeLimit(t *testing.T) {
	dir := t.TempDir()
	tk := newTask(t, dir, "sleep 10", func(c *task.Config) { c.TimeLimit = time.Second })
	r := &Runner{Log: logx.Nop()}

	start := time.Now()
	rc := r.Run(context.Background(), tk)
	elapsed := time.Since(start)

	if elapsed > 3*time.Second {
		t.Fatalf("runner took too long to terminate: %v", elapsed)
	}
	if rc.ExitCode != 124 {
		t.Fatalf("exit code = %d, want 124", rc.ExitCode)
	}
	if rc.ErrorMessage == "" || !rc.TimedOut {
		t.Fatalf("expected time-limit error_message and TimedOut=true, got %+v", rc)
	}
}

func TestRunnerStdioAppendAcrossFirings(t *testing.T) {
	dir := t.TempDir()
	tk := newTask(t, dir, "echo hi", nil)
	r := &Runner{Log: logx.Nop()}

	r.Run(context.Background(), tk)
	r.Run(context.Background(), tk)

	data, err := os.ReadFile(tk.StdoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := countLines(string(data)); got != 2 {
		t.Fatalf("expected 2 appended lines, got %d: %q", got, data)
	}
}

func TestRunnerEnvOverlayWins(t *testing.T) {
	dir := t.TempDir()
	os.Setenv("CRONRS_TEST_VAR", "parent")
	defer os.Unsetenv("CRONRS_TEST_VAR")

	tk := newTask(t, dir, "echo $CRONRS_TEST_VAR", func(c *task.Config) {
		c.Env = map[string]string{"CRONRS_TEST_VAR": "overlay"}
	})
	r := &Runner{Log: logx.Nop()}
	r.Run(context.Background(), tk)

	data, err := os.ReadFile(tk.StdoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := trimNewline(string(data)); got != "overlay" {
		t.Fatalf("env overlay did not win: got %q", got)
	}
}

func TestRunnerCancellationKillsChild(t *testing.T) {
	dir := t.TempDir()
	tk := newTask(t, dir, "sleep 10", nil)
	r := &Runner{Log: logx.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	rc := r.Run(ctx, tk)
	elapsed := time.Since(start)

	if elapsed > 3*time.Second {
		t.Fatalf("runner did not honor shutdown cancellation promptly: %v", elapsed)
	}
	if rc.Success() {
		t.Fatal("a killed run must not classify as success")
	}
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
