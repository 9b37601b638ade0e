package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/cout970/cronrs/internal/task"
	"github.com/cout970/cronrs/pkg/logx"
)

// gracePeriod is the wait between SIGTERM and SIGKILL on timeout expiry,
// per §4.5 step 5.
const gracePeriod = 2 * time.Second

// Runner executes one command invocation and produces a task.RunContext, per
// §4.5. It is a plain blocking worker: one call to Run does steps 1-6
// synchronously and returns only once the child (or the attempt to spawn
// it) is finished. Step 7 (classifying the outcome and dispatching it to the
// alert pipeline) is left to the caller.
type Runner struct {
	Log logx.Logger
}

// Run supervises one execution of t. ctx carries the scheduler's shutdown
// signal: cancellation is handled exactly like a time-limit expiry (SIGTERM,
// grace, SIGKILL), except the resulting error_message names the shutdown
// rather than "time limit exceeded".
func (r *Runner) Run(ctx context.Context, t *task.Task) task.RunContext {
	rc := task.RunContext{TaskName: t.Name, Cmd: t.Cmd}

	// Step 1: resolve stdio paths.
	stdout, err := openAppendCreate(t.StdoutPath)
	if err != nil {
		rc.ExitCode = -1
		rc.ErrorMessage = err.Error()
		r.Log.Warn("failed to open stdout file", logx.String("task", t.Name), logx.Err(err))
		return rc
	}
	defer stdout.Close()

	stderr, err := openAppendCreate(t.StderrPath)
	if err != nil {
		rc.ExitCode = -1
		rc.ErrorMessage = err.Error()
		r.Log.Warn("failed to open stderr file", logx.String("task", t.Name), logx.Err(err))
		return rc
	}
	defer stderr.Close()

	// Step 2: build the process spec.
	cmd := exec.Command(t.Shell, "-c", t.Cmd)
	cmd.Dir = t.WorkingDirectory
	cmd.Env = buildEnv(t.Env)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	sysattr := &syscall.SysProcAttr{Setpgid: true}

	// Step 3: user/group switch.
	if t.RunAs != "" {
		cred, err := resolveCredential(t.RunAs)
		if err != nil {
			rc.ErrorMessage = err.Error()
			rc.ExitCode = -1
			r.Log.Warn("failed to resolve run_as identity", logx.String("task", t.Name), logx.Err(err))
			return rc
		}
		sysattr.Credential = cred
	}
	cmd.SysProcAttr = sysattr

	// Step 4: spawn.
	rc.StartTime = time.Now()
	if err := cmd.Start(); err != nil {
		rc.ExitCode = -1
		rc.ErrorMessage = (&SpawnFailed{Cmd: t.Cmd, Err: err}).Error()
		r.Log.Warn("failed to spawn task", logx.String("task", t.Name), logx.Err(err))
		rc.EndTime = time.Now()
		rc.Duration = rc.EndTime.Sub(rc.StartTime)
		return rc
	}

	// Step 5: supervise.
	waitErr, timedOut, signal := r.supervise(ctx, cmd, t)

	// Step 6: finalize.
	rc.EndTime = time.Now()
	rc.Duration = rc.EndTime.Sub(rc.StartTime)
	rc.ExitCode = exitCodeOf(waitErr)
	rc.TimedOut = timedOut
	if timedOut {
		rc.ExitCode = 124
		rc.ErrorMessage = "time limit exceeded"
	} else if signal != "" {
		rc.ErrorMessage = "terminated by scheduler shutdown"
	} else if waitErr != nil && rc.ExitCode == -1 {
		rc.ErrorMessage = waitErr.Error()
	}

	rc.DebugInfo = buildDebugInfo(t, cmd, signal, rc)
	rc.StdoutTail = tailOf(t.StdoutPath)
	rc.StderrTail = tailOf(t.StderrPath)

	return rc
}

// supervise waits for the child, applying the deadline (if any) and the
// shutdown context, and returns the eventual exec.Wait error, whether a
// timeout fired, and the signal used to kill the child (if any).
func (r *Runner) supervise(ctx context.Context, cmd *exec.Cmd, t *task.Task) (waitErr error, timedOut bool, signal string) {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var deadlineCh <-chan time.Time
	if t.TimeLimit > 0 {
		timer := time.NewTimer(t.TimeLimit)
		defer timer.Stop()
		deadlineCh = timer.C
	}

	select {
	case err := <-done:
		return err, false, ""

	case <-deadlineCh:
		r.Log.Warn("task exceeded time limit, terminating", logx.String("task", t.Name), logx.Duration("limit", t.TimeLimit))
		return r.killAndWait(cmd, done), true, "SIGTERM/SIGKILL"

	case <-ctx.Done():
		r.Log.Warn("task terminated by shutdown", logx.String("task", t.Name))
		return r.killAndWait(cmd, done), false, "SIGTERM/SIGKILL"
	}
}

// killAndWait implements the graceful SIGTERM -> grace -> SIGKILL sequence
// against the whole process group, since cmd was started with Setpgid.
func (r *Runner) killAndWait(cmd *exec.Cmd, done <-chan error) error {
	pgid := -cmd.Process.Pid
	_ = syscall.Kill(pgid, syscall.SIGTERM)

	select {
	case err := <-done:
		return err
	case <-time.After(gracePeriod):
	}

	_ = syscall.Kill(pgid, syscall.SIGKILL)
	return <-done
}

// buildEnv overlays task.Env on top of the parent environment; task.Env
// wins on collision, per §4.5 step 2.
func buildEnv(overlay map[string]string) []string {
	base := os.Environ()
	if len(overlay) == 0 {
		return base
	}

	out := make([]string, 0, len(base)+len(overlay))
	seen := make(map[string]bool, len(overlay))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if v, ok := overlay[k]; ok {
			out = append(out, k+"="+v)
			seen[k] = true
		} else {
			out = append(out, kv)
		}
	}
	for k, v := range overlay {
		if !seen[k] {
			out = append(out, k+"="+v)
		}
	}
	return out
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func asExitError(err error, target **exec.ExitError) bool {
	for err != nil {
		if e, ok := err.(*exec.ExitError); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func buildDebugInfo(t *task.Task, cmd *exec.Cmd, signal string, rc task.RunContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pid: %d\n", pidOf(cmd))
	if signal != "" {
		fmt.Fprintf(&b, "signal: %s\n", signal)
	}
	fmt.Fprintf(&b, "user: %s\n", runAsOrCurrent(t.RunAs))
	fmt.Fprintf(&b, "cwd: %s\n", cwdOrDefault(t.WorkingDirectory))
	fmt.Fprintf(&b, "env overlay keys: %s\n", strings.Join(envKeys(t.Env), ","))
	fmt.Fprintf(&b, "duration: %s\n", formatDuration(rc.Duration))
	return b.String()
}

func pidOf(cmd *exec.Cmd) int {
	if cmd.Process == nil {
		return -1
	}
	return cmd.Process.Pid
}

func runAsOrCurrent(runAs string) string {
	if runAs != "" {
		return runAs
	}
	return fmt.Sprintf("uid:%d", currentUID())
}

func cwdOrDefault(dir string) string {
	if dir != "" {
		return dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func envKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	return keys
}
