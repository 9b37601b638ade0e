package task

import (
	"time"

	"github.com/google/uuid"
)

// RunToken identifies one in-flight execution of a Task.
type RunToken uuid.UUID

func NewRunToken() RunToken { return RunToken(uuid.New()) }

func (t RunToken) String() string { return uuid.UUID(t).String() }

// RunContext is the per-execution record described in §3: created when the
// Runner spawns, finalized when the child terminates or is killed, consumed
// by the Alert Pipeline, then discarded.
type RunContext struct {
	TaskName string
	Cmd      string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	ExitCode     int
	ErrorMessage string
	TimedOut     bool

	StdoutTail string
	StderrTail string
	DebugInfo  string
}

// Success implements §4.5 step 7's classify-outcome rule.
func (r RunContext) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut && r.ErrorMessage == ""
}
