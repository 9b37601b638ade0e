package alert

import (
	"errors"
	"os"
	"testing"

	"github.com/cout970/cronrs/internal/task"
	"github.com/cout970/cronrs/pkg/logx"
)

type recordingSink struct {
	calls *int
	err   error
}

func (s *recordingSink) Send(task.RunContext) error {
	*s.calls++
	return s.err
}

func TestPipelineRoutesByOutcome(t *testing.T) {
	var successCalls, failureCalls int
	p := &Pipeline{
		OnSuccess: []Sink{&recordingSink{calls: &successCalls}},
		OnFailure: []Sink{&recordingSink{calls: &failureCalls}},
		Log:       logx.Nop(),
	}

	p.Dispatch(task.RunContext{ExitCode: 0})
	if successCalls != 1 || failureCalls != 0 {
		t.Fatalf("success routing: got success=%d failure=%d", successCalls, failureCalls)
	}

	p.Dispatch(task.RunContext{ExitCode: 1})
	if successCalls != 1 || failureCalls != 1 {
		t.Fatalf("failure routing: got success=%d failure=%d", successCalls, failureCalls)
	}
}

func TestPipelineSwallowsSinkErrors(t *testing.T) {
	var calls int
	p := &Pipeline{
		OnFailure: []Sink{&recordingSink{calls: &calls, err: errors.New("boom")}},
		Log:       logx.Nop(),
	}
	// Must not panic or otherwise propagate.
	p.Dispatch(task.RunContext{ExitCode: 1})
	if calls != 1 {
		t.Fatalf("sink was not invoked")
	}
}

func TestCmdSinkAppendsOneLinePerFiring(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "x")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()

	sink := NewCmdSink(CmdSinkConfig{Cmd: "echo {{ task_name }} {{ exit_code }} >> " + path})
	rc := task.RunContext{TaskName: "backup", ExitCode: 1}

	if err := sink.Send(rc); err != nil {
		t.Fatal(err)
	}
	if err := sink.Send(rc); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := 0
	for _, c := range data {
		if c == '\n' {
			lines++
		}
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", lines, data)
	}
}
