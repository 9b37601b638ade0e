package alert

import (
	"testing"
	"time"

	"github.com/cout970/cronrs/internal/task"
)

func TestRenderKnownKeys(t *testing.T) {
	rc := task.RunContext{
		TaskName:     "backup",
		Cmd:          "tar czf x.tgz .",
		ExitCode:     1,
		ErrorMessage: "boom",
	}
	out := render("task {{ task_name }} failed with {{ exit_code }}: {{ error_message }}", rc)
	if out != "task backup failed with 1: boom" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderUnknownKeyIsEmpty(t *testing.T) {
	out := render("value=[{{ nonsense }}]", task.RunContext{})
	if out != "value=[]" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderEscapedBraces(t *testing.T) {
	out := render("literal {{{{ not a key }}", task.RunContext{})
	if out != "literal {{ not a key }}" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderAllGlossaryKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rc := task.RunContext{
		TaskName:     "t",
		Cmd:          "echo hi",
		ExitCode:     0,
		StartTime:    now,
		EndTime:      now.Add(time.Second),
		Duration:     time.Second,
		ErrorMessage: "",
		DebugInfo:    "pid: 1",
		StdoutTail:   "hi\n",
		StderrTail:   "",
	}
	tpl := "{{ task_name }}|{{ cmd }}|{{ exit_code }}|{{ start_time }}|{{ end_time }}|{{ duration }}|{{ error_message }}|{{ debug_info }}|{{ stdout }}|{{ stderr }}"
	out := render(tpl, rc)
	if out == tpl {
		t.Fatal("template was not substituted at all")
	}
	for _, want := range []string{"t", "echo hi", "0", "1s", "pid: 1", "hi"} {
		if !contains(out, want) {
			t.Errorf("rendered output missing %q: %q", want, out)
		}
	}
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return len(needle) == 0
}
