package alert

import (
	"github.com/cout970/cronrs/internal/task"
	"github.com/cout970/cronrs/pkg/logx"
)

// Pipeline accepts a RunContext and dispatches it through the configured
// sinks for the outcome's channel (on_success/on_failure), in declaration
// order, per §4.6. Sink failures are logged but never propagate.
type Pipeline struct {
	OnSuccess []Sink
	OnFailure []Sink
	Log       logx.Logger
}

// Dispatch routes rc to the on_success or on_failure chain based on
// rc.Success(), per §4.5 step 7.
func (p *Pipeline) Dispatch(rc task.RunContext) {
	sinks := p.OnFailure
	channel := "on_failure"
	if rc.Success() {
		sinks = p.OnSuccess
		channel = "on_success"
	}

	for _, s := range sinks {
		if s == nil {
			continue
		}
		if err := s.Send(rc); err != nil {
			p.Log.Warn("alert sink failed",
				logx.String("task", rc.TaskName),
				logx.String("channel", channel),
				logx.Err(err))
		}
	}
}
