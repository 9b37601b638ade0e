package alert

import (
	"os/exec"

	"github.com/cout970/cronrs/internal/task"
)

// cmdSink executes `sh -c <rendered cmd>`, per §4.6's cmd sink contract:
// inherits nothing from the failed task, best-effort, logs on nonzero exit.
type cmdSink struct {
	cfg CmdSinkConfig
}

func NewCmdSink(cfg CmdSinkConfig) Sink { return &cmdSink{cfg: cfg} }

func (s *cmdSink) Send(rc task.RunContext) error {
	rendered := render(s.cfg.Cmd, rc)
	cmd := exec.Command("sh", "-c", rendered)
	return cmd.Run()
}
