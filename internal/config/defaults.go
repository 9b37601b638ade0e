package config

// DefaultFile builds the documented example configuration emitted by the
// `generate-config` subcommand (original_source's cmd_generate_default_config):
// one task per schedule flavor plus an alerts block with one on_failure cmd
// sink, so the generated YAML doubles as a worked example of every surface
// form. The emitted YAML carries no comments.
func DefaultFile() *File {
	return &File{
		Tasks: []TaskDefinition{
			{
				Name: "nightly-backup",
				Cmd:  "/usr/local/bin/backup.sh",
				When: &WhenFile{Compact: "* *-*-* 02:30:00"},
			},
			{
				Name: "business-hours-heartbeat",
				Cmd:  "curl -fsS https://example.com/healthz",
				When: &WhenFile{Detailed: &DetailedWhenFile{
					DayOfWeekList: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
					Hour:          "09..17",
					Minute:        "*/15",
					Second:        "0",
				}},
				Timezone: "UTC",
			},
			{
				Name:             "poll-queue",
				Cmd:              "/usr/local/bin/drain-queue.sh",
				Every:            "30 seconds",
				AvoidOverlapping: true,
			},
		},
		Logging: LoggingFile{
			Output: "stdout",
			Level:  "info",
		},
		Alerts: AlertsFile{
			OnFailure: []SinkFile{
				{Type: "cmd", Cmd: "logger -t cron-rs \"{{ task_name }} failed: {{ error_message }}\""},
			},
		},
	}
}
