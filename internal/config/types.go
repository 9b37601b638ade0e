// Package config is the external collaborator named in spec.md §6: it owns
// configuration file discovery, YAML decoding, validation, default-config
// generation, and the crontab-to-config converter. The scheduler core never
// touches a file or a YAML byte; it only consumes the typed values this
// package produces.
package config

import "time"

// File mirrors the on-disk YAML shape exactly, keys as spec.md §6
// describes them. Every field is decoded permissively (missing keys take
// their zero value) and then turned into domain types by Resolve.
type File struct {
	Tasks   []TaskDefinition `yaml:"tasks"`
	Logging LoggingFile      `yaml:"logging"`
	Alerts  AlertsFile       `yaml:"alerts"`
}

// TaskDefinition is one entry of the tasks list, before schedule strings are
// parsed into schedule.Schedule/IntervalSchedule values.
type TaskDefinition struct {
	Name             string            `yaml:"name"`
	Cmd              string            `yaml:"cmd"`
	Every            string            `yaml:"every,omitempty"`
	When             *WhenFile         `yaml:"when,omitempty"`
	Timezone         string            `yaml:"timezone,omitempty"`
	WorkingDirectory string            `yaml:"working_directory,omitempty"`
	RuntimeDir       string            `yaml:"runtime_dir,omitempty"` // legacy alias, see aliases.go
	Env              map[string]string `yaml:"env,omitempty"`
	RunAs            string            `yaml:"run_as,omitempty"`
	Shell            string            `yaml:"shell,omitempty"`
	Stdout           string            `yaml:"stdout,omitempty"`
	Stderr           string            `yaml:"stderr,omitempty"`
	TimeLimit        string            `yaml:"time_limit,omitempty"`
	AvoidOverlapping bool              `yaml:"avoid_overlapping,omitempty"`
}

// WhenFile holds the "when" key, which is either a single compact string or
// a mapping of per-axis tokens. Exactly one of Compact/Detailed is set after
// decoding (see yaml.go's UnmarshalYAML).
type WhenFile struct {
	Compact  string
	Detailed *DetailedWhenFile
}

// DetailedWhenFile is the long form of "when": a mapping with one key per
// axis (missing keys default to Any), plus day_of_week's raw-list shorthand.
type DetailedWhenFile struct {
	DayOfWeek     string   `yaml:"day_of_week,omitempty"`
	DayOfWeekList []string `yaml:"-"`
	Year          string   `yaml:"year,omitempty"`
	Month         string   `yaml:"month,omitempty"`
	Day           string   `yaml:"day,omitempty"`
	Hour          string   `yaml:"hour,omitempty"`
	Minute        string   `yaml:"minute,omitempty"`
	Second        string   `yaml:"second,omitempty"`
	Timezone      string   `yaml:"timezone,omitempty"`
}

// LoggingFile is the "logging" block of spec.md §6.
type LoggingFile struct {
	Output string `yaml:"output,omitempty"` // stdout | file | syslog
	Level  string `yaml:"level,omitempty"`  // error|warn|info|debug|trace
	Path   string `yaml:"path,omitempty"`
}

// AlertsFile is the "alerts" block of spec.md §6.
type AlertsFile struct {
	OnFailure []SinkFile `yaml:"on_failure,omitempty"`
	OnSuccess []SinkFile `yaml:"on_success,omitempty"`
}

// SinkFile is one tagged sink entry, "type" selecting cmd/webhook/email.
type SinkFile struct {
	Type string `yaml:"type"`

	// cmd
	Cmd string `yaml:"cmd,omitempty"`

	// webhook
	URL     string            `yaml:"url,omitempty"`
	Method  string            `yaml:"method,omitempty"`
	Body    string            `yaml:"body,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`

	// email
	To           string `yaml:"to,omitempty"`
	Subject      string `yaml:"subject,omitempty"`
	From         string `yaml:"from,omitempty"`
	SMTPServer   string `yaml:"smtp_server,omitempty"`
	SMTPPort     int    `yaml:"smtp_port,omitempty"`
	SMTPUsername string `yaml:"smtp_username,omitempty"`
	SMTPPassword string `yaml:"smtp_password,omitempty"`
}

// Resolved is a fully typed view of the configuration: plain Go values, no
// more YAML surface syntax. Resolve does not produce it; it returns the
// scheduler's tasks, alert pipeline and ResolvedLogging directly.
type Resolved struct {
	Tasks   []ResolvedTask
	Logging ResolvedLogging
	Alerts  ResolvedAlerts
}

// ResolvedTask carries enough to build a *task.Task. resolve.go does not
// use it: it builds tasks and their schedule.Schedule/IntervalSchedule
// values straight from TaskDefinition, using internal/schedule, which this
// package depends on but the scheduler core does not depend back on config.
type ResolvedTask struct {
	Name             string
	Cmd              string
	EveryRaw         string // non-empty iff this task uses an interval schedule
	When             *WhenFile
	Timezone         string
	WorkingDirectory string
	Env              map[string]string
	RunAs            string
	Shell            string
	Stdout           string
	Stderr           string
	TimeLimit        time.Duration
	AvoidOverlapping bool
}

type ResolvedLogging struct {
	Output string
	Level  string
	Path   string
}

type ResolvedAlerts struct {
	OnFailure []SinkFile
	OnSuccess []SinkFile
}
