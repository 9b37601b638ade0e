package alert

import (
	"strconv"
	"strings"

	"github.com/cout970/cronrs/internal/task"
)

// render implements §4.6's minimal mustache-style substitution: `{{ key }}`
// for the known keys, unknown keys render as empty string, no control
// structures, and a literal `{{` is produced by writing `{{{{`.
func render(tpl string, rc task.RunContext) string {
	values := templateValues(rc)

	var b strings.Builder
	i := 0
	for i < len(tpl) {
		if strings.HasPrefix(tpl[i:], "{{{{") {
			b.WriteString("{{")
			i += 4
			continue
		}
		if strings.HasPrefix(tpl[i:], "{{") {
			end := strings.Index(tpl[i+2:], "}}")
			if end < 0 {
				b.WriteString(tpl[i:])
				break
			}
			key := strings.TrimSpace(tpl[i+2 : i+2+end])
			b.WriteString(values[key])
			i += 2 + end + 2
			continue
		}
		b.WriteByte(tpl[i])
		i++
	}
	return b.String()
}

func templateValues(rc task.RunContext) map[string]string {
	return map[string]string{
		"task_name":     rc.TaskName,
		"cmd":           rc.Cmd,
		"exit_code":     strconv.Itoa(rc.ExitCode),
		"start_time":    rc.StartTime.Format("2006-01-02T15:04:05Z07:00"),
		"end_time":      rc.EndTime.Format("2006-01-02T15:04:05Z07:00"),
		"duration":      rc.Duration.String(),
		"error_message": rc.ErrorMessage,
		"debug_info":    rc.DebugInfo,
		"stdout":        strings.TrimSpace(rc.StdoutTail),
		"stderr":        strings.TrimSpace(rc.StderrTail),
	}
}
