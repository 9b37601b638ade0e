package config

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ReadUserCrontab shells out to `crontab -l` for the current user, the same
// fallback original_source's cmd_generate_config_from_crontab uses when no
// explicit crontab file is given.
func ReadUserCrontab() (string, error) {
	out, err := exec.Command("crontab", "-l").Output()
	if err != nil {
		return "", fmt.Errorf("read crontab: %w", err)
	}
	return string(out), nil
}

// ParseCrontab converts the text of a traditional 5-field crontab
// (minute hour day month day_of_week cmd) into task definitions, grounded
// on original_source's parse_crontab_file: comment lines immediately above
// an entry become its task name, blank lines reset the pending comment,
// malformed/short lines are skipped, and each numeric field is translated
// into this scheduler's detailed "when" token grammar (ranges "a-b" become
// "a..b", comma lists become bracketed lists, and multi-value comma lists
// collapse to a single token when they reduce to one value after range
// expansion).
func ParseCrontab(crontab string) []TaskDefinition {
	var tasks []TaskDefinition
	var lastComment string

	for _, raw := range strings.Split(crontab, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			lastComment = ""
			continue
		}
		if strings.HasPrefix(line, "#") {
			lastComment = strings.TrimSpace(lastComment + " " + strings.TrimSpace(line[1:]))
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 6 {
			lastComment = ""
			continue
		}

		minute, hour, day, month, dow := parts[0], parts[1], parts[2], parts[3], parts[4]
		cmd := strings.Join(parts[5:], " ")

		name := lastComment
		if strings.TrimSpace(name) == "" {
			name = "Crontab: " + line
		}

		tasks = append(tasks, TaskDefinition{
			Name: name,
			Cmd:  cmd,
			When: &WhenFile{Detailed: &DetailedWhenFile{
				Minute:    crontabField(minute),
				Hour:      crontabField(hour),
				Day:       crontabField(day),
				Month:     crontabField(month),
				DayOfWeek: crontabDayOfWeekField(dow),
			}},
		})
		lastComment = ""
	}

	return tasks
}

// crontabDayOfWeekField translates the traditional crontab day-of-week
// field (Sun=0 or 7 .. Sat=6) into this scheduler's Mon=0..Sun=6 indexing
// before delegating to crontabField for range/list expansion.
func crontabDayOfWeekField(field string) string {
	if strings.Contains(field, "/") {
		// A step period/phase is not a weekday literal; reindexing it would
		// change its meaning, so steps pass through untranslated.
		return crontabField(field)
	}

	translated := make([]byte, 0, len(field))
	num := ""
	flush := func() {
		if num == "" {
			return
		}
		if v, err := strconv.Atoi(num); err == nil {
			translated = append(translated, []byte(strconv.Itoa((v+6)%7))...)
		} else {
			translated = append(translated, []byte(num)...)
		}
		num = ""
	}
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c >= '0' && c <= '9' {
			num += string(c)
			continue
		}
		flush()
		translated = append(translated, c)
	}
	flush()
	return crontabField(string(translated))
}

// crontabField translates one traditional crontab field into this
// scheduler's axis token grammar: "*" passes through, "a-b" becomes
// "a..b", and comma-separated lists of (possibly range-expanded) values
// become a bracketed list, collapsing to a bare token if only one value
// survives.
func crontabField(field string) string {
	if field == "*" {
		return "*"
	}
	if strings.Contains(field, "/") {
		// "*/N"-style step: the traditional crontab grammar and this
		// scheduler's agree here, pass through unchanged.
		return field
	}

	text := strings.ReplaceAll(field, "-", "..")
	if !strings.Contains(text, ",") {
		return text
	}

	var values []string
	for _, opt := range strings.Split(text, ",") {
		opt = strings.TrimSpace(opt)
		if strings.Contains(opt, "..") {
			bounds := strings.SplitN(opt, "..", 2)
			if len(bounds) != 2 {
				continue
			}
			start, errA := strconv.Atoi(bounds[0])
			end, errB := strconv.Atoi(bounds[1])
			if errA != nil || errB != nil || start > end {
				continue
			}
			for v := start; v <= end; v++ {
				values = append(values, strconv.Itoa(v))
			}
		} else {
			values = append(values, opt)
		}
	}

	if len(values) == 1 {
		return values[0]
	}
	return "[" + strings.Join(values, ", ") + "]"
}
