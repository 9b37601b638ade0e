package schedule

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Schedule composes seven AxisPatterns plus an optional timezone, per §3/§4.2.
type Schedule struct {
	DayOfWeek AxisPattern
	Year      AxisPattern
	Month     AxisPattern
	Day       AxisPattern
	Hour      AxisPattern
	Minute    AxisPattern
	Second    AxisPattern

	// Timezone is the IANA location this schedule evaluates in, resolved at
	// parse time. Nil means "use the caller-supplied default".
	Timezone *time.Location
}

// DetailedFields is the raw detailed-form representation: one key per axis
// plus "timezone". Missing keys default to Any. DayOfWeek may additionally
// be a raw list of weekday name strings.
type DetailedFields struct {
	DayOfWeek []string // if non-empty, interpreted as List(...)
	DayOfWeekToken string // compact-style token, used when DayOfWeek is empty
	Year      string
	Month     string
	Day       string
	Hour      string
	Minute    string
	Second    string
	Timezone  string
}

func defaultAxis() AxisPattern { return AxisPattern{Kind: KindAny} }

// ParseDetailed builds a Schedule from the detailed (map) surface form.
func ParseDetailed(f DetailedFields) (Schedule, error) {
	var s Schedule
	var err error

	if len(f.DayOfWeek) > 0 {
		set := map[int]struct{}{}
		for _, name := range f.DayOfWeek {
			idx, ok := weekdayIndex(name)
			if !ok {
				return Schedule{}, newInvalidPattern(DomainDayOfWeek.Name, name, fmt.Errorf("not a weekday name"))
			}
			set[idx] = struct{}{}
		}
		s.DayOfWeek = AxisPattern{Kind: KindList, Set: set}
	} else if strings.TrimSpace(f.DayOfWeekToken) != "" {
		s.DayOfWeek, err = ParseAxisToken(DomainDayOfWeek, f.DayOfWeekToken)
		if err != nil {
			return Schedule{}, err
		}
	} else {
		s.DayOfWeek = defaultAxis()
	}

	if s.Year, err = parseOrDefault(DomainYear, f.Year); err != nil {
		return Schedule{}, err
	}
	if s.Month, err = parseOrDefault(DomainMonth, f.Month); err != nil {
		return Schedule{}, err
	}
	if s.Day, err = parseOrDefault(DomainDay, f.Day); err != nil {
		return Schedule{}, err
	}
	if s.Hour, err = parseOrDefault(DomainHour, f.Hour); err != nil {
		return Schedule{}, err
	}
	if s.Minute, err = parseOrDefault(DomainMinute, f.Minute); err != nil {
		return Schedule{}, err
	}
	if s.Second, err = parseOrDefault(DomainSecond, f.Second); err != nil {
		return Schedule{}, err
	}

	if strings.TrimSpace(f.Timezone) != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return Schedule{}, &UnknownTimezone{Name: f.Timezone, Err: err}
		}
		s.Timezone = loc
	}

	return s, nil
}

func parseOrDefault(d Domain, token string) (AxisPattern, error) {
	if strings.TrimSpace(token) == "" {
		return defaultAxis(), nil
	}
	return ParseAxisToken(d, token)
}

// ParseCompact parses the single-string compact form:
//
//	DOW YEAR-MONTH-DAY HOUR:MINUTE:SECOND
//
// with a single space between the three groups. Whitespace inside a
// bracketed list (e.g. "[Mon, Thu]") does not separate groups.
func ParseCompact(s string) (Schedule, error) {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		if r == '[' {
			depth++
		} else if r == ']' {
			depth--
		}
		if depth > 0 && unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	fields := strings.Fields(b.String())
	if len(fields) != 3 {
		return Schedule{}, newInvalidPattern("compact", s, fmt.Errorf("expected 3 whitespace-separated groups, got %d", len(fields)))
	}
	dowTok, dateTok, timeTok := fields[0], fields[1], fields[2]

	dateParts := strings.Split(dateTok, "-")
	if len(dateParts) != 3 {
		return Schedule{}, newInvalidPattern("compact", s, fmt.Errorf("date group must be YEAR-MONTH-DAY"))
	}
	timeParts := strings.Split(timeTok, ":")
	if len(timeParts) != 3 {
		return Schedule{}, newInvalidPattern("compact", s, fmt.Errorf("time group must be HOUR:MINUTE:SECOND"))
	}

	var sched Schedule
	var err error

	if sched.DayOfWeek, err = ParseAxisToken(DomainDayOfWeek, dowTok); err != nil {
		return Schedule{}, err
	}
	if sched.Year, err = ParseAxisToken(DomainYear, dateParts[0]); err != nil {
		return Schedule{}, err
	}
	if sched.Month, err = ParseAxisToken(DomainMonth, dateParts[1]); err != nil {
		return Schedule{}, err
	}
	if sched.Day, err = ParseAxisToken(DomainDay, dateParts[2]); err != nil {
		return Schedule{}, err
	}
	if sched.Hour, err = ParseAxisToken(DomainHour, timeParts[0]); err != nil {
		return Schedule{}, err
	}
	if sched.Minute, err = ParseAxisToken(DomainMinute, timeParts[1]); err != nil {
		return Schedule{}, err
	}
	if sched.Second, err = ParseAxisToken(DomainSecond, timeParts[2]); err != nil {
		return Schedule{}, err
	}

	return sched, nil
}

// Matches implements §4.2's matches(instant): convert to the effective
// timezone, extract the seven fields, and AND the per-axis matches.
//
// taskTZ, if non-nil, is the task-level timezone override and takes
// precedence over the Schedule's own Timezone; defaultTZ is the system
// default used when neither is set.
func (s Schedule) Matches(instant time.Time, taskTZ, defaultTZ *time.Location) bool {
	loc := defaultTZ
	if s.Timezone != nil {
		loc = s.Timezone
	}
	if taskTZ != nil {
		loc = taskTZ
	}
	if loc == nil {
		loc = time.Local
	}
	t := instant.In(loc)

	dow := goWeekdayToAxis(int(t.Weekday()))
	return s.DayOfWeek.Match(dow) &&
		s.Year.Match(t.Year()) &&
		s.Month.Match(int(t.Month())) &&
		s.Day.Match(t.Day()) &&
		s.Hour.Match(t.Hour()) &&
		s.Minute.Match(t.Minute()) &&
		s.Second.Match(t.Second())
}

// String renders the schedule back to compact form. Not guaranteed
// byte-identical to the original input, only an equivalent predicate.
func (s Schedule) String() string {
	dow := s.DayOfWeek.String(DomainDayOfWeek)
	date := fmt.Sprintf("%s-%s-%s", s.Year.String(DomainYear), s.Month.String(DomainMonth), s.Day.String(DomainDay))
	tod := fmt.Sprintf("%s:%s:%s", s.Hour.String(DomainHour), s.Minute.String(DomainMinute), s.Second.String(DomainSecond))
	return fmt.Sprintf("%s %s %s", dow, date, tod)
}
