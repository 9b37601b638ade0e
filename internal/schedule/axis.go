package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// AxisKind is the Any/Exact/Range/List/Step closed variant of §4.1.
type AxisKind int

const (
	KindAny AxisKind = iota
	KindExact
	KindRange
	KindList
	KindStep
)

// AxisPattern matches concrete values against one temporal axis.
//
// It is a flat struct rather than an interface hierarchy: Kind selects
// which fields are meaningful, so the matcher stays a single switch and the
// zero value (KindAny) is always valid.
type AxisPattern struct {
	Kind AxisKind

	// Exact
	N int

	// Range
	Lo, Hi int

	// List
	Set map[int]struct{}

	// Step. Origin is the lowest value of the axis the step was parsed for;
	// steps count from it, so "*/2" on the month axis selects 1, 3, 5, ...
	Period, Phase, Origin int
}

// Domain describes the inclusive value range for one axis, and whether
// weekday-name tokens are accepted.
type Domain struct {
	Name       string
	Lo, Hi     int
	AllowDow   bool
}

var (
	DomainDayOfWeek = Domain{Name: "day_of_week", Lo: 0, Hi: 6, AllowDow: true}
	DomainYear      = Domain{Name: "year", Lo: 0, Hi: 9999}
	DomainMonth     = Domain{Name: "month", Lo: 1, Hi: 12}
	DomainDay       = Domain{Name: "day", Lo: 1, Hi: 31}
	DomainHour      = Domain{Name: "hour", Lo: 0, Hi: 23}
	DomainMinute    = Domain{Name: "minute", Lo: 0, Hi: 59}
	DomainSecond    = Domain{Name: "second", Lo: 0, Hi: 59}
)

// Match implements the §4.1 match predicate.
func (p AxisPattern) Match(v int) bool {
	switch p.Kind {
	case KindAny:
		return true
	case KindExact:
		return v == p.N
	case KindRange:
		return v >= p.Lo && v <= p.Hi
	case KindList:
		_, ok := p.Set[v]
		return ok
	case KindStep:
		if p.Period <= 0 {
			return false
		}
		return (v-p.Origin)%p.Period == p.Phase
	default:
		return false
	}
}

// Any reports whether this pattern is the wildcard.
func (p AxisPattern) Any() bool { return p.Kind == KindAny }

// String renders the pattern back to its compact-form token.
func (p AxisPattern) String(d Domain) string {
	switch p.Kind {
	case KindAny:
		return "*"
	case KindExact:
		return renderAxisValue(d, p.N)
	case KindRange:
		return fmt.Sprintf("%s..%s", renderAxisValue(d, p.Lo), renderAxisValue(d, p.Hi))
	case KindList:
		vals := make([]int, 0, len(p.Set))
		for v := range p.Set {
			vals = append(vals, v)
		}
		// simple insertion sort; lists are tiny
		for i := 1; i < len(vals); i++ {
			for j := i; j > 0 && vals[j-1] > vals[j]; j-- {
				vals[j-1], vals[j] = vals[j], vals[j-1]
			}
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = renderAxisValue(d, v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindStep:
		if p.Phase == 0 {
			return fmt.Sprintf("*/%d", p.Period)
		}
		return fmt.Sprintf("*/%d+%d", p.Period, p.Phase)
	default:
		return "*"
	}
}

func renderAxisValue(d Domain, v int) string {
	if d.AllowDow && v >= 0 && v < 7 {
		name := weekdayNames[v]
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return strconv.Itoa(v)
}

// ParseAxisToken parses one compact-form token for the given domain.
func ParseAxisToken(d Domain, token string) (AxisPattern, error) {
	tok := strings.TrimSpace(token)
	if tok == "" {
		return AxisPattern{}, newInvalidPattern(d.Name, token, fmt.Errorf("empty token"))
	}

	switch {
	case tok == "*":
		return AxisPattern{Kind: KindAny}, nil

	case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
		inner := strings.TrimSpace(tok[1 : len(tok)-1])
		set := map[int]struct{}{}
		if inner != "" {
			for _, piece := range strings.Split(inner, ",") {
				v, err := parseAxisLiteral(d, strings.TrimSpace(piece))
				if err != nil {
					return AxisPattern{}, newInvalidPattern(d.Name, token, err)
				}
				set[v] = struct{}{}
			}
		}
		return AxisPattern{Kind: KindList, Set: set}, nil

	case strings.HasPrefix(tok, "*/"):
		rest := tok[2:]
		phase := 0
		period := rest
		if i := strings.IndexByte(rest, '+'); i >= 0 {
			period = rest[:i]
			k, err := strconv.Atoi(rest[i+1:])
			if err != nil {
				return AxisPattern{}, newInvalidPattern(d.Name, token, fmt.Errorf("bad phase: %w", err))
			}
			phase = k
		}
		p, err := strconv.Atoi(period)
		if err != nil {
			return AxisPattern{}, newInvalidPattern(d.Name, token, fmt.Errorf("bad period: %w", err))
		}
		if p < 1 {
			return AxisPattern{}, newInvalidPattern(d.Name, token, fmt.Errorf("period must be >= 1"))
		}
		if phase < 0 || phase >= p {
			return AxisPattern{}, newInvalidPattern(d.Name, token, fmt.Errorf("phase must satisfy 0 <= k < %d", p))
		}
		return AxisPattern{Kind: KindStep, Period: p, Phase: phase, Origin: d.Lo}, nil

	case strings.Contains(tok, ".."):
		parts := strings.SplitN(tok, "..", 2)
		lo, err := parseAxisLiteral(d, strings.TrimSpace(parts[0]))
		if err != nil {
			return AxisPattern{}, newInvalidPattern(d.Name, token, err)
		}
		hi, err := parseAxisLiteral(d, strings.TrimSpace(parts[1]))
		if err != nil {
			return AxisPattern{}, newInvalidPattern(d.Name, token, err)
		}
		if lo > hi {
			return AxisPattern{}, newInvalidPattern(d.Name, token, fmt.Errorf("range lo must be <= hi"))
		}
		return AxisPattern{Kind: KindRange, Lo: lo, Hi: hi}, nil

	default:
		v, err := parseAxisLiteral(d, tok)
		if err != nil {
			return AxisPattern{}, newInvalidPattern(d.Name, token, err)
		}
		return AxisPattern{Kind: KindExact, N: v}, nil
	}
}

func parseAxisLiteral(d Domain, s string) (int, error) {
	if d.AllowDow {
		if idx, ok := weekdayIndex(s); ok {
			return idx, nil
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		if d.AllowDow {
			return 0, fmt.Errorf("not a weekday name or integer: %q", s)
		}
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if v < d.Lo || v > d.Hi {
		return 0, fmt.Errorf("value %d out of domain [%d, %d] for %s", v, d.Lo, d.Hi, d.Name)
	}
	return v, nil
}
