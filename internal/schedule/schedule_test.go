package schedule

import (
	"testing"
	"time"
)

func TestParseCompactBasic(t *testing.T) {
	s, err := ParseCompact("* *-*-* *:*:*/10")
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var fires int
	for sec := 0; sec < 60; sec++ {
		instant := base.Add(time.Duration(sec) * time.Second)
		if s.Matches(instant, nil, time.UTC) {
			fires++
		}
	}
	if fires != 6 {
		t.Fatalf("expected 6 firings in one minute, got %d", fires)
	}
}

func TestScenarioS3(t *testing.T) {
	s, err := ParseCompact("[Mon,Thu] *-*/2-01..04 12:00:00")
	if err != nil {
		t.Fatal(err)
	}
	// 2024-01-01 is a Monday.
	if !s.Matches(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), nil, time.UTC) {
		t.Fatal("expected match on 2024-01-01T12:00:00 Monday")
	}
	// 2024-02-01 is a Thursday, but month 2 is not in */2 (odd months only).
	if s.Matches(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC), nil, time.UTC) {
		t.Fatal("expected no match on 2024-02-01T12:00:00 (month 2 not in */2)")
	}
}

func TestDetailedCompactEquivalence(t *testing.T) {
	compact, err := ParseCompact("Mon,Wed,Fri *-*-* 09:30:00")
	if err == nil {
		t.Fatalf("bare comma list without brackets should fail to parse, got %+v", compact)
	}

	compact, err = ParseCompact("[Mon, Wed, Fri] *-*-* 09:30:00")
	if err != nil {
		t.Fatal(err)
	}

	detailed, err := ParseDetailed(DetailedFields{
		DayOfWeek: []string{"Mon", "Wed", "Fri"},
		Hour:      "9",
		Minute:    "30",
		Second:    "0",
	})
	if err != nil {
		t.Fatal(err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 365; d++ {
		instant := start.AddDate(0, 0, d).Add(9*time.Hour + 30*time.Minute)
		if compact.Matches(instant, nil, time.UTC) != detailed.Matches(instant, nil, time.UTC) {
			t.Fatalf("mismatch at %v", instant)
		}
	}
}

func TestScheduleRoundTrip(t *testing.T) {
	s, err := ParseCompact("[Mon,Thu] *-*/2-01..04 12:00:00")
	if err != nil {
		t.Fatal(err)
	}
	s2, err := ParseCompact(s.String())
	if err != nil {
		t.Fatalf("reparsing rendered form: %v", err)
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < 400; d++ {
		instant := base.AddDate(0, 0, d).Add(12 * time.Hour)
		if s.Matches(instant, nil, time.UTC) != s2.Matches(instant, nil, time.UTC) {
			t.Fatalf("round-trip predicate mismatch at %v", instant)
		}
	}
}

func TestTimezoneIsolation(t *testing.T) {
	s, err := ParseCompact("* *-*-* 12:00:00")
	if err != nil {
		t.Fatal(err)
	}
	utc, _ := time.LoadLocation("UTC")
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}

	instant := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC) // 12:00 JST
	if !s.Matches(instant, tokyo, utc) {
		t.Fatal("expected match in Asia/Tokyo at 12:00 JST")
	}
	if s.Matches(instant, utc, utc) {
		t.Fatal("expected no match in UTC at the same wall-clock instant")
	}
}

func TestUnknownTimezone(t *testing.T) {
	_, err := ParseDetailed(DetailedFields{Timezone: "Nowhere/Fake"})
	if err == nil {
		t.Fatal("expected UnknownTimezone error")
	}
}

func TestInvalidCompactShape(t *testing.T) {
	if _, err := ParseCompact("only-two fields"); err == nil {
		t.Fatal("expected error for malformed compact string")
	}
}
