package config

import "testing"

func TestParseCompactWhen(t *testing.T) {
	data := []byte(`
tasks:
  - name: ping
    cmd: curl example.com
    when: '* *-*-* *:*:*/10'
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(f.Tasks))
	}
	if f.Tasks[0].When == nil || f.Tasks[0].When.Compact != "* *-*-* *:*:*/10" {
		t.Fatalf("expected compact when to survive decode, got %+v", f.Tasks[0].When)
	}
}

func TestParseDetailedWhenWithDayOfWeekList(t *testing.T) {
	data := []byte(`
tasks:
  - name: weekday-noon
    cmd: echo hi
    when:
      day_of_week: [Mon, Thu]
      hour: "12"
      minute: "0"
      second: "0"
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	w := f.Tasks[0].When
	if w == nil || w.Detailed == nil {
		t.Fatalf("expected detailed when, got %+v", w)
	}
	if len(w.Detailed.DayOfWeekList) != 2 {
		t.Fatalf("expected 2 weekdays, got %v", w.Detailed.DayOfWeekList)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	data := []byte(`
tasks:
  - name: x
    cmd: echo hi
    every: "5 seconds"
    bogus_field: true
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestApplyAliasesMapsRuntimeDirToWorkingDirectory(t *testing.T) {
	data := []byte(`
tasks:
  - name: x
    cmd: echo hi
    every: "5 seconds"
    runtime_dir: /legacy/path
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.Tasks[0].WorkingDirectory != "/legacy/path" {
		t.Fatalf("expected runtime_dir alias to populate working_directory, got %q", f.Tasks[0].WorkingDirectory)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	f := DefaultFile()
	b, err := WriteYAML(f)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse(b)
	if err != nil {
		t.Fatalf("generated config failed to re-parse: %v\n%s", err, b)
	}
	if len(parsed.Tasks) != len(f.Tasks) {
		t.Fatalf("expected %d tasks after round-trip, got %d", len(f.Tasks), len(parsed.Tasks))
	}
}
