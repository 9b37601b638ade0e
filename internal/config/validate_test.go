package config

import "testing"

func TestValidateFlagsEmptyName(t *testing.T) {
	f := &File{Tasks: []TaskDefinition{{Cmd: "true", Every: "1s"}}}
	issues := Validate(f)
	if !HasErrors(issues) {
		t.Fatal("expected an error for an empty task name")
	}
}

func TestValidateFlagsDuplicateNameAsError(t *testing.T) {
	f := &File{Tasks: []TaskDefinition{
		{Name: "dup", Cmd: "true", Every: "1s"},
		{Name: "dup", Cmd: "true", Every: "1s"},
	}}
	issues := Validate(f)
	if !HasErrors(issues) {
		t.Fatal("expected duplicate task name to be an error, not merely a warning")
	}
}

func TestValidateFlagsUnknownTimezone(t *testing.T) {
	f := &File{Tasks: []TaskDefinition{
		{Name: "x", Cmd: "true", Every: "1s", Timezone: "Not/A_Zone"},
	}}
	if !HasErrors(Validate(f)) {
		t.Fatal("expected an error for an unknown timezone")
	}
}

func TestValidateFlagsMalformedStep(t *testing.T) {
	f := &File{Tasks: []TaskDefinition{
		{Name: "x", Cmd: "true", When: &WhenFile{Compact: "* *-*-* *:*:*/0"}},
	}}
	if !HasErrors(Validate(f)) {
		t.Fatal("expected a malformed step pattern (S6 scenario) to be an error")
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	f := DefaultFile()
	issues := Validate(f)
	if HasErrors(issues) {
		t.Fatalf("expected the generated default config to validate cleanly, got %v", issues)
	}
}
