package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverPrefersExplicitPath(t *testing.T) {
	path, err := Discover("/some/explicit/path.yml")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/some/explicit/path.yml" {
		t.Fatalf("expected the explicit path to win, got %q", path)
	}
}

func TestDiscoverFindsLocalConfig(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("config.yml", []byte("tasks: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := Discover("")
	if err != nil {
		t.Fatal(err)
	}
	if path != "./config.yml" {
		t.Fatalf("expected ./config.yml, got %q", path)
	}
}

func TestDiscoverFindsXDGConfig(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)
	empty := t.TempDir()
	if err := os.Chdir(empty); err != nil {
		t.Fatal(err)
	}

	xdg := filepath.Join(dir, "xdg")
	if err := os.MkdirAll(filepath.Join(xdg, "cron-rs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(xdg, "cron-rs", "config.yml"), []byte("tasks: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("XDG_CONFIG_HOME", xdg)

	path, err := Discover("")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(xdg, "cron-rs", "config.yml")
	if path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}
}

func TestDiscoverErrorsWhenNothingFound(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "does-not-exist"))

	if _, err := Discover(""); err == nil {
		t.Fatal("expected an error when no config file exists anywhere")
	}
}
