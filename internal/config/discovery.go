package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// SystemConfigPath is the last-resort system-wide config location, per
// spec.md §6.
const SystemConfigPath = "/etc/cron-rs.yml"

// Discover implements spec.md §6's discovery order: an explicit path wins
// outright; otherwise try, in order, "./config.yml", then
// $XDG_CONFIG_HOME/cron-rs/config.yml (or $HOME/.config/cron-rs/config.yml),
// then /etc/cron-rs.yml. Returns an error if explicit is empty and nothing
// is found.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if exists("./config.yml") {
		return "./config.yml", nil
	}

	if dir := userConfigDir(); dir != "" {
		candidate := filepath.Join(dir, "cron-rs", "config.yml")
		if exists(candidate) {
			return candidate, nil
		}
	}

	if exists(SystemConfigPath) {
		return SystemConfigPath, nil
	}

	return "", fmt.Errorf("no config file found; specify one with --config")
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config")
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
