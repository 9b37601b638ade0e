package config

import (
	"bytes"
	"fmt"
	"os"

	yaml "go.yaml.in/yaml/v3"
)

// ReadFile reads and strictly decodes the YAML config at path: unknown keys
// are rejected immediately, matching the teacher's DisallowUnknownFields
// strictness but using yaml.v3's native KnownFields instead of the
// YAML-via-JSON coercion trick the teacher needed for its JSON decoder.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes raw YAML bytes into a File, rejecting unknown fields and
// trailing documents.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyAliases(&f)
	return &f, nil
}

// UnmarshalYAML lets "when" be either a bare compact string or a mapping,
// per spec.md §4.2's two-surface grammar.
func (w *WhenFile) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		w.Compact = s
		return nil
	case yaml.MappingNode:
		var d DetailedWhenFile
		// day_of_week may itself be a scalar token or a raw list of weekday
		// names (spec.md §4.2: "day_of_week may additionally accept a raw
		// list of weekday names"), so decode it separately before the rest.
		type rawDetailed struct {
			DayOfWeek yaml.Node `yaml:"day_of_week"`
			Year      string    `yaml:"year,omitempty"`
			Month     string    `yaml:"month,omitempty"`
			Day       string    `yaml:"day,omitempty"`
			Hour      string    `yaml:"hour,omitempty"`
			Minute    string    `yaml:"minute,omitempty"`
			Second    string    `yaml:"second,omitempty"`
			Timezone  string    `yaml:"timezone,omitempty"`
		}
		var raw rawDetailed
		if err := node.Decode(&raw); err != nil {
			return err
		}
		d.Year, d.Month, d.Day = raw.Year, raw.Month, raw.Day
		d.Hour, d.Minute, d.Second = raw.Hour, raw.Minute, raw.Second
		d.Timezone = raw.Timezone

		switch raw.DayOfWeek.Kind {
		case 0:
			// key absent
		case yaml.ScalarNode:
			if err := raw.DayOfWeek.Decode(&d.DayOfWeek); err != nil {
				return err
			}
		case yaml.SequenceNode:
			if err := raw.DayOfWeek.Decode(&d.DayOfWeekList); err != nil {
				return err
			}
		default:
			return fmt.Errorf("day_of_week: expected a string or a list of weekday names")
		}

		w.Detailed = &d
		return nil
	default:
		return fmt.Errorf("when: expected a string or a mapping")
	}
}

// MarshalYAML renders a WhenFile back to whichever surface it holds,
// needed by generate-config/generate-from-crontab.
func (w WhenFile) MarshalYAML() (interface{}, error) {
	if w.Detailed != nil {
		if len(w.Detailed.DayOfWeekList) > 0 {
			type detailedOut struct {
				DayOfWeek []string `yaml:"day_of_week,omitempty"`
				Year      string   `yaml:"year,omitempty"`
				Month     string   `yaml:"month,omitempty"`
				Day       string   `yaml:"day,omitempty"`
				Hour      string   `yaml:"hour,omitempty"`
				Minute    string   `yaml:"minute,omitempty"`
				Second    string   `yaml:"second,omitempty"`
				Timezone  string   `yaml:"timezone,omitempty"`
			}
			return detailedOut{
				DayOfWeek: w.Detailed.DayOfWeekList,
				Year:      w.Detailed.Year, Month: w.Detailed.Month, Day: w.Detailed.Day,
				Hour: w.Detailed.Hour, Minute: w.Detailed.Minute, Second: w.Detailed.Second,
				Timezone: w.Detailed.Timezone,
			}, nil
		}
		type detailedOut struct {
			DayOfWeek string `yaml:"day_of_week,omitempty"`
			Year      string `yaml:"year,omitempty"`
			Month     string `yaml:"month,omitempty"`
			Day       string `yaml:"day,omitempty"`
			Hour      string `yaml:"hour,omitempty"`
			Minute    string `yaml:"minute,omitempty"`
			Second    string `yaml:"second,omitempty"`
			Timezone  string `yaml:"timezone,omitempty"`
		}
		return detailedOut{
			DayOfWeek: w.Detailed.DayOfWeek, Year: w.Detailed.Year, Month: w.Detailed.Month, Day: w.Detailed.Day,
			Hour: w.Detailed.Hour, Minute: w.Detailed.Minute, Second: w.Detailed.Second,
			Timezone: w.Detailed.Timezone,
		}, nil
	}
	return w.Compact, nil
}

// WriteYAML marshals v (typically *File) into YAML bytes, used by
// generate-config and generate-from-crontab.
func WriteYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
