package timerange

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FallbackGroupBy is used when a lower bound matches no named range.
const FallbackGroupBy = "5m"

//go:embed ranges.yaml
var defaultRanges []byte

// Range is a named relative time range as shown in the dashboard menu.
type Range struct {
	Lower          string `json:"lower" yaml:"lower"`
	Upper          string `json:"upper,omitempty" yaml:"upper,omitempty"`
	DefaultGroupBy string `json:"defaultGroupBy" yaml:"defaultGroupBy"`
	Seconds        int64  `json:"seconds" yaml:"seconds"`
	InputValue     string `json:"inputValue,omitempty" yaml:"inputValue,omitempty"`
	MenuOption     string `json:"menuOption,omitempty" yaml:"menuOption,omitempty"`
}

// Table is a read-only list of named ranges. It is loaded once at start
// and shared between callers.
type Table []Range

// Default returns the built-in table.
func Default() Table {
	t, err := Parse(defaultRanges)
	if err != nil {
		panic(fmt.Sprintf("timerange: embedded table is invalid: %v", err))
	}
	return t
}

// LoadFile reads a table from a YAML file. An empty path returns the
// built-in table.
func LoadFile(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read time ranges file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML list of ranges.
func Parse(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse time ranges: %w", err)
	}
	for i, r := range t {
		if r.Lower == "" {
			return nil, fmt.Errorf("time range at position %d: missing lower bound", i+1)
		}
		if r.DefaultGroupBy == "" {
			return nil, fmt.Errorf("time range %q: missing defaultGroupBy", r.Lower)
		}
	}
	return t, nil
}

// Find returns the first range whose lower bound equals lower.
func (t Table) Find(lower string) (Range, bool) {
	for _, r := range t {
		if r.Lower == lower {
			return r, true
		}
	}
	return Range{}, false
}

// DefaultGroupBy returns the GROUP BY interval for the range starting at
// lower, or FallbackGroupBy when no range matches.
func (t Table) DefaultGroupBy(lower string) string {
	if r, ok := t.Find(lower); ok {
		return r.DefaultGroupBy
	}
	return FallbackGroupBy
}
