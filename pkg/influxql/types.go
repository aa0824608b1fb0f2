package influxql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// NullFill is the fill policy used when a config does not set one.
	NullFill = "null"

	// DefaultDashboardGroupByInterval asks the dashboard renderer to pick
	// the GROUP BY interval itself.
	DefaultDashboardGroupByInterval = "auto"

	// IntervalTemplate is substituted by the dashboard renderer with the
	// interval it picked.
	IntervalTemplate = ":interval:"

	// DashboardTimeTemplate and UpperDashboardTimeTemplate stand in for the
	// dashboard's selected time range.
	DashboardTimeTemplate      = ":dashboardTime:"
	UpperDashboardTimeTemplate = ":upperDashboardTime:"

	// Wildcard selects every field.
	Wildcard = "*"
)

// QueryConfig describes a query the way the UI stores it.
type QueryConfig struct {
	ID              string      `json:"id,omitempty"`
	Database        string      `json:"database"`
	RetentionPolicy string      `json:"retentionPolicy,omitempty"`
	Measurement     string      `json:"measurement"`
	Fields          []Field     `json:"fields"`
	GroupBy         *GroupBy    `json:"groupBy,omitempty"`
	Fill            string      `json:"fill,omitempty"`
	Tags            TagFilters  `json:"tags,omitempty"`
	AreTagsAccepted bool        `json:"areTagsAccepted"`
	RawText         string      `json:"rawText,omitempty"`
	Range           *TimeBounds `json:"range,omitempty"`
}

// Field is a selected field and the aggregate functions applied to it.
type Field struct {
	Field string   `json:"field"`
	Funcs []string `json:"funcs"`
}

// GroupBy holds an optional time interval and tag keys to group on.
type GroupBy struct {
	Time string   `json:"time,omitempty"`
	Tags []string `json:"tags"`
}

// TimeBounds is a lower/upper pair. Values are relative expressions
// (now() - 1h) or absolute timestamps; an empty string means unset.
type TimeBounds struct {
	Lower string `json:"lower,omitempty"`
	Upper string `json:"upper,omitempty"`
}

// CannedQuery is the legacy query shape kept by pre-built dashboards.
type CannedQuery struct {
	Text     string   `json:"text"`
	Wheres   []string `json:"wheres,omitempty"`
	GroupBys []string `json:"groupbys,omitempty"`
}

// TagFilter is the set of values accepted (or rejected) for one tag key.
type TagFilter struct {
	Key    string
	Values []string
}

// TagFilters keeps tag filters in the order their keys were stored. The JSON
// form is an object mapping each key to its values.
type TagFilters []TagFilter

func (t TagFilters) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		values := f.Values
		if values == nil {
			values = []string{}
		}
		vals, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(vals)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *TagFilters) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("tags must be an object mapping tag keys to values, got %v", tok)
	}

	var out TagFilters
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode tags: %w", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to decode values of tag %q: %w", key, err)
		}
		values, err := decodeTagValues(raw)
		if err != nil {
			return fmt.Errorf("failed to decode values of tag %q: %w", key, err)
		}

		// a repeated key overwrites the earlier one in place
		if i, ok := index[key]; ok {
			out[i].Values = values
			continue
		}
		index[key] = len(out)
		out = append(out, TagFilter{Key: key, Values: values})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode tags: %w", err)
	}
	*t = out
	return nil
}

func decodeTagValues(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, err
		}
		return []string{single}, nil
	}
	var values []string
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Get returns the values stored for key.
func (t TagFilters) Get(key string) ([]string, bool) {
	for _, f := range t {
		if f.Key == key {
			return f.Values, true
		}
	}
	return nil, false
}
