package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultLower is the dashboard default range when a caller gives none.
const DefaultLower = "now() - 15m"

var influxDuration = regexp.MustCompile(`^[0-9]+(ns|u|µ|ms|s|m|h|d|w)$`)

// ParseTimeRange parses time range strings like "2h", "2d", "30m", "7d"
// Returns duration or error
func ParseTimeRange(timeRange string) (time.Duration, error) {
	duration, err := time.ParseDuration(timeRange)
	if err == nil {
		return duration, nil
	}

	if len(timeRange) > 1 {
		unit := timeRange[len(timeRange)-1]
		if n, err := strconv.Atoi(timeRange[:len(timeRange)-1]); err == nil {
			switch unit {
			case 'd':
				return time.Duration(n) * 24 * time.Hour, nil
			case 'w':
				return time.Duration(n) * 7 * 24 * time.Hour, nil
			}
		}
	}

	return 0, fmt.Errorf("invalid time range format: use formats like '30m', '2h', '2d', '1w'")
}

// RelativeLower turns a range such as "1h" into the InfluxQL lower bound
// "now() - 1h". The unit is kept as written so it matches the named ranges.
func RelativeLower(timeRange string) (string, error) {
	timeRange = strings.TrimSpace(timeRange)
	if !influxDuration.MatchString(timeRange) {
		return "", fmt.Errorf("invalid time range %q: use a single InfluxQL duration like '15m', '6h', '7d'", timeRange)
	}
	return "now() - " + timeRange, nil
}

// NormalizeBound accepts a relative expression, an RFC3339 timestamp or a
// millisecond epoch. Epochs become RFC3339 UTC timestamps so the query
// builder recognises and quotes them.
func NormalizeBound(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
	}
	return v
}

// BoundsFromArgs reads "timeRange", "lower" and "upper" from tool
// arguments. timeRange wins over lower. When nothing is set, defaultLower
// is returned as the lower bound (it may be empty).
func BoundsFromArgs(args map[string]any, defaultLower string) (lower, upper string, err error) {
	if timeRange, ok := args["timeRange"].(string); ok && timeRange != "" {
		lower, err = RelativeLower(timeRange)
		if err != nil {
			return "", "", err
		}
	} else if l, ok := args["lower"].(string); ok && l != "" {
		lower = NormalizeBound(l)
	} else {
		lower = defaultLower
	}

	if u, ok := args["upper"].(string); ok && u != "" {
		upper = NormalizeBound(u)
	}
	return lower, upper, nil
}
