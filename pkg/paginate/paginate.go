package paginate

import (
	"encoding/json"
	"strconv"
)

const (
	DefaultLimit  = 50
	DefaultOffset = 0
)

// Metadata tells the caller where the page sits in the full list.
type Metadata struct {
	Total      int  `json:"total"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	HasMore    bool `json:"hasMore"`
	NextOffset int  `json:"nextOffset"`
}

// Response wraps a page of items with its metadata.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// ParseParams extracts limit and offset from tool arguments. Both may be
// strings or JSON numbers.
func ParseParams(args any) (int, int) {
	limit := DefaultLimit
	offset := DefaultOffset

	m, ok := args.(map[string]any)
	if !ok {
		return limit, offset
	}

	if v, ok := intParam(m["limit"]); ok && v > 0 {
		limit = v
	}
	if v, ok := intParam(m["offset"]); ok && v >= 0 {
		offset = v
	}
	return limit, offset
}

func intParam(v any) (int, bool) {
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// Slice returns the page of items starting at offset.
func Slice[T any](items []T, offset, limit int) []T {
	if limit <= 0 || offset >= len(items) {
		return []T{}
	}

	// compare against what is left so offset+limit cannot overflow
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}

// Wrap pages items and marshals the page with its metadata.
func Wrap[T any](items []T, offset, limit int) ([]byte, error) {
	total := len(items)
	nextOffset := -1
	if offset < total && limit < total-offset {
		nextOffset = offset + limit
	}

	return json.Marshal(Response[T]{
		Data: Slice(items, offset, limit),
		Pagination: Metadata{
			Total:      total,
			Offset:     offset,
			Limit:      limit,
			HasMore:    nextOffset != -1,
			NextOffset: nextOffset,
		},
	})
}
