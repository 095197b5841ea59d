package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/inventory"
)

// queryDate parses an optional date. URL decoding turns the "+" of an RFC3339
// offset into a space, so that is reversed first.
// Example: 2025-07-03T17:44:03+02:00 becomes 2025-07-03T17:44:03 02:00 on Query().Get()
func queryDate(q url.Values, name string) (*time.Time, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	ts, err := inventory.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date format", name)
	}
	return &ts, nil
}

// queryInt parses an optional integer no lower than min.
func queryInt(q url.Values, name string, min int) (*int, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format", name)
	}
	if v < min {
		if min == 0 {
			return nil, fmt.Errorf("%s must be zero or positive", name)
		}
		return nil, fmt.Errorf("%s must be greater than zero", name)
	}
	return &v, nil
}

func queryInt64(q url.Values, name string) (*int64, error) {
	s := q.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("invalid %s", name)
	}
	return &v, nil
}
