package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// HourRange is a [start,end] pair of 24-hour clock values, e.g. ["08:00","10:00"].
type HourRange [2]string

// Start returns the lower bound of the range.
func (r HourRange) Start() string { return r[0] }

// End returns the upper bound of the range.
func (r HourRange) End() string { return r[1] }

// HourRanges is the JSONB column holding an invite's hour windows. Ranges are
// not required to be sorted or disjoint.
type HourRanges []HourRange

func (h *HourRanges) Scan(src any) error {
	if src == nil {
		*h = HourRanges{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return h.parseFromJSON([]byte(v))
	case []byte:
		return h.parseFromJSON(v)
	default:
		return fmt.Errorf("HourRanges: unsupported Scan type %T", src)
	}
}

func (h HourRanges) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("HourRanges: marshal: %w", err)
	}
	return string(raw), nil
}

func (h *HourRanges) parseFromJSON(raw []byte) error {
	if len(raw) == 0 {
		*h = HourRanges{}
		return nil
	}
	var out []HourRange
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("HourRanges: parse %q: %w", string(raw), err)
	}
	*h = HourRanges(out)
	return nil
}
