package invites

import (
	"strconv"
	"time"

	dbtypes "github.com/lsoria/qrsec-backend/pkg/db/types"
)

// WithinWindow reports whether the instant falls inside the invite's recurring
// weekly window. The comparison always happens in UTC. An empty day set means
// every day qualifies; an empty hour list means any time of day qualifies.
// Hour bounds are exclusive on both ends: an invite for 08:00-10:00 rejects
// exactly 08:00:00 and exactly 10:00:00.
func WithinWindow(days []string, hours dbtypes.HourRanges, at time.Time) bool {
	utc := at.UTC()

	if len(days) > 0 {
		// time.Weekday numbers Sunday as 0, matching the stored day codes.
		weekday := strconv.Itoa(int(utc.Weekday()))
		if !containsDay(days, weekday) {
			return false
		}
	}

	if len(hours) == 0 {
		return true
	}

	sec := utc.Hour()*3600 + utc.Minute()*60 + utc.Second()
	for _, r := range hours {
		start, err := parseClock(r.Start())
		if err != nil {
			continue
		}
		end, err := parseClock(r.End())
		if err != nil {
			continue
		}
		if sec > start && sec < end {
			return true
		}
	}
	return false
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// parseClock converts "HH:MM" or "HH:MM:SS" into seconds since midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		t, err = time.Parse("15:04:05", value)
		if err != nil {
			return 0, err
		}
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}
