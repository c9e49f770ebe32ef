package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02",
// and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return t, true
    }
    if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
        return t.UTC(), true
    }
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t.UTC(), true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0).UTC(), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// HourFloor truncates t to the start of its hour bucket.
func HourFloor(t time.Time) time.Time {
    return t.Truncate(time.Hour)
}

// LastClosedHour returns the bucket of the most recent hour that has fully
// elapsed at t. For t exactly on an hour boundary that is the previous
// bucket; mid-hour it is also the previous bucket, since the current one is
// still open.
func LastClosedHour(t time.Time) time.Time {
    return HourFloor(t).Add(-time.Hour)
}

// DayKey renders the calendar day of t, used for daily trade caps and
// per-day PnL aggregation.
func DayKey(t time.Time) string {
    return t.Format("2006-01-02")
}
