package util

import (
    "strconv"
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeSQLFormat(t *testing.T) {
    got, ok := ParseTime("2025-01-01 13:45:00")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2025, 1, 1, 13, 45, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimeUnix(t *testing.T) {
    ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
    got, ok := ParseTime(strconv.FormatInt(ts, 10))
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Unix() != ts {
        t.Fatalf("unexpected unix %v", got.Unix())
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestLastClosedHour(t *testing.T) {
    onBoundary := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)
    if got := LastClosedHour(onBoundary); !got.Equal(time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)) {
        t.Fatalf("boundary: got %v", got)
    }
    midHour := time.Date(2025, 1, 1, 7, 30, 0, 0, time.UTC)
    if got := LastClosedHour(midHour); !got.Equal(time.Date(2025, 1, 1, 6, 0, 0, 0, time.UTC)) {
        t.Fatalf("mid-hour: got %v", got)
    }
}

func TestDayKey(t *testing.T) {
    tm := time.Date(2025, 3, 4, 23, 59, 0, 0, time.UTC)
    if got := DayKey(tm); got != "2025-03-04" {
        t.Fatalf("unexpected day key %s", got)
    }
}
