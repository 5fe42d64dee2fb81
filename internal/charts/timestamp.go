package charts

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Timestamp formats
const (
	FormatShort  = "short"
	FormatMedium = "medium"
	FormatFull   = "full"
)

// InvalidDate is returned for input that cannot be read as a time.
const InvalidDate = "Invalid Date"

// naive layouts are read in the target location; the tracker emits
// Python isoformat() strings without an offset.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads a time.Time, epoch milliseconds or a date string.
func ParseTimestamp(ts any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch v := ts.(type) {
	case time.Time:
		return v.In(loc), !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return v.In(loc), !v.IsZero()
	case int:
		return time.UnixMilli(int64(v)).In(loc), true
	case int64:
		return time.UnixMilli(v).In(loc), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(v)).In(loc), true
	case string:
		return parseTimestampString(strings.TrimSpace(v), loc)
	default:
		return time.Time{}, false
	}
}

func parseTimestampString(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp formats ts in the local time zone. See FormatTimestampIn.
func FormatTimestamp(ts any, format string) string {
	return FormatTimestampIn(time.Local, ts, format)
}

// FormatTimestampIn formats ts in loc: "short" gives M/D, "medium" gives
// M/D/YY and any other format gives the full date and time. An empty format
// means "short".
func FormatTimestampIn(loc *time.Location, ts any, format string) string {
	t, ok := ParseTimestamp(ts, loc)
	if !ok {
		return InvalidDate
	}
	switch format {
	case FormatShort, "":
		return fmt.Sprintf("%d/%d", t.Month(), t.Day())
	case FormatMedium:
		return fmt.Sprintf("%d/%d/%02d", t.Month(), t.Day(), t.Year()%100)
	default:
		return t.Format("1/2/2006, 3:04:05 PM")
	}
}
