package backup

import (
	"regexp"
	"time"
)

var (
	// 20250906-144834, 20250906_144834
	dateTimePattern = regexp.MustCompile(`(\d{8})[_-](\d{6})`)
	// 2025-09-06
	datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ExtractTimestamp returns the point in time encoded in a backup file name.
//
// A YYYYMMDD-HHMMSS (or YYYYMMDD_HHMMSS) token takes precedence over a
// YYYY-MM-DD token. Only the first match of the winning pattern is
// considered; if it does not describe a valid calendar date the name has no
// timestamp. Values are interpreted in loc.
func ExtractTimestamp(name string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	if m := dateTimePattern.FindStringSubmatch(name); m != nil {
		t, err := time.ParseInLocation("20060102150405", m[1]+m[2], loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if m := datePattern.FindString(name); m != "" {
		t, err := time.ParseInLocation("2006-01-02", m, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	return time.Time{}, false
}
