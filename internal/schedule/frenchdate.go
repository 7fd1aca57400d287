package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// frenchMonths maps lowercase French month names to calendar months.
var frenchMonths = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
}

var (
	dayMonthPattern = regexp.MustCompile(`(\d+)\s+(\p{L}+)`)
	yearPattern     = regexp.MustCompile(`\b(\d{4})\b`)
	clockPattern    = regexp.MustCompile(`(\d+):(\d+)`)
)

// ParseFrenchDate resolves a section header like "lundi, 15 décembre" plus a
// time like "18:00" into an absolute timestamp. When the header carries no
// explicit year, the year is the current one, rolled forward when the
// month/day has already passed: a schedule browsed in December lists January
// games of the next year. Returns false on unrecognized month names,
// malformed times, or impossible calendar dates.
func ParseFrenchDate(dateStr, timeStr string, now time.Time) (time.Time, bool) {
	m := dayMonthPattern.FindStringSubmatch(dateStr)
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := frenchMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	year := 0
	if ym := yearPattern.FindStringSubmatch(dateStr); ym != nil {
		year, _ = strconv.Atoi(ym[1])
	}
	if year == 0 {
		year = now.Year()
		if month < now.Month() || (month == now.Month() && day < now.Day()) {
			year++
		}
	}

	tm := clockPattern.FindStringSubmatch(timeStr)
	if tm == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(tm[1])
	minute, _ := strconv.Atoi(tm[2])

	return makeDate(year, month, day, hour, minute)
}

// makeDate builds a local timestamp, rejecting values that time.Date would
// normalize into a different date, e.g. day 31 in a 30-day month.
func makeDate(year int, month time.Month, day, hour, minute int) (time.Time, bool) {
	t := time.Date(year, month, day, hour, minute, 0, 0, time.Local)
	if t.Year() != year || t.Month() != month || t.Day() != day || t.Hour() != hour || t.Minute() != minute {
		return time.Time{}, false
	}
	return t, true
}
