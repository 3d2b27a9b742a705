// Package isotime formats instants as ISO-8601 UTC strings with millisecond
// precision, e.g. 2024-02-29T12:00:00.500Z.
//
// The calendar decomposition is done with integer arithmetic on seconds since
// the Unix epoch (proleptic Gregorian, days-to-civil), so the output does not
// depend on the time package's calendar tables or the local zone.
package isotime

import (
	"fmt"
	"time"
)

const (
	secondsPerDay = 86400

	// Days from 0000-03-01 to 1970-01-01.
	epochShift = 719468

	// Days in a 400-year era.
	daysPerEra = 146097
)

// Now returns the current instant formatted by Format.
func Now() string {
	return Format(time.Now())
}

// Format returns t as YYYY-MM-DDTHH:MM:SS.mmmZ in UTC.
// Instants before the Unix epoch are not supported.
func Format(t time.Time) string {
	return FormatUnixMilli(t.UnixMilli())
}

// FormatUnixMilli formats milliseconds since the Unix epoch.
func FormatUnixMilli(ms int64) string {
	secs := ms / 1000
	millis := ms % 1000

	days := secs / secondsPerDay
	rem := secs % secondsPerDay
	h := rem / 3600
	m := (rem % 3600) / 60
	s := rem % 60

	y, mon, d := civilFromDays(days)

	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%03dZ", y, mon, d, h, m, s, millis)
}

// civilFromDays converts days since 1970-01-01 to a (year, month, day) triple.
// Eras start on March 1st so the leap day falls at the end of the year.
func civilFromDays(days int64) (year, month, day int64) {
	z := days + epochShift
	era := z / daysPerEra
	doe := z - era*daysPerEra                              // [0, 146096]
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365 // [0, 399]
	doy := doe - (365*yoe + yoe/4 - yoe/100)               // [0, 365]
	mp := (5*doy + 2) / 153                                // [0, 11], March = 0
	day = doy - (153*mp+2)/5 + 1                           // [1, 31]

	if mp < 10 {
		month = mp + 3
	} else {
		month = mp - 9
	}

	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}
