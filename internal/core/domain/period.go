package domain

import (
	"math"
	"time"
)

const markerLayout = "2006-01-02"

// DayStart returns local midnight of the day containing t.
func DayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// WeekStart returns the most recent Sunday 00:00 local at or before t.
// Weeks run Sunday to Saturday.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := DayStart(t, loc)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// PeriodStart returns the start of the period containing t, which is also
// the most recent elapsed reset boundary.
func PeriodStart(p Period, t time.Time, loc *time.Location) time.Time {
	if p == PeriodWeekly {
		return WeekStart(t, loc)
	}
	return DayStart(t, loc)
}

// Marker renders the period marker string for the period containing t.
// Daily markers are the local date; weekly markers are the date of the
// week's Sunday start.
func Marker(p Period, t time.Time, loc *time.Location) string {
	return PeriodStart(p, t, loc).Format(markerLayout)
}

// ElapsedBoundaries counts how many reset boundaries lie in (from, to].
// Both endpoints are settled to their period start first, so partial
// periods never count. Used to size the decay penalty.
func ElapsedBoundaries(p Period, from, to time.Time, loc *time.Location) int {
	start := PeriodStart(p, from, loc)
	end := PeriodStart(p, to, loc)
	if !end.After(start) {
		return 0
	}

	// Rounding absorbs DST shifts of an hour either way.
	days := int(math.Round(end.Sub(start).Hours() / 24))
	if p == PeriodWeekly {
		return days / 7
	}
	return days
}
