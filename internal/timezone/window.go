package timezone

import (
	"time"

	"go.uber.org/zap"
)

// DayWindow is one local calendar day expressed as UTC instants. Start is
// local midnight, End is 23:59:59.999 local; both bounds are inclusive.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// WindowForDate returns the day window of the local calendar date that ref
// falls on in the named zone. Windows are computed fresh on every call, so a
// DST transition inside the day yields the real 23- or 25-hour span.
func WindowForDate(ref time.Time, tzName string) DayWindow {
	loc := loadLocation(tzName)
	year, month, day := ref.In(loc).Date()
	return windowIn(year, month, day, loc)
}

// WindowForCalendarDate returns the day window of a literal calendar date in
// the named zone, for callers that start from a date string rather than an
// instant.
func WindowForCalendarDate(year int, month time.Month, day int, tzName string) DayWindow {
	return windowIn(year, month, day, loadLocation(tzName))
}

func windowIn(year int, month time.Month, day int, loc *time.Location) DayWindow {
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	end := time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), loc)
	return DayWindow{Start: start.UTC(), End: end.UTC()}
}

// loadLocation resolves an IANA name, degrading to UTC for empty or unknown
// names. Bad preferences must never stall a batch.
func loadLocation(tzName string) *time.Location {
	if tzName == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		zap.L().Named("timezone.window").Debug("unknown timezone name, assuming UTC",
			zap.String("timezone", tzName),
		)
		return time.UTC
	}
	return loc
}
