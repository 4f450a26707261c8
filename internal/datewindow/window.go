// Package datewindow turns user supplied dates into the millisecond ranges
// used to select review log entries.
package datewindow

import (
	"time"
)

// DayMillis is the length of one day in milliseconds.
const DayMillis int64 = 24 * 60 * 60 * 1000

const dateLayout = "2006-01-02"

// Window is the half-open range [Start, End) of epoch milliseconds covering one
// local calendar day. The day begins at Rollover o'clock local time.
type Window struct {
	Day      time.Time
	Rollover int
	Start    int64
	End      int64
}

// NewWindow builds the window for the calendar day containing day, starting at
// the given rollover hour in day's location.
func NewWindow(day time.Time, rollover int) Window {
	y, m, d := day.Date()
	loc := day.Location()
	start := time.Date(y, m, d, rollover, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, rollover, 0, 0, 0, loc)
	return Window{
		Day:      time.Date(y, m, d, 0, 0, 0, 0, loc),
		Rollover: rollover,
		Start:    start.UnixMilli(),
		End:      end.UnixMilli(),
	}
}

// Contains reports whether ms falls inside the window.
func (w Window) Contains(ms int64) bool {
	return ms >= w.Start && ms < w.End
}

// String formats the window's calendar day as YYYY-MM-DD.
func (w Window) String() string {
	return w.Day.Format(dateLayout)
}

// Range pairs the window reviews are taken from with the one they move to.
type Range struct {
	Source      Window
	Destination Window
}

// OffsetDays is the whole number of calendar days from source to destination.
// Negative values move reviews into the past.
func (r Range) OffsetDays() int {
	return daysBetween(r.Source.Day, r.Destination.Day)
}

// OffsetMillis is OffsetDays expressed in milliseconds.
func (r Range) OffsetMillis() int64 {
	return int64(r.OffsetDays()) * DayMillis
}

// daysBetween counts calendar days from a to b independently of DST.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
