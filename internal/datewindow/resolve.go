package datewindow

import (
	"strings"
	"time"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
)

const (
	KeywordToday     = "today"
	KeywordYesterday = "yesterday"

	compactLayout = "20060102"
)

// Options contains the raw date expressions and the clock used to resolve them.
type Options struct {
	From     string // YYYYMMDD, YYYY-MM-DD, "today" or "yesterday"; empty means today
	To       string // same formats; empty means the day before From
	Rollover int    // hour at which a new day begins
	Location *time.Location
	Now      func() time.Time
}

// Today returns the current day in loc, honouring the rollover hour: before
// the rollover the previous calendar day is still current.
func Today(now time.Time, loc *time.Location, rollover int) time.Time {
	local := now.In(loc).Add(-time.Duration(rollover) * time.Hour)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate converts a date expression into local midnight of that day.
func ParseDate(value string, today time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case KeywordToday:
		return today, nil
	case KeywordYesterday:
		return today.AddDate(0, 0, -1), nil
	}

	for _, layout := range []string{dateLayout, compactLayout} {
		if len(trimmed) != len(layout) {
			continue
		}
		if t, err := time.ParseInLocation(layout, trimmed, today.Location()); err == nil {
			return t, nil
		}
	}

	return time.Time{}, apperr.New(apperr.KindInvalidDateFormat,
		"invalid date %q (use YYYY-MM-DD, YYYYMMDD, %q or %q)", value, KeywordToday, KeywordYesterday)
}

// Resolve produces the source and destination windows for opts.
func Resolve(opts Options) (Range, error) {
	today, err := opts.today()
	if err != nil {
		return Range{}, err
	}

	from := today
	if strings.TrimSpace(opts.From) != "" {
		if from, err = ParseDate(opts.From, today); err != nil {
			return Range{}, err
		}
	}

	to := from.AddDate(0, 0, -1)
	if strings.TrimSpace(opts.To) != "" {
		if to, err = ParseDate(opts.To, today); err != nil {
			return Range{}, err
		}
	}

	switch {
	case from.After(today):
		return Range{}, apperr.New(apperr.KindInvalidDateRange,
			"source day %s is in the future", from.Format(dateLayout))
	case to.After(today):
		return Range{}, apperr.New(apperr.KindInvalidDateRange,
			"destination day %s is in the future", to.Format(dateLayout))
	case to.Equal(from):
		return Range{}, apperr.New(apperr.KindInvalidDateRange,
			"source and destination are the same day (%s)", from.Format(dateLayout))
	}

	return Range{
		Source:      NewWindow(from, opts.Rollover),
		Destination: NewWindow(to, opts.Rollover),
	}, nil
}

// today validates the rollover hour and returns the current day for opts.
func (opts Options) today() (time.Time, error) {
	if opts.Rollover < 0 || opts.Rollover > 23 {
		return time.Time{}, apperr.New(apperr.KindInvalidOption, "rollover hour must be between 0 and 23, got %d", opts.Rollover)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	return Today(now(), loc, opts.Rollover), nil
}

// ResolveDay returns the window of the single day opts.From names, defaulting
// to today. Future days are rejected.
func ResolveDay(opts Options) (Window, error) {
	today, err := opts.today()
	if err != nil {
		return Window{}, err
	}

	day := today
	if strings.TrimSpace(opts.From) != "" {
		if day, err = ParseDate(opts.From, today); err != nil {
			return Window{}, err
		}
	}
	if day.After(today) {
		return Window{}, apperr.New(apperr.KindInvalidDateRange, "day %s is in the future", day.Format(dateLayout))
	}
	return NewWindow(day, opts.Rollover), nil
}
