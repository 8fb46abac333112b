package helper

import (
	"time"

	"venue_manager/config"

	"github.com/jonboulle/clockwork"
)

// Clock is swapped for a fake clock in tests.
var Clock clockwork.Clock = clockwork.NewRealClock()

func VenueLocation() *time.Location {
	return config.Get().Location()
}

// Now returns the current time in the venue's timezone.
func Now() time.Time {
	return Clock.Now().In(VenueLocation())
}

// DateOnly drops the clock part and pins the calendar date to UTC midnight,
// the representation used for every date column.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the venue's current calendar date.
func Today() time.Time {
	return DateOnly(Now())
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// CombineDateTime places an "HH:MM" clock time on a calendar date in the venue timezone.
func CombineDateTime(date time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, VenueLocation()), nil
}

// MinutesOfDay converts "HH:MM" to minutes after midnight.
func MinutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
