package helper

import (
	"sort"
	"time"

	"venue_manager/model"
)

// EasterSunday uses the anonymous Gregorian algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func firstWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	d := date(year, month, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	d := date(year, month+1, 0)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// nextWorkingDay moves a weekend date forward to Monday; taken skips days already used.
func nextWorkingDay(d time.Time, taken map[time.Time]bool) time.Time {
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday || taken[d] {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// UKHolidays lists England & Wales bank holidays for a year, with weekend
// substitute days, plus the trade observances a venue plans around.
// Government one-off holidays are not included.
func UKHolidays(year int) []model.Holiday {
	var out []model.Holiday
	bank := func(name string, d time.Time) {
		out = append(out, model.Holiday{Name: name, Date: d, Type: model.HolidayBank})
	}
	observance := func(name string, d time.Time) {
		out = append(out, model.Holiday{Name: name, Date: d, Type: model.HolidayObservance})
	}

	taken := map[time.Time]bool{}
	newYear := date(year, time.January, 1)
	if sub := nextWorkingDay(newYear, taken); !sub.Equal(newYear) {
		bank("New Year's Day (substitute day)", sub)
	} else {
		bank("New Year's Day", newYear)
	}

	easter := EasterSunday(year)
	bank("Good Friday", easter.AddDate(0, 0, -2))
	bank("Easter Monday", easter.AddDate(0, 0, 1))
	bank("Early May bank holiday", firstWeekday(year, time.May, time.Monday))
	bank("Spring bank holiday", lastWeekday(year, time.May, time.Monday))
	bank("Summer bank holiday", lastWeekday(year, time.August, time.Monday))

	christmas := date(year, time.December, 25)
	boxing := date(year, time.December, 26)
	var xmasDay, boxingDay time.Time
	if boxing.Weekday() != time.Saturday && boxing.Weekday() != time.Sunday {
		// Christmas on a Sunday: Boxing Day keeps Monday and Christmas moves to Tuesday.
		boxingDay = boxing
		taken[boxing] = true
		xmasDay = nextWorkingDay(christmas, taken)
	} else {
		xmasDay = nextWorkingDay(christmas, taken)
		taken[xmasDay] = true
		boxingDay = nextWorkingDay(boxing, taken)
	}
	if xmasDay.Equal(christmas) {
		bank("Christmas Day", christmas)
	} else {
		bank("Christmas Day (substitute day)", xmasDay)
	}
	if boxingDay.Equal(boxing) {
		bank("Boxing Day", boxing)
	} else {
		bank("Boxing Day (substitute day)", boxingDay)
	}

	observance("Valentine's Day", date(year, time.February, 14))
	observance("Shrove Tuesday", easter.AddDate(0, 0, -47))
	observance("Mothering Sunday", easter.AddDate(0, 0, -21))
	observance("St Patrick's Day", date(year, time.March, 17))
	observance("Father's Day", firstWeekday(year, time.June, time.Sunday).AddDate(0, 0, 14))
	observance("Halloween", date(year, time.October, 31))
	observance("Bonfire Night", date(year, time.November, 5))
	observance("Christmas Eve", date(year, time.December, 24))
	observance("New Year's Eve", date(year, time.December, 31))

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// HolidaysBetween collects UKHolidays for every year touched by the range, inclusive.
func HolidaysBetween(from, to time.Time) []model.Holiday {
	from, to = DateOnly(from), DateOnly(to)
	var out []model.Holiday
	for y := from.Year(); y <= to.Year(); y++ {
		for _, h := range UKHolidays(y) {
			if !h.Date.Before(from) && !h.Date.After(to) {
				out = append(out, h)
			}
		}
	}
	return out
}
