package helper

import (
	"testing"
	"time"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bankHolidays(year int) map[string]string {
	out := map[string]string{}
	for _, h := range UKHolidays(year) {
		if h.Type == model.HolidayBank {
			out[h.Name] = h.Date.Format(time.DateOnly)
		}
	}
	return out
}

func TestEasterSunday(t *testing.T) {
	for year, want := range map[int]string{
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
		2038: "2038-04-25",
	} {
		assert.Equal(t, want, EasterSunday(year).Format(time.DateOnly))
	}
}

func TestUKHolidaySubstituteDays(t *testing.T) {
	t.Run("boxing day on saturday", func(t *testing.T) {
		got := bankHolidays(2026)
		assert.Equal(t, "2026-12-25", got["Christmas Day"])
		assert.Equal(t, "2026-12-28", got["Boxing Day (substitute day)"])
		assert.Equal(t, "2026-04-03", got["Good Friday"])
		assert.Equal(t, "2026-05-04", got["Early May bank holiday"])
		assert.Equal(t, "2026-05-25", got["Spring bank holiday"])
		assert.Equal(t, "2026-08-31", got["Summer bank holiday"])
	})

	t.Run("christmas on saturday", func(t *testing.T) {
		got := bankHolidays(2027)
		assert.Equal(t, "2027-12-27", got["Christmas Day (substitute day)"])
		assert.Equal(t, "2027-12-28", got["Boxing Day (substitute day)"])
	})

	t.Run("christmas on sunday", func(t *testing.T) {
		got := bankHolidays(2022)
		assert.Equal(t, "2022-12-26", got["Boxing Day"])
		assert.Equal(t, "2022-12-27", got["Christmas Day (substitute day)"])
	})

	t.Run("new year on saturday", func(t *testing.T) {
		got := bankHolidays(2028)
		assert.Equal(t, "2028-01-03", got["New Year's Day (substitute day)"])
	})

	assert.Len(t, bankHolidays(2026), 8)
}

func TestHolidaysBetweenSpansYears(t *testing.T) {
	got := HolidaysBetween(day("2026-12-20"), day("2027-01-05"))
	var names []string
	for _, h := range got {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{
		"Christmas Eve", "Christmas Day", "Boxing Day (substitute day)", "New Year's Eve", "New Year's Day",
	}, names)
}

func TestClassifyDay(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.Holiday{Name: "Refit", Date: day("2026-07-07"), Type: model.HolidayClosure}).Error)

	info := ClassifyDay(db, day("2026-12-28"))
	assert.True(t, info.IsHoliday)
	assert.Equal(t, 1.75, SpaceHireMultiplier(info))

	info = ClassifyDay(db, day("2026-07-11"))
	assert.True(t, info.IsWeekend)
	assert.Equal(t, 1.5, SpaceHireMultiplier(info))

	closed, name := IsVenueClosed(db, day("2026-07-07"))
	assert.True(t, closed)
	assert.Equal(t, "Refit", name)
}

func TestSpaceHirePrice(t *testing.T) {
	weekday := ClassifyDay(nil, day("2026-07-08"))
	assert.Equal(t, 300.0, SpaceHirePrice("Function Room", weekday, "18:00", "22:00"))
	assert.Equal(t, 200.0, SpaceHirePrice("unknown", weekday, "22:00", "02:00"))

	friday := ClassifyDay(nil, day("2026-07-10"))
	assert.Equal(t, 100.0, SpaceHirePrice("snug", friday, "19:00", "21:00"))
}
