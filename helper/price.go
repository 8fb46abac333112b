package helper

import "strings"

// Space hire rates per hour before the day multiplier.
var SpaceHourlyRates = map[string]float64{
	"function room": 75,
	"garden":        60,
	"snug":          40,
	"whole venue":   250,
}

const defaultHourlyRate = 50.0

// SpaceHireMultiplier weights the hire price by the kind of day.
func SpaceHireMultiplier(info *DayInfo) float64 {
	switch {
	case info.IsHoliday:
		return 1.75
	case info.IsWeekend:
		return 1.5
	case info.IsFriday:
		return 1.25
	}
	return 1.0
}

// SpaceHirePrice prices a space for the booked hours. An end time at or before
// the start is taken to run past midnight.
func SpaceHirePrice(space string, info *DayInfo, startTime, endTime string) float64 {
	start, err := MinutesOfDay(startTime)
	if err != nil {
		return 0
	}
	end, err := MinutesOfDay(endTime)
	if err != nil {
		return 0
	}
	if end <= start {
		end += 24 * 60
	}

	rate, ok := SpaceHourlyRates[strings.ToLower(strings.TrimSpace(space))]
	if !ok {
		rate = defaultHourlyRate
	}
	hours := float64(end-start) / 60
	return Round2(rate * hours * SpaceHireMultiplier(info))
}
