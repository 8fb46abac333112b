package helper

import (
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
)

type DayInfo struct {
	Date        time.Time
	Weekday     time.Weekday
	IsWeekend   bool
	IsFriday    bool
	IsHoliday   bool
	IsClosed    bool
	DayTypes    []string
	HolidayName string
}

// ClassifyDay looks at the weekday, the computed bank holidays and the venue's
// own holiday table.
func ClassifyDay(db *gorm.DB, date time.Time) *DayInfo {
	info := &DayInfo{
		Date:     DateOnly(date),
		Weekday:  date.Weekday(),
		DayTypes: []string{},
	}

	classifyWeekday(info)
	checkBankHoliday(info)
	if db != nil {
		checkVenueHoliday(db, info)
	}
	return info
}

func classifyWeekday(info *DayInfo) {
	switch info.Weekday {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		info.DayTypes = append(info.DayTypes, "weekday")
	case time.Friday:
		info.DayTypes = append(info.DayTypes, "friday", "weekday")
		info.IsFriday = true
	case time.Saturday:
		info.DayTypes = append(info.DayTypes, "saturday", "weekend")
		info.IsWeekend = true
	case time.Sunday:
		info.DayTypes = append(info.DayTypes, "sunday", "weekend")
		info.IsWeekend = true
	}
}

func checkBankHoliday(info *DayInfo) {
	for _, h := range UKHolidays(info.Date.Year()) {
		if h.Type == model.HolidayBank && h.Date.Equal(info.Date) {
			info.IsHoliday = true
			info.HolidayName = h.Name
			info.DayTypes = append(info.DayTypes, "holiday")
			return
		}
	}
}

func checkVenueHoliday(db *gorm.DB, info *DayInfo) {
	var holidays []model.Holiday
	if err := db.Where("date = ? OR is_recurring = ?", info.Date, true).Find(&holidays).Error; err != nil {
		return
	}
	for _, h := range holidays {
		if !holidayMatches(h, info.Date) {
			continue
		}
		switch h.Type {
		case model.HolidayClosure:
			info.IsClosed = true
			info.DayTypes = append(info.DayTypes, "closed")
			info.HolidayName = h.Name
		case model.HolidayBank:
			if !info.IsHoliday {
				info.IsHoliday = true
				info.HolidayName = h.Name
				info.DayTypes = append(info.DayTypes, "holiday")
			}
		}
	}
}

// holidayMatches compares month and day for recurring entries, the full date otherwise.
func holidayMatches(h model.Holiday, d time.Time) bool {
	hd := DateOnly(h.Date)
	if h.IsRecurring {
		return hd.Month() == d.Month() && hd.Day() == d.Day()
	}
	return hd.Equal(d)
}

// IsVenueClosed reports whether a closure is recorded for the date.
func IsVenueClosed(db *gorm.DB, date time.Time) (bool, string) {
	info := &DayInfo{Date: DateOnly(date)}
	checkVenueHoliday(db, info)
	return info.IsClosed, info.HolidayName
}
