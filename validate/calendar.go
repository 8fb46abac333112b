package validate

import (
	"errors"
	"fmt"
	"time"

	"venue_manager/constants"
	"venue_manager/helper"
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateCalendarNote() fiber.Handler { return Body[model.CreateCalendarNoteInput]() }
func UpdateCalendarNote() fiber.Handler { return Body[model.UpdateCalendarNoteInput]() }
func FilterCalendarNote() fiber.Handler { return Query[model.FilterCalendarNote]() }

func GenerateNotes() fiber.Handler {
	return Body(func(in *model.GenerateNotesInput) error {
		from, _ := time.Parse(constants.DATE_LAYOUT, in.From)
		to, _ := time.Parse(constants.DATE_LAYOUT, in.To)
		if to.Before(from) {
			return errors.New("to must not be before from")
		}
		if days := int(to.Sub(from).Hours()/24) + 1; days > helper.MaxCalendarRangeDays {
			return fmt.Errorf("%s (got %d)", constants.CALENDAR_RANGE_LIMIT, days)
		}
		return nil
	})
}

func CreateHoliday() fiber.Handler { return Body[model.CreateHolidayInput]() }
func UpdateHoliday() fiber.Handler { return Body[model.UpdateHolidayInput]() }
func FilterHoliday() fiber.Handler { return Query[model.HolidayFilter]() }
func DateRange() fiber.Handler { return Query[model.DateRange]() }
