package handler

import (
	"strconv"
	"time"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func GetHolidays(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.HolidayFilter)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	db := database.DB.Model(&model.Holiday{})
	if filter.Type != nil {
		db = db.Where("type = ?", *filter.Type)
	}
	if filter.Year != nil {
		start := time.Date(*filter.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, -1)
		db = db.Where("date BETWEEN ? AND ?", start, end)
	}

	var total int64
	db.Count(&total)

	db = utils.ApplyPagination(db, filter.Limit, filter.Page)
	var holidays []model.Holiday
	if err := db.Order("date ASC").Find(&holidays).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       holidays,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

// GetBankHolidays lists the computed UK bank holidays of a year without touching the table.
func GetBankHolidays(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1900 || year > 2200 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, helper.UKHolidays(year))
}

func CreateHoliday(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateHolidayInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	date, err := helper.ParseDate(input.Date)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	holiday := model.Holiday{Name: input.Name, Date: date, Type: input.Type}
	if input.IsRecurring != nil {
		holiday.IsRecurring = *input.IsRecurring
	}
	if err := database.DB.Create(&holiday).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "holiday", holiday.ID, fiber.Map{"name": holiday.Name, "type": holiday.Type})
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar, helper.TagBookings)
	return utils.SuccessResponse(c, fiber.StatusCreated, holiday)
}

func UpdateHoliday(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateHolidayInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	var holiday model.Holiday
	if err := database.DB.First(&holiday, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}

	if input.Name != nil {
		holiday.Name = *input.Name
	}
	if input.Date != nil {
		date, err := helper.ParseDate(*input.Date)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		holiday.Date = date
	}
	if input.Type != nil {
		holiday.Type = *input.Type
	}
	if input.IsRecurring != nil {
		holiday.IsRecurring = *input.IsRecurring
	}

	if err := database.DB.Save(&holiday).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "holiday", holiday.ID, input)
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar, helper.TagBookings)
	return utils.SuccessResponse(c, fiber.StatusOK, holiday)
}

func DeleteHoliday(c *fiber.Ctx) error {
	holidayId := c.Locals("inputId").(uint)
	var holiday model.Holiday
	if err := database.DB.First(&holiday, holidayId).Error; err != nil {
		return failure(c, err)
	}
	if err := database.DB.Delete(&holiday).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditDelete, "holiday", holiday.ID, fiber.Map{"name": holiday.Name})
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar, helper.TagBookings)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": holiday.ID})
}

// SeedBankHolidays stores the UK bank holidays of a year, skipping ones already present.
func SeedBankHolidays(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1900 || year > 2200 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	created := database.SeedHolidays(database.DB, helper.UKHolidays(year))

	helper.WriteAudit(c, "seed", "holiday", 0, fiber.Map{"year": year, "created": created})
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar, helper.TagBookings)
	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{"year": year, "created": created})
}
