package handler

import (
	"context"
	"time"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const noteGenerationTimeout = 45 * time.Second

// NoteGenerator drafts calendar notes. Nil means only holiday notes are generated.
var NoteGenerator helper.NoteGenerator

type calendarView struct {
	From     string               `json:"from"`
	To       string               `json:"to"`
	Notes    []model.CalendarNote `json:"notes"`
	Holidays []model.Holiday      `json:"holidays"`
}

func holidaysInRange(from, to time.Time) ([]model.Holiday, error) {
	var stored []model.Holiday
	if err := database.DB.Where("date BETWEEN ? AND ?", from, to).Order("date ASC").Find(&stored).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(stored))
	for _, h := range stored {
		seen[h.Date.Format(constants.DATE_LAYOUT)+h.Name] = true
	}
	out := stored
	for _, h := range helper.HolidaysBetween(from, to) {
		if !seen[h.Date.Format(constants.DATE_LAYOUT)+h.Name] {
			out = append(out, h)
		}
	}
	return out, nil
}

// GetCalendar returns the notes and holidays of a date range, cached per range.
func GetCalendar(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.FilterCalendarNote)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	from, to, err := dateRange(filter.DateRange)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	if filter.From == "" && filter.To == "" {
		from, to = helper.Today(), helper.Today().AddDate(0, 0, 30)
	}

	key := helper.CacheKey(helper.TagCalendar, from.Format(constants.DATE_LAYOUT), to.Format(constants.DATE_LAYOUT), filter.Source)
	var view calendarView
	if helper.GetCached(c.UserContext(), key, &view) {
		return utils.SuccessResponse(c, fiber.StatusOK, view)
	}

	condition := database.DB.Where("note_date BETWEEN ? AND ?", from, to)
	if filter.Source != "" {
		condition = condition.Where("source = ?", filter.Source)
	}
	var notes []model.CalendarNote
	if err := condition.Order("note_date ASC, id ASC").Find(&notes).Error; err != nil {
		return failure(c, err)
	}
	holidays, err := holidaysInRange(from, to)
	if err != nil {
		return failure(c, err)
	}

	view = calendarView{
		From:     from.Format(constants.DATE_LAYOUT),
		To:       to.Format(constants.DATE_LAYOUT),
		Notes:    notes,
		Holidays: holidays,
	}
	helper.SetCached(c.UserContext(), key, view, dashboardCacheTTL)
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func CreateCalendarNote(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateCalendarNoteInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	date, err := helper.ParseDate(input.NoteDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	note := model.CalendarNote{
		NoteDate:    date,
		Title:       input.Title,
		Description: input.Description,
		Source:      model.NoteSourceManual,
		CreatedBy:   currentAccountId(c),
	}
	if err := database.DB.Create(&note).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "calendar_note", note.ID, nil)
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar)
	return utils.SuccessResponse(c, fiber.StatusCreated, note)
}

func UpdateCalendarNote(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateCalendarNoteInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	var note model.CalendarNote
	if err := db.First(&note, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}
	if input.NoteDate != nil {
		date, err := helper.ParseDate(*input.NoteDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		note.NoteDate = date
	}
	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Description != nil {
		note.Description = *input.Description
	}

	if err := db.Model(&note).Select("note_date", "title", "description").Updates(&note).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "calendar_note", note.ID, input)
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar)
	return utils.SuccessResponse(c, fiber.StatusOK, note)
}

func DeleteCalendarNote(c *fiber.Ctx) error {
	noteId := c.Locals("inputId").(uint)
	res := database.DB.Delete(&model.CalendarNote{}, noteId)
	if res.Error != nil {
		return failure(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, nil)
	}

	helper.WriteAudit(c, helper.AuditDelete, "calendar_note", noteId, nil)
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": noteId})
}

// GenerateCalendarNotes stores holiday notes for the range and, when a
// generator is configured, its suggestions. Notes that already exist for the
// same date and title are skipped. A generator failure still keeps the
// holiday notes.
func GenerateCalendarNotes(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.GenerateNotesInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	from, to, err := dateRange(model.DateRange{From: input.From, To: input.To})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	holidays, err := holidaysInRange(from, to)
	if err != nil {
		return failure(c, err)
	}
	var existing []model.CalendarNote
	if err := db.Where("note_date BETWEEN ? AND ?", from, to).Find(&existing).Error; err != nil {
		return failure(c, err)
	}

	notes := helper.AcceptSuggestions(helper.HolidayNotes(holidays), from, to, existing, model.NoteSourceHoliday)

	aiError := ""
	if NoteGenerator != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), noteGenerationTimeout)
		suggestions, err := NoteGenerator.Suggest(ctx, from, to, holidays, input.Context)
		cancel()
		if err != nil {
			zap.L().Warn("calendar note generation failed", zap.Error(err))
			aiError = err.Error()
		} else {
			notes = append(notes, helper.AcceptSuggestions(suggestions, from, to, append(existing, notes...), model.NoteSourceAI)...)
		}
	}

	createdBy := currentAccountId(c)
	for i := range notes {
		notes[i].CreatedBy = createdBy
	}
	if len(notes) > 0 {
		if err := db.CreateInBatches(&notes, 100).Error; err != nil {
			return failure(c, err)
		}
	}

	helper.WriteAudit(c, "generate", "calendar_note", 0, fiber.Map{
		"from":    input.From,
		"to":      input.To,
		"created": len(notes),
		"aiError": aiError,
	})
	helper.InvalidateCache(c.UserContext(), helper.TagCalendar)
	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"created": len(notes),
		"notes":   notes,
		"aiError": aiError,
	})
}
