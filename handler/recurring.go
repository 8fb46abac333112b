package handler

import (
	"time"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const defaultSchedulePreview = 12

func GetRecurringInvoices(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterRecurringInvoice)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.RecurringInvoice{})
	if filter.CustomerId != nil {
		condition = condition.Where("customer_id = ?", *filter.CustomerId)
	}
	if filter.Active != nil {
		condition = condition.Where("is_active = ?", *filter.Active)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var templates []model.RecurringInvoice
	if err := condition.Preload("Customer").Order("next_run_date ASC").Find(&templates).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       templates,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func loadRecurringInvoice(db *gorm.DB, id uint) (*model.RecurringInvoice, error) {
	var tpl model.RecurringInvoice
	err := db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&tpl, id).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

func GetRecurringInvoice(c *fiber.Ctx) error {
	tpl, err := loadRecurringInvoice(database.DB, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tpl)
}

// CreateRecurringInvoice stores a template whose first run is its start date.
func CreateRecurringInvoice(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreateRecurringInvoiceInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	start, err := helper.ParseDate(input.StartDate)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	var end *time.Time
	if input.EndDate != "" {
		d, err := helper.ParseDate(input.EndDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		end = &d
	}
	if _, err := helper.Occurrence(start, input.Frequency, input.Interval, 1); err != nil {
		return failure(c, err)
	}
	dueDays := input.DaysUntilDue
	if dueDays == 0 {
		dueDays = constants.DEFAULT_DUE_DAY
	}

	tpl := model.RecurringInvoice{
		CustomerId:   input.CustomerId,
		Title:        input.Title,
		Frequency:    input.Frequency,
		Interval:     input.Interval,
		StartDate:    start,
		EndDate:      end,
		NextRunDate:  start,
		DaysUntilDue: dueDays,
		IsActive:     true,
		Notes:        input.Notes,
		Items:        helper.BuildRecurringLines(input.Items),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.Customer{}, tpl.CustomerId).Error; err != nil {
			return err
		}
		return tx.Create(&tpl).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "recurring_invoice", tpl.ID, fiber.Map{"frequency": tpl.Frequency, "interval": tpl.Interval})
	helper.InvalidateCache(c.UserContext(), helper.TagInvoices)
	return utils.SuccessResponse(c, fiber.StatusCreated, tpl)
}

func UpdateRecurringInvoice(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateRecurringInvoiceInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	templateId := c.Locals("inputId").(uint)

	tpl, err := loadRecurringInvoice(db, templateId)
	if err != nil {
		return failure(c, err)
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.EndDate != nil {
		if *input.EndDate == "" {
			updates["end_date"] = nil
		} else {
			end, err := helper.ParseDate(*input.EndDate)
			if err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
			}
			if end.Before(tpl.StartDate) {
				return failure(c, helper.ErrInvalidSchedule)
			}
			updates["end_date"] = end
		}
	}
	if input.DaysUntilDue != nil {
		updates["days_until_due"] = *input.DaysUntilDue
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
		// Reactivated templates resume from the next date on or after today, not from the backlog.
		if *input.IsActive && !tpl.IsActive && tpl.NextRunDate.Before(helper.Today()) {
			next, err := helper.NextRunAfter(tpl.StartDate, tpl.Frequency, tpl.Interval, helper.Today().AddDate(0, 0, -1))
			if err != nil {
				return failure(c, err)
			}
			updates["next_run_date"] = next
		}
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) > 0 {
		if err := db.Model(tpl).Updates(updates).Error; err != nil {
			return failure(c, err)
		}
	}

	helper.WriteAudit(c, helper.AuditUpdate, "recurring_invoice", tpl.ID, input)
	tpl, err = loadRecurringInvoice(db, templateId)
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, tpl)
}

func DeleteRecurringInvoice(c *fiber.Ctx) error {
	db := database.DB
	templateId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		var tpl model.RecurringInvoice
		if err := tx.First(&tpl, templateId).Error; err != nil {
			return err
		}
		if err := tx.Where("recurring_invoice_id = ?", tpl.ID).Delete(&model.RecurringInvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tpl).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditDelete, "recurring_invoice", templateId, nil)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": templateId})
}

// GetRecurringSchedule previews the upcoming run dates of a template.
func GetRecurringSchedule(c *fiber.Ctx) error {
	db := database.DB
	query, ok := c.Locals("filter").(model.ScheduleQuery)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	var tpl model.RecurringInvoice
	if err := db.First(&tpl, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}

	from := tpl.NextRunDate
	if query.From != "" {
		d, err := helper.ParseDate(query.From)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		from = d
	}
	var until time.Time
	if tpl.EndDate != nil {
		until = *tpl.EndDate
	}
	count := query.Count
	if count == 0 {
		count = defaultSchedulePreview
	}

	dates, err := helper.GenerateSchedule(tpl.StartDate, tpl.Frequency, tpl.Interval, from, until, count)
	if err != nil {
		return failure(c, err)
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(constants.DATE_LAYOUT))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": tpl.ID, "dates": out})
}

// RunRecurringInvoices issues every invoice that is due now instead of waiting for the nightly job.
func RunRecurringInvoices(c *fiber.Ctx) error {
	created, err := helper.GenerateDueRecurringInvoices(database.DB, helper.Today())
	if err != nil {
		return failure(c, err)
	}
	if created > 0 {
		helper.InvalidateCache(c.UserContext(), helper.TagInvoices, helper.TagDashboard)
	}
	helper.WriteAudit(c, "run", "recurring_invoice", 0, fiber.Map{"created": created})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"created": created})
}
