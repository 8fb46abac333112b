package handler

import (
	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func GetAuditLogs(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.AuditFilter)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.AuditLog{})
	if filter.Entity != "" {
		condition = condition.Where("entity = ?", filter.Entity)
	}
	if filter.EntityId != nil {
		condition = condition.Where("entity_id = ?", *filter.EntityId)
	}
	if filter.Action != "" {
		condition = condition.Where("action = ?", filter.Action)
	}
	if filter.From != "" || filter.To != "" {
		from, to, err := dateRange(filter.DateRange)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		condition = condition.Where("created_at >= ? AND created_at < ?", from, to.AddDate(0, 0, 1))
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var logs []model.AuditLog
	if err := condition.Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       logs,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}
