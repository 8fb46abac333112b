package handler

import (
	"errors"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func GetTables(c *fiber.Ctx) error {
	ctx := c.UserContext()
	cacheKey := helper.CacheKey(helper.TagTables, "all")

	var tables []model.Table
	if helper.GetCached(ctx, cacheKey, &tables) {
		return utils.SuccessResponse(c, fiber.StatusOK, tables)
	}
	if err := database.DB.Order("area ASC, capacity ASC, number ASC").Find(&tables).Error; err != nil {
		return failure(c, err)
	}
	helper.SetCached(ctx, cacheKey, tables, tablesCacheTTL)
	return utils.SuccessResponse(c, fiber.StatusOK, tables)
}

func tableNumberTaken(db *gorm.DB, number string, excludeId uint) bool {
	var count int64
	db.Model(&model.Table{}).Where("number = ? AND id <> ?", number, excludeId).Count(&count)
	return count > 0
}

func CreateTable(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreateTableInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	if tableNumberTaken(db, input.Number, 0) {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.TABLE_NUMBER_EXISTS, errors.New("duplicate table number"))
	}

	table := model.Table{IsActive: true}
	copier.Copy(&table, &input)
	if err := db.Create(&table).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "table", table.ID, input)
	helper.InvalidateCache(c.UserContext(), helper.TagTables, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusCreated, table)
}

func UpdateTable(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateTableInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	tableId := c.Locals("inputId").(uint)

	var table model.Table
	if err := db.First(&table, tableId).Error; err != nil {
		return failure(c, err)
	}
	if input.Number != nil && tableNumberTaken(db, *input.Number, table.ID) {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.TABLE_NUMBER_EXISTS, errors.New("duplicate table number"))
	}

	updated := table
	copier.CopyWithOption(&updated, &input, copier.Option{IgnoreEmpty: true})
	if updated.MinParty > updated.Capacity {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, errors.New("minParty cannot exceed capacity"))
	}
	// Taking a table out of service is refused while it still holds bookings.
	if table.IsActive && !updated.IsActive {
		active, err := helper.CountActiveBookings(db, table.ID, helper.Today())
		if err != nil {
			return failure(c, err)
		}
		if active > 0 {
			return failure(c, helper.ErrTableHasActiveBookings)
		}
	}

	if err := db.Model(&table).Select("number", "capacity", "min_party", "area", "is_active").Updates(&updated).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "table", table.ID, input)
	helper.InvalidateCache(c.UserContext(), helper.TagTables)
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}

// DeleteTable refuses with 409 while pending, confirmed or seated bookings from today on still use the table.
func DeleteTable(c *fiber.Ctx) error {
	db := database.DB
	tableId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		var table model.Table
		if err := tx.First(&table, tableId).Error; err != nil {
			return err
		}
		active, err := helper.CountActiveBookings(tx, table.ID, helper.Today())
		if err != nil {
			return err
		}
		if active > 0 {
			return helper.ErrTableHasActiveBookings
		}
		return tx.Delete(&table).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditDelete, "table", tableId, nil)
	helper.InvalidateCache(c.UserContext(), helper.TagTables, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": tableId})
}
