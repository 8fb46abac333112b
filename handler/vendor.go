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

var errVendorInUse = errors.New("vendor referenced by booking items")

func GetVendors(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterVendor)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.Vendor{})
	if filter.SearchKey != "" {
		pattern := likePattern(filter.SearchKey)
		condition = condition.Where("LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ?", pattern, pattern)
	}
	if filter.ServiceType != "" {
		condition = condition.Where("service_type = ?", filter.ServiceType)
	}
	if filter.Active != nil {
		condition = condition.Where("is_active = ?", *filter.Active)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var vendors []model.Vendor
	if err := condition.Order("name ASC").Find(&vendors).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       vendors,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetVendor(c *fiber.Ctx) error {
	var vendor model.Vendor
	if err := database.DB.First(&vendor, c.Locals("inputId").(uint)).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, vendor)
}

func CreateVendor(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreateVendorInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	vendor := model.Vendor{IsActive: true}
	copier.Copy(&vendor, &input)
	vendor.Phone = helper.NormalisePhone(input.Phone)

	err := db.Transaction(func(tx *gorm.DB) error {
		vendor.Slug = helper.GenerateUniqueVendorSlug(tx, vendor.Name, 0)
		return tx.Create(&vendor).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "vendor", vendor.ID, fiber.Map{"name": vendor.Name})
	helper.InvalidateCache(c.UserContext(), helper.TagVendors)
	return utils.SuccessResponse(c, fiber.StatusCreated, vendor)
}

func UpdateVendor(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateVendorInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	vendorId := c.Locals("inputId").(uint)

	var vendor model.Vendor
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&vendor, vendorId).Error; err != nil {
			return err
		}
		nameChanged := input.Name != nil && *input.Name != vendor.Name
		copier.CopyWithOption(&vendor, &input, copier.Option{IgnoreEmpty: true})
		if input.Phone != nil {
			vendor.Phone = helper.NormalisePhone(*input.Phone)
		}
		if nameChanged {
			vendor.Slug = helper.GenerateUniqueVendorSlug(tx, vendor.Name, vendor.ID)
		}
		return tx.Model(&vendor).
			Select("name", "slug", "service_type", "contact_name", "email", "phone", "is_active", "notes").
			Updates(&vendor).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "vendor", vendor.ID, input)
	helper.InvalidateCache(c.UserContext(), helper.TagVendors)
	return utils.SuccessResponse(c, fiber.StatusOK, vendor)
}

// DeleteVendor is refused while any booking item still names the vendor.
func DeleteVendor(c *fiber.Ctx) error {
	db := database.DB
	vendorId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		var vendor model.Vendor
		if err := tx.First(&vendor, vendorId).Error; err != nil {
			return err
		}
		var used int64
		if err := tx.Model(&model.PrivateBookingItem{}).Where("vendor_id = ?", vendor.ID).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return errVendorInUse
		}
		return tx.Delete(&vendor).Error
	})
	if errors.Is(err, errVendorInUse) {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.VENDOR_IN_USE, err)
	}
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditDelete, "vendor", vendorId, nil)
	helper.InvalidateCache(c.UserContext(), helper.TagVendors)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": vendorId})
}
