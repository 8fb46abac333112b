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
)

func GetMe(c *fiber.Ctx) error {
	claim, account, err := helper.GetInfoAccountFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"account":     account,
		"permissions": helper.PermissionsFor(claim.Role),
	})
}

func GetAccounts(c *fiber.Ctx) error {
	db := database.DB
	filterInput, ok := c.Locals("filter").(model.FilterAccount)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.Account{})
	if filterInput.SearchKey != "" {
		pattern := likePattern(filterInput.SearchKey)
		condition = condition.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", pattern, pattern)
	}
	if filterInput.Active != nil {
		condition = condition.Where("active = ?", *filterInput.Active)
	}
	if filterInput.Role != nil {
		condition = condition.Where("role = ?", *filterInput.Role)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filterInput.Limit, filterInput.Page)

	var accounts []model.Account
	if err := condition.Order("id ASC").Find(&accounts).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       accounts,
		Limit:      filterInput.Limit,
		Page:       filterInput.Page,
		TotalCount: totalCount,
	})
}

func CreateAccount(c *fiber.Ctx) error {
	db := database.DB
	accountInput, ok := c.Locals("input").(model.CreateAccountInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	existing, err := helper.GetUserByUsername(accountInput.Username)
	if err != nil {
		return failure(c, err)
	}
	if existing != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.USERNAME_EXISTS, errors.New("username taken"))
	}

	hash, err := helper.HashPassword(accountInput.Password)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}

	newAccount := new(model.Account)
	copier.Copy(newAccount, &accountInput)
	newAccount.Password = hash
	newAccount.Active = true
	if err := db.Create(newAccount).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "account", newAccount.ID, fiber.Map{"username": newAccount.Username, "role": newAccount.Role})
	return utils.SuccessResponse(c, fiber.StatusCreated, newAccount)
}

func SetAccountActive(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.ActiveAccountInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	accountId := c.Locals("inputId").(uint)

	if accountId == currentClaim(c).AccountId && !*input.Active {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, errors.New("cannot deactivate your own account"))
	}

	var account model.Account
	if err := db.First(&account, accountId).Error; err != nil {
		return failure(c, err)
	}
	if err := db.Model(&account).Update("active", *input.Active).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "account", account.ID, fiber.Map{"active": *input.Active})
	return utils.SuccessResponse(c, fiber.StatusOK, account)
}

func ChangePassword(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.ChangePasswordInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	_, account, err := helper.GetInfoAccountFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
	}
	if !helper.CheckPasswordHash(input.CurrentPassword, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.INVALID_PASSWORD, errors.New("currentPassword invalid"))
	}
	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err)
	}
	if err := db.Model(account).Update("password", hash).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "account", account.ID, fiber.Map{"passwordChanged": true})
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "password updated"})
}
