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

func GetCustomers(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterCustomer)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.Customer{})
	if filter.SearchKey != "" {
		pattern := likePattern(filter.SearchKey)
		phone := "%" + helper.NormalisePhone(filter.SearchKey) + "%"
		condition = condition.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, phone)
	}
	if filter.SmsOptIn != nil {
		condition = condition.Where("sms_opt_in = ?", *filter.SmsOptIn)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var customers []model.Customer
	if err := condition.Order("last_name ASC, first_name ASC").Find(&customers).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       customers,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

// GetCustomer returns the customer with recent bookings and loyalty membership.
func GetCustomer(c *fiber.Ctx) error {
	db := database.DB
	customerId := c.Locals("inputId").(uint)

	var customer model.Customer
	if err := db.First(&customer, customerId).Error; err != nil {
		return failure(c, err)
	}

	var bookings []model.TableBooking
	db.Where("customer_id = ?", customer.ID).Order("booking_date DESC").Limit(10).Find(&bookings)

	var events []model.PrivateBooking
	db.Where("customer_id = ?", customer.ID).Order("event_date DESC").Limit(10).Find(&events)

	var member *model.LoyaltyMember
	var m model.LoyaltyMember
	if err := db.Where("customer_id = ?", customer.ID).First(&m).Error; err == nil {
		member = &m
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return failure(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"customer":        customer,
		"tableBookings":   bookings,
		"privateBookings": events,
		"loyalty":         member,
	})
}

var (
	errPhoneTaken = errors.New("duplicate phone")
	errEmailTaken = errors.New("duplicate email")
)

func checkCustomerContact(db *gorm.DB, phone, email string, id *uint) error {
	if phone != "" {
		exists, err := helper.CheckByPhoneNumberCustomer(db, phone, id)
		if err != nil {
			return err
		}
		if exists {
			return errPhoneTaken
		}
	}
	if email != "" {
		exists, err := helper.CheckByEmailCustomer(db, email, id)
		if err != nil {
			return err
		}
		if exists {
			return errEmailTaken
		}
	}
	return nil
}

func customerFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errPhoneTaken):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.PHONE_EXISTS, err)
	case errors.Is(err, errEmailTaken):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.EMAIL_EXISTS, err)
	}
	return failure(c, err)
}

func CreateCustomer(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreateCustomerInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	customer := model.Customer{}
	copier.Copy(&customer, &input)
	customer.Phone = helper.NormalisePhone(input.Phone)
	if err := checkCustomerContact(db, customer.Phone, customer.Email, nil); err != nil {
		return customerFailure(c, err)
	}

	if err := db.Create(&customer).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "customer", customer.ID, nil)
	helper.InvalidateCache(c.UserContext(), helper.TagCustomers)
	return utils.SuccessResponse(c, fiber.StatusCreated, customer)
}

func UpdateCustomer(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateCustomerInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	customerId := c.Locals("inputId").(uint)

	var customer model.Customer
	if err := db.First(&customer, customerId).Error; err != nil {
		return failure(c, err)
	}

	copier.CopyWithOption(&customer, &input, copier.Option{IgnoreEmpty: true})
	if input.Phone != nil {
		customer.Phone = helper.NormalisePhone(*input.Phone)
	}
	if err := checkCustomerContact(db, customer.Phone, customer.Email, &customer.ID); err != nil {
		return customerFailure(c, err)
	}

	if err := db.Model(&customer).
		Select("first_name", "last_name", "email", "phone", "sms_opt_in", "email_opt_in", "notes").
		Updates(&customer).Error; err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "customer", customer.ID, input)
	helper.InvalidateCache(c.UserContext(), helper.TagCustomers)
	return utils.SuccessResponse(c, fiber.StatusOK, customer)
}
