package handler

import (
	"errors"
	"strings"
	"time"

	"venue_manager/constants"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errParseLocals = errors.New("PARSE DATA TO LOCALS FAIL")

const (
	tablesCacheTTL    = 5 * time.Minute
	dashboardCacheTTL = 60 * time.Second
)

// failure maps domain errors onto a status code and a user-facing message.
func failure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, constants.NOT_FOUND, err)
	case errors.Is(err, helper.ErrConcurrentUpdate):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.CONCURRENT_UPDATE, err)
	case errors.Is(err, helper.ErrInvalidTransition):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_STATUS_CHANGE, err)
	case errors.Is(err, helper.ErrTableHasActiveBookings):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.TABLE_HAS_ACTIVE_BOOKINGS, err)
	case errors.Is(err, helper.ErrNoTableAvailable):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.NO_TABLE_AVAILABLE, err)
	case errors.Is(err, helper.ErrTableUnavailable):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.TABLE_NOT_AVAILABLE, err)
	case errors.Is(err, helper.ErrVenueClosed):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.VENUE_CLOSED, err)
	case errors.Is(err, helper.ErrQuoteNotAccepted):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.QUOTE_NOT_ACCEPTED, err)
	case errors.Is(err, helper.ErrNotEditable):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), err)
	case errors.Is(err, helper.ErrOverpayment):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.INVOICE_OVERPAYMENT, err)
	case errors.Is(err, helper.ErrHasPayments):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVOICE_HAS_PAYMENTS, err)
	case errors.Is(err, helper.ErrInsufficientPoints):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.INSUFFICIENT_POINTS, err)
	case errors.Is(err, helper.ErrAlreadyMember):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ALREADY_MEMBER, err)
	case errors.Is(err, helper.ErrNotRefundable):
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.NOT_REFUNDABLE, err)
	case errors.Is(err, helper.ErrNotConfigured), errors.Is(err, utils.ErrMailNotConfigured):
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.NOT_CONFIGURED, err)
	case errors.Is(err, helper.ErrInvalidSchedule):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}

func currentClaim(c *fiber.Ctx) model.TokenClaim {
	claim, _ := c.Locals("claim").(model.TokenClaim)
	return claim
}

// currentAccountId is nil for public endpoints.
func currentAccountId(c *fiber.Ctx) *uint {
	claim := currentClaim(c)
	if claim.AccountId == 0 {
		return nil
	}
	id := claim.AccountId
	return &id
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// dateRange reads from/to, defaulting to the last 30 days up to today.
func dateRange(r model.DateRange) (time.Time, time.Time, error) {
	to := helper.Today()
	from := to.AddDate(0, 0, -30)
	var err error
	if r.From != "" {
		if from, err = helper.ParseDate(r.From); err != nil {
			return from, to, err
		}
	}
	if r.To != "" {
		if to, err = helper.ParseDate(r.To); err != nil {
			return from, to, err
		}
	}
	if to.Before(from) {
		return from, to, errors.New("from must not be after to")
	}
	return from, to, nil
}
