package handler

import (
	"errors"
	"fmt"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errNoCustomerEmail = errors.New("customer has no email address")

func loadQuote(db *gorm.DB, id uint) (*model.Quote, error) {
	var quote model.Quote
	err := db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&quote, id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func GetQuotes(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterQuote)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.Quote{})
	if filter.Status != "" {
		condition = condition.Where("status = ?", filter.Status)
	}
	if filter.CustomerId != nil {
		condition = condition.Where("customer_id = ?", *filter.CustomerId)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		condition = condition.Where("LOWER(number) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var quotes []model.Quote
	if err := condition.Preload("Customer").Order("created_at DESC").Find(&quotes).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       quotes,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetQuote(c *fiber.Ctx) error {
	quote, err := loadQuote(database.DB, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, quote)
}

func saveQuoteTotals(tx *gorm.DB, quote *model.Quote) error {
	return tx.Model(&model.Quote{}).Where("id = ?", quote.ID).Updates(map[string]any{
		"subtotal":  quote.Subtotal,
		"vat_total": quote.VatTotal,
		"total":     quote.Total,
	}).Error
}

func CreateQuote(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreateQuoteInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	validUntil, err := helper.ParseDate(input.ValidUntil)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	quote := model.Quote{
		CustomerId:       input.CustomerId,
		PrivateBookingId: input.PrivateBookingId,
		Title:            input.Title,
		Status:           model.QuoteDraft,
		ValidUntil:       validUntil,
		Notes:            input.Notes,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if quote.CustomerId != nil {
			if err := tx.First(&model.Customer{}, *quote.CustomerId).Error; err != nil {
				return err
			}
		}
		if quote.PrivateBookingId != nil {
			if err := tx.First(&model.PrivateBooking{}, *quote.PrivateBookingId).Error; err != nil {
				return err
			}
		}
		number, err := helper.NextDocumentNumber(tx, "quotes", "QUO", helper.Today())
		if err != nil {
			return err
		}
		quote.Number = number
		if err := tx.Omit("Items").Create(&quote).Error; err != nil {
			return err
		}
		if err := helper.ReplaceQuoteItems(tx, &quote, input.Items); err != nil {
			return err
		}
		return saveQuoteTotals(tx, &quote)
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "quote", quote.ID, fiber.Map{"number": quote.Number, "total": quote.Total})
	helper.InvalidateCache(c.UserContext(), helper.TagQuotes)
	return utils.SuccessResponse(c, fiber.StatusCreated, quote)
}

func UpdateQuote(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateQuoteInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	quoteId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		var quote model.Quote
		if err := tx.First(&quote, quoteId).Error; err != nil {
			return err
		}
		if quote.Status != model.QuoteDraft {
			return fmt.Errorf("%w: %s", helper.ErrNotEditable, constants.QUOTE_NOT_EDITABLE)
		}

		updates := map[string]any{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.ValidUntil != nil {
			d, err := helper.ParseDate(*input.ValidUntil)
			if err != nil {
				return err
			}
			updates["valid_until"] = d
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(input.Items) > 0 {
			if err := helper.ReplaceQuoteItems(tx, &quote, input.Items); err != nil {
				return err
			}
			updates["subtotal"] = quote.Subtotal
			updates["vat_total"] = quote.VatTotal
			updates["total"] = quote.Total
		}
		if len(updates) == 0 {
			return nil
		}
		res := tx.Model(&model.Quote{}).Where("id = ? AND status = ?", quote.ID, model.QuoteDraft).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "quote", quoteId, input)
	helper.InvalidateCache(c.UserContext(), helper.TagQuotes)

	quote, err := loadQuote(db, quoteId)
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, quote)
}

func DeleteQuote(c *fiber.Ctx) error {
	db := database.DB
	quoteId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status = ?", quoteId, model.QuoteDraft).Delete(&model.Quote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&model.Quote{}, quoteId).Error; err != nil {
				return err
			}
			return fmt.Errorf("%w: %s", helper.ErrNotEditable, constants.QUOTE_NOT_EDITABLE)
		}
		return tx.Where("quote_id = ?", quoteId).Delete(&model.QuoteLineItem{}).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditDelete, "quote", quoteId, nil)
	helper.InvalidateCache(c.UserContext(), helper.TagQuotes)
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": quoteId})
}

// ChangeQuoteStatus handles sent, accepted, rejected and expired. Conversion has its own endpoint.
func ChangeQuoteStatus(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.StatusInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	quoteId := c.Locals("inputId").(uint)

	quote, err := loadQuote(db, quoteId)
	if err != nil {
		return failure(c, err)
	}
	from := quote.Status
	if err := helper.ChangeQuoteStatus(db, quote, input.Status, helper.Clock.Now()); err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditStatus, "quote", quote.ID, fiber.Map{"from": from, "to": quote.Status, "reason": input.Reason})
	helper.InvalidateCache(c.UserContext(), helper.TagQuotes)
	return utils.SuccessResponse(c, fiber.StatusOK, quote)
}

func quoteEmail(q *model.Quote) utils.DocumentEmailData {
	data := utils.DocumentEmailData{
		Kind:     "Quote",
		Number:   q.Number,
		Title:    q.Title,
		Subtotal: q.Subtotal,
		VatTotal: q.VatTotal,
		Total:    q.Total,
		DueLabel: "Valid until",
		DueDate:  q.ValidUntil.Format(constants.DISPLAY_LAYOUT),
	}
	if q.Customer != nil {
		data.Customer = q.Customer.FullName()
	}
	for _, l := range q.Items {
		data.Lines = append(data.Lines, utils.DocumentLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return data
}

// SendQuote marks the quote sent and emails it with its lines to the customer.
func SendQuote(c *fiber.Ctx) error {
	db := database.DB
	quote, err := loadQuote(db, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	if quote.Customer == nil || quote.Customer.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.VALIDATION_FAILED, errNoCustomerEmail)
	}
	from := quote.Status
	if err := helper.ChangeQuoteStatus(db, quote, model.QuoteSent, helper.Clock.Now()); err != nil {
		return failure(c, err)
	}

	utils.SendMailAsync(quote.Customer.Email, "Quote "+quote.Number+": "+quote.Title, "document.html", quoteEmail(quote))

	helper.WriteAudit(c, helper.AuditStatus, "quote", quote.ID, fiber.Map{"from": from, "to": quote.Status, "emailedTo": quote.Customer.Email})
	helper.InvalidateCache(c.UserContext(), helper.TagQuotes)
	return utils.SuccessResponse(c, fiber.StatusOK, quote)
}

// ConvertQuote creates a draft invoice from an accepted quote. Nothing is kept if any step fails.
func ConvertQuote(c *fiber.Ctx) error {
	db := database.DB
	quoteId := c.Locals("inputId").(uint)

	invoice, err := helper.ConvertQuoteToInvoice(db, quoteId, constants.DEFAULT_DUE_DAY, helper.Clock.Now())
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditStatus, "quote", quoteId, fiber.Map{
		"to":        model.QuoteConverted,
		"invoiceId": invoice.ID,
		"number":    invoice.Number,
	})
	helper.InvalidateCache(c.UserContext(), helper.TagQuotes, helper.TagInvoices, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusCreated, invoice)
}
