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

var errDueBeforeIssue = errors.New("due date is before issue date")

func loadInvoice(db *gorm.DB, id uint) (*model.Invoice, error) {
	var invoice model.Invoice
	err := db.Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC") }).
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func GetInvoices(c *fiber.Ctx) error {
	db := database.DB
	filter, ok := c.Locals("filter").(model.FilterInvoice)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	condition := db.Model(&model.Invoice{})
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
	if filter.From != "" || filter.To != "" {
		from, to, err := dateRange(filter.DateRange)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		condition = condition.Where("issue_date BETWEEN ? AND ?", from, to)
	}

	var totalCount int64
	condition.Count(&totalCount)
	condition = utils.ApplyPagination(condition, filter.Limit, filter.Page)

	var invoices []model.Invoice
	if err := condition.Preload("Customer").Order("issue_date DESC, id DESC").Find(&invoices).Error; err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       invoices,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: totalCount,
	})
}

func GetInvoice(c *fiber.Ctx) error {
	invoice, err := loadInvoice(database.DB, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, invoice)
}

func CreateInvoice(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.CreateInvoiceInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}

	issue := helper.Today()
	if input.IssueDate != "" {
		d, err := helper.ParseDate(input.IssueDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		issue = d
	}
	due := issue.AddDate(0, 0, constants.DEFAULT_DUE_DAY)
	if input.DueDate != "" {
		d, err := helper.ParseDate(input.DueDate)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		due = d
	}
	if due.Before(issue) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, errDueBeforeIssue)
	}

	invoice := model.Invoice{
		CustomerId: input.CustomerId,
		Title:      input.Title,
		Status:     model.InvoiceDraft,
		IssueDate:  issue,
		DueDate:    due,
		Notes:      input.Notes,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if invoice.CustomerId != nil {
			if err := tx.First(&model.Customer{}, *invoice.CustomerId).Error; err != nil {
				return err
			}
		}
		number, err := helper.NextDocumentNumber(tx, "invoices", "INV", issue)
		if err != nil {
			return err
		}
		invoice.Number = number
		if err := tx.Omit("Items", "Payments").Create(&invoice).Error; err != nil {
			return err
		}
		if err := helper.ReplaceInvoiceItems(tx, &invoice, input.Items); err != nil {
			return err
		}
		return tx.Model(&model.Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]any{
			"subtotal":  invoice.Subtotal,
			"vat_total": invoice.VatTotal,
			"total":     invoice.Total,
		}).Error
	})
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditCreate, "invoice", invoice.ID, fiber.Map{"number": invoice.Number, "total": invoice.Total})
	helper.InvalidateCache(c.UserContext(), helper.TagInvoices, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusCreated, invoice)
}

func UpdateInvoice(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.UpdateInvoiceInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	invoiceId := c.Locals("inputId").(uint)

	err := db.Transaction(func(tx *gorm.DB) error {
		var invoice model.Invoice
		if err := tx.First(&invoice, invoiceId).Error; err != nil {
			return err
		}
		if invoice.Status != model.InvoiceDraft {
			return fmt.Errorf("%w: %s", helper.ErrNotEditable, constants.INVOICE_NOT_EDITABLE)
		}

		updates := map[string]any{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.DueDate != nil {
			d, err := helper.ParseDate(*input.DueDate)
			if err != nil {
				return err
			}
			if d.Before(invoice.IssueDate) {
				return errDueBeforeIssue
			}
			updates["due_date"] = d
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(input.Items) > 0 {
			if err := helper.ReplaceInvoiceItems(tx, &invoice, input.Items); err != nil {
				return err
			}
			updates["subtotal"] = invoice.Subtotal
			updates["vat_total"] = invoice.VatTotal
			updates["total"] = invoice.Total
		}
		if len(updates) == 0 {
			return nil
		}
		res := tx.Model(&model.Invoice{}).Where("id = ? AND status = ?", invoice.ID, model.InvoiceDraft).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.ErrConcurrentUpdate
		}
		return nil
	})
	if errors.Is(err, errDueBeforeIssue) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, err)
	}
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditUpdate, "invoice", invoiceId, input)
	helper.InvalidateCache(c.UserContext(), helper.TagInvoices, helper.TagDashboard)

	invoice, err := loadInvoice(db, invoiceId)
	if err != nil {
		return failure(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, invoice)
}

func invoiceEmail(inv *model.Invoice) utils.DocumentEmailData {
	data := utils.DocumentEmailData{
		Kind:     "Invoice",
		Number:   inv.Number,
		Title:    inv.Title,
		Subtotal: inv.Subtotal,
		VatTotal: inv.VatTotal,
		Total:    inv.Total,
		DueLabel: "Payment due",
		DueDate:  inv.DueDate.Format(constants.DISPLAY_LAYOUT),
	}
	if inv.Customer != nil {
		data.Customer = inv.Customer.FullName()
	}
	for _, l := range inv.Items {
		data.Lines = append(data.Lines, utils.DocumentLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return data
}

// SendInvoice moves a draft to sent and emails it. Already sent invoices are only re-emailed.
func SendInvoice(c *fiber.Ctx) error {
	db := database.DB
	invoice, err := loadInvoice(db, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	if invoice.Customer == nil || invoice.Customer.Email == "" {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, constants.VALIDATION_FAILED, errNoCustomerEmail)
	}

	from := invoice.Status
	if invoice.Status == model.InvoiceDraft {
		if err := helper.ChangeInvoiceStatus(db, invoice, model.InvoiceSent, helper.Clock.Now()); err != nil {
			return failure(c, err)
		}
	} else if invoice.Status == model.InvoiceVoid {
		return failure(c, fmt.Errorf("%w: cannot send a void invoice", helper.ErrInvalidTransition))
	}

	utils.SendMailAsync(invoice.Customer.Email, "Invoice "+invoice.Number+": "+invoice.Title, "document.html", invoiceEmail(invoice))

	helper.WriteAudit(c, helper.AuditStatus, "invoice", invoice.ID, fiber.Map{"from": from, "to": invoice.Status, "emailedTo": invoice.Customer.Email})
	helper.InvalidateCache(c.UserContext(), helper.TagInvoices)
	return utils.SuccessResponse(c, fiber.StatusOK, invoice)
}

func VoidInvoice(c *fiber.Ctx) error {
	db := database.DB
	invoice, err := loadInvoice(db, c.Locals("inputId").(uint))
	if err != nil {
		return failure(c, err)
	}
	from := invoice.Status
	if err := helper.ChangeInvoiceStatus(db, invoice, model.InvoiceVoid, helper.Clock.Now()); err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, helper.AuditStatus, "invoice", invoice.ID, fiber.Map{"from": from, "to": invoice.Status})
	helper.InvalidateCache(c.UserContext(), helper.TagInvoices, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusOK, invoice)
}

// RecordInvoicePayment adds a payment and returns the invoice with its derived status.
func RecordInvoicePayment(c *fiber.Ctx) error {
	db := database.DB
	input, ok := c.Locals("input").(model.RecordPaymentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	invoiceId := c.Locals("inputId").(uint)

	paidAt := helper.Clock.Now()
	if input.PaidAt != "" {
		d, err := helper.ParseDate(input.PaidAt)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		paidAt = d
	}

	invoice, payment, err := helper.RecordPayment(db, invoiceId, input, paidAt, currentAccountId(c))
	if err != nil {
		return failure(c, err)
	}

	helper.WriteAudit(c, "payment", "invoice", invoice.ID, fiber.Map{
		"paymentId": payment.ID,
		"amount":    payment.Amount,
		"method":    payment.Method,
		"status":    invoice.Status,
	})
	helper.InvalidateCache(c.UserContext(), helper.TagInvoices, helper.TagDashboard)
	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{"invoice": invoice, "payment": payment})
}
