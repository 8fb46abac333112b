package validate

import (
	"errors"

	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateQuote() fiber.Handler { return Body[model.CreateQuoteInput]() }
func UpdateQuote() fiber.Handler { return Body[model.UpdateQuoteInput]() }
func FilterQuote() fiber.Handler { return Query[model.FilterQuote]() }
func FilterInvoice() fiber.Handler { return Query[model.FilterInvoice]() }
func UpdateInvoice() fiber.Handler { return Body[model.UpdateInvoiceInput]() }
func RecordPayment() fiber.Handler { return Body[model.RecordPaymentInput]() }

func CreateInvoice() fiber.Handler {
	return Body(func(in *model.CreateInvoiceInput) error {
		if in.IssueDate != "" && in.DueDate != "" && in.DueDate < in.IssueDate {
			return errors.New("dueDate must not be before issueDate")
		}
		return nil
	})
}

func CreateRecurringInvoice() fiber.Handler {
	return Body(func(in *model.CreateRecurringInvoiceInput) error {
		if in.Interval == 0 {
			in.Interval = 1
		}
		if in.EndDate != "" && in.EndDate < in.StartDate {
			return errors.New("endDate must not be before startDate")
		}
		return nil
	})
}

func UpdateRecurringInvoice() fiber.Handler { return Body[model.UpdateRecurringInvoiceInput]() }
func FilterRecurringInvoice() fiber.Handler { return Query[model.FilterRecurringInvoice]() }
func ScheduleQuery() fiber.Handler          { return Query[model.ScheduleQuery]() }
