package helper

import (
	"errors"
	"fmt"
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
)

// ReissueValidityDays is how long a quote sent with a lapsed valid_until stays open.
const ReissueValidityDays = 30

// ChangeQuoteStatus moves a quote with a compare-and-swap on its current status.
// Conversion has its own path because it creates an invoice. Sending a quote
// whose valid_until has passed extends it by ReissueValidityDays from today.
func ChangeQuoteStatus(db *gorm.DB, quote *model.Quote, to string, now time.Time) error {
	if to == model.QuoteConverted || !IsQuoteStatusTransitionAllowed(quote.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, quote.Status, to)
	}

	updates := map[string]any{"status": to, "updated_at": now}
	validUntil := quote.ValidUntil
	switch to {
	case model.QuoteSent:
		updates["sent_at"] = now
		if today := DateOnly(now.In(VenueLocation())); validUntil.Before(today) {
			validUntil = today.AddDate(0, 0, ReissueValidityDays)
			updates["valid_until"] = validUntil
		}
	case model.QuoteAccepted:
		updates["accepted_at"] = now
	}

	res := db.Model(&model.Quote{}).
		Where("id = ? AND status = ?", quote.ID, quote.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}

	quote.Status = to
	switch to {
	case model.QuoteSent:
		quote.SentAt = &now
		quote.ValidUntil = validUntil
	case model.QuoteAccepted:
		quote.AcceptedAt = &now
	}
	return nil
}

// ConvertQuoteToInvoice turns an accepted quote into a draft invoice. The invoice,
// its copied lines and the quote's move to converted commit together; a failure at
// any step leaves no invoice rows behind.
func ConvertQuoteToInvoice(db *gorm.DB, quoteId uint, dueDays int, now time.Time) (*model.Invoice, error) {
	var invoice model.Invoice

	err := db.Transaction(func(tx *gorm.DB) error {
		var quote model.Quote
		if err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).First(&quote, quoteId).Error; err != nil {
			return err
		}
		if quote.Status != model.QuoteAccepted {
			return ErrQuoteNotAccepted
		}

		issue := DateOnly(now)
		number, err := NextDocumentNumber(tx, "invoices", "INV", issue)
		if err != nil {
			return err
		}

		invoice = model.Invoice{
			Number:     number,
			CustomerId: quote.CustomerId,
			QuoteId:    &quote.ID,
			Title:      quote.Title,
			Status:     model.InvoiceDraft,
			IssueDate:  issue,
			DueDate:    issue.AddDate(0, 0, dueDays),
			Subtotal:   quote.Subtotal,
			VatTotal:   quote.VatTotal,
			Total:      quote.Total,
			Notes:      quote.Notes,
		}
		if err := tx.Omit("Items", "Payments").Create(&invoice).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		lines := QuoteLinesToInvoice(quote.Items)
		for i := range lines {
			lines[i].InvoiceId = invoice.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("copy line items: %w", err)
			}
		}
		invoice.Items = lines

		res := tx.Model(&model.Quote{}).
			Where("id = ? AND status = ?", quote.ID, model.QuoteAccepted).
			Updates(map[string]any{
				"status":               model.QuoteConverted,
				"converted_invoice_id": invoice.ID,
				"updated_at":           now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ReplaceQuoteItems rewrites the lines of a draft quote and refreshes its totals.
func ReplaceQuoteItems(tx *gorm.DB, quote *model.Quote, inputs []model.LineItemInput) error {
	if quote.Status != model.QuoteDraft {
		return ErrNotEditable
	}
	if err := tx.Unscoped().Where("quote_id = ?", quote.ID).Delete(&model.QuoteLineItem{}).Error; err != nil {
		return err
	}
	items, totals := BuildQuoteLines(inputs)
	for i := range items {
		items[i].QuoteId = quote.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	quote.Items = items
	quote.Subtotal, quote.VatTotal, quote.Total = totals.Subtotal, totals.VatTotal, totals.Total
	return nil
}

// ExpireQuotes moves sent quotes whose validity ended before today to expired.
func ExpireQuotes(db *gorm.DB, today time.Time) (int64, error) {
	res := db.Model(&model.Quote{}).
		Where("status = ? AND valid_until < ?", model.QuoteSent, today).
		Updates(map[string]any{"status": model.QuoteExpired, "updated_at": Clock.Now()})
	return res.RowsAffected, res.Error
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
