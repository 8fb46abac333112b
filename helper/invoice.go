package helper

import (
	"fmt"
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
)

const paymentTolerance = 0.005

// DerivePaymentStatus is the status an invoice takes after money is received.
func DerivePaymentStatus(total, amountPaid float64) string {
	if amountPaid+paymentTolerance >= total {
		return model.InvoicePaid
	}
	return model.InvoicePartiallyPaid
}

// ChangeInvoiceStatus applies a manual transition (send or void) with a
// compare-and-swap on the current status.
func ChangeInvoiceStatus(db *gorm.DB, invoice *model.Invoice, to string, now time.Time) error {
	if !IsInvoiceStatusTransitionAllowed(invoice.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, invoice.Status, to)
	}
	if to == model.InvoiceVoid && invoice.AmountPaid > 0 {
		return ErrHasPayments
	}

	updates := map[string]any{"status": to, "updated_at": now}
	switch to {
	case model.InvoiceSent:
		updates["sent_at"] = now
	case model.InvoiceVoid:
		updates["voided_at"] = now
	}

	res := db.Model(&model.Invoice{}).
		Where("id = ? AND status = ?", invoice.ID, invoice.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}

	invoice.Status = to
	switch to {
	case model.InvoiceSent:
		invoice.SentAt = &now
	case model.InvoiceVoid:
		invoice.VoidedAt = &now
	}
	return nil
}

// RecordPayment stores a payment and derives the invoice status from the new
// paid amount. Overpayment is refused.
func RecordPayment(db *gorm.DB, invoiceId uint, input model.RecordPaymentInput, paidAt time.Time, recordedBy *uint) (*model.Invoice, *model.InvoicePayment, error) {
	var invoice model.Invoice
	var payment model.InvoicePayment

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invoice, invoiceId).Error; err != nil {
			return err
		}
		switch invoice.Status {
		case model.InvoiceSent, model.InvoicePartiallyPaid, model.InvoiceOverdue:
		default:
			return fmt.Errorf("%w: cannot take payment on %s invoice", ErrInvalidTransition, invoice.Status)
		}

		amount := Round2(input.Amount)
		if amount > Round2(invoice.Outstanding())+paymentTolerance {
			return ErrOverpayment
		}

		payment = model.InvoicePayment{
			InvoiceId:  invoice.ID,
			Amount:     amount,
			Method:     input.Method,
			Reference:  input.Reference,
			PaidAt:     paidAt,
			RecordedBy: recordedBy,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		paid := Round2(invoice.AmountPaid + amount)
		status := DerivePaymentStatus(invoice.Total, paid)
		if status != invoice.Status && !IsInvoiceStatusTransitionAllowed(invoice.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, invoice.Status, status)
		}

		updates := map[string]any{"amount_paid": paid, "status": status, "updated_at": Clock.Now()}
		if status == model.InvoicePaid {
			updates["paid_at"] = paidAt
		}
		res := tx.Model(&model.Invoice{}).
			Where("id = ? AND status = ? AND amount_paid = ?", invoice.ID, invoice.Status, invoice.AmountPaid).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentUpdate
		}

		invoice.AmountPaid = paid
		invoice.Status = status
		if status == model.InvoicePaid {
			invoice.PaidAt = &paidAt
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &invoice, &payment, nil
}

// ReplaceInvoiceItems rewrites the lines of a draft invoice and refreshes its totals.
func ReplaceInvoiceItems(tx *gorm.DB, invoice *model.Invoice, inputs []model.LineItemInput) error {
	if invoice.Status != model.InvoiceDraft {
		return ErrNotEditable
	}
	if err := tx.Unscoped().Where("invoice_id = ?", invoice.ID).Delete(&model.InvoiceLineItem{}).Error; err != nil {
		return err
	}
	items, totals := BuildInvoiceLines(inputs)
	for i := range items {
		items[i].InvoiceId = invoice.ID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	invoice.Items = items
	invoice.Subtotal, invoice.VatTotal, invoice.Total = totals.Subtotal, totals.VatTotal, totals.Total
	return nil
}

// MarkOverdueInvoices flags unpaid invoices whose due date is before today.
func MarkOverdueInvoices(db *gorm.DB, today time.Time) (int64, error) {
	res := db.Model(&model.Invoice{}).
		Where("status IN ? AND due_date < ?", []string{model.InvoiceSent, model.InvoicePartiallyPaid}, today).
		Updates(map[string]any{"status": model.InvoiceOverdue, "updated_at": Clock.Now()})
	return res.RowsAffected, res.Error
}
