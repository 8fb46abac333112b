package helper

import (
	"testing"
	"time"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createInvoice(t *testing.T, db *gorm.DB, status string, total float64) model.Invoice {
	t.Helper()
	number, err := NextDocumentNumber(db, "invoices", "INV", day("2026-04-01"))
	require.NoError(t, err)
	inv := model.Invoice{
		Number:    number,
		Title:     "Private party",
		Status:    status,
		IssueDate: day("2026-04-01"),
		DueDate:   day("2026-04-15"),
		Subtotal:  total,
		Total:     total,
	}
	require.NoError(t, db.Omit("Items", "Payments").Create(&inv).Error)
	return inv
}

func TestDerivePaymentStatus(t *testing.T) {
	assert.Equal(t, model.InvoicePaid, DerivePaymentStatus(100, 100))
	assert.Equal(t, model.InvoicePaid, DerivePaymentStatus(100, 99.996))
	assert.Equal(t, model.InvoicePartiallyPaid, DerivePaymentStatus(100, 99.99))
}

func TestRecordPayment(t *testing.T) {
	db := newTestDB(t)
	freezeClock(t, time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC))
	paidAt := day("2026-04-05")

	inv := createInvoice(t, db, model.InvoiceSent, 300)

	updated, payment, err := RecordPayment(db, inv.ID, model.RecordPaymentInput{Amount: 100, Method: "card"}, paidAt, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePartiallyPaid, updated.Status)
	assert.Equal(t, 100.0, payment.Amount)

	_, _, err = RecordPayment(db, inv.ID, model.RecordPaymentInput{Amount: 200.01, Method: "cash"}, paidAt, nil)
	assert.ErrorIs(t, err, ErrOverpayment)

	updated, _, err = RecordPayment(db, inv.ID, model.RecordPaymentInput{Amount: 200, Method: "cash"}, paidAt, nil)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, updated.Status)
	require.NotNil(t, updated.PaidAt)

	_, _, err = RecordPayment(db, inv.ID, model.RecordPaymentInput{Amount: 1, Method: "cash"}, paidAt, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var payments int64
	db.Model(&model.InvoicePayment{}).Where("invoice_id = ?", inv.ID).Count(&payments)
	assert.Equal(t, int64(2), payments)
}

func TestRecordPaymentRefusesDraft(t *testing.T) {
	db := newTestDB(t)
	inv := createInvoice(t, db, model.InvoiceDraft, 50)
	_, _, err := RecordPayment(db, inv.ID, model.RecordPaymentInput{Amount: 10, Method: "card"}, day("2026-04-05"), nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestChangeInvoiceStatus(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 4, 5, 10, 0, 0, 0, time.UTC)

	draft := createInvoice(t, db, model.InvoiceDraft, 80)
	require.NoError(t, ChangeInvoiceStatus(db, &draft, model.InvoiceSent, now))
	assert.NotNil(t, draft.SentAt)

	paid := createInvoice(t, db, model.InvoiceOverdue, 80)
	paid.AmountPaid = 20
	require.NoError(t, db.Model(&paid).Update("amount_paid", 20).Error)
	assert.ErrorIs(t, ChangeInvoiceStatus(db, &paid, model.InvoiceVoid, now), ErrHasPayments)

	settled := createInvoice(t, db, model.InvoicePaid, 80)
	assert.ErrorIs(t, ChangeInvoiceStatus(db, &settled, model.InvoiceVoid, now), ErrInvalidTransition)
}

func TestMarkOverdueInvoices(t *testing.T) {
	db := newTestDB(t)
	freezeClock(t, time.Date(2026, 4, 20, 6, 0, 0, 0, time.UTC))
	sent := createInvoice(t, db, model.InvoiceSent, 10)
	createInvoice(t, db, model.InvoiceDraft, 10)

	n, err := MarkOverdueInvoices(db, day("2026-04-16"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, db.First(&sent, sent.ID).Error)
	assert.Equal(t, model.InvoiceOverdue, sent.Status)
}
