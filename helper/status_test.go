package helper

import (
	"testing"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
)

func TestQuoteTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{model.QuoteDraft, model.QuoteSent, true},
		{model.QuoteDraft, model.QuoteAccepted, false},
		{model.QuoteSent, model.QuoteAccepted, true},
		{model.QuoteSent, model.QuoteRejected, true},
		{model.QuoteExpired, model.QuoteSent, true},
		{model.QuoteAccepted, model.QuoteConverted, true},
		{model.QuoteAccepted, model.QuoteDraft, false},
		{model.QuoteConverted, model.QuoteSent, false},
		{model.QuoteRejected, model.QuoteSent, false},
	}
	for _, tc := range cases {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			assert.Equal(t, tc.want, IsQuoteStatusTransitionAllowed(tc.from, tc.to))
		})
	}
}

func TestInvoiceTransitions(t *testing.T) {
	assert.True(t, IsInvoiceStatusTransitionAllowed(model.InvoiceDraft, model.InvoiceSent))
	assert.True(t, IsInvoiceStatusTransitionAllowed(model.InvoiceSent, model.InvoiceOverdue))
	assert.True(t, IsInvoiceStatusTransitionAllowed(model.InvoiceOverdue, model.InvoicePaid))
	assert.False(t, IsInvoiceStatusTransitionAllowed(model.InvoicePaid, model.InvoiceVoid))
	assert.False(t, IsInvoiceStatusTransitionAllowed(model.InvoicePartiallyPaid, model.InvoiceVoid))
	assert.False(t, IsInvoiceStatusTransitionAllowed(model.InvoiceVoid, model.InvoiceDraft))
}

func TestBookingTransitions(t *testing.T) {
	assert.True(t, IsTableBookingTransitionAllowed(model.TableBookingConfirmed, model.TableBookingNoShow))
	assert.False(t, IsTableBookingTransitionAllowed(model.TableBookingPending, model.TableBookingSeated))
	assert.False(t, IsTableBookingTransitionAllowed(model.TableBookingCompleted, model.TableBookingCancelled))

	assert.True(t, IsPrivateBookingTransitionAllowed(model.PrivateBookingEnquiry, model.PrivateBookingTentative))
	assert.False(t, IsPrivateBookingTransitionAllowed(model.PrivateBookingEnquiry, model.PrivateBookingCompleted))
	assert.False(t, IsPrivateBookingTransitionAllowed(model.PrivateBookingCancelled, model.PrivateBookingConfirmed))
}
