package helper

import "venue_manager/model"

type transitions map[string][]string

func (t transitions) allowed(from, to string) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

var quoteTransitions = transitions{
	model.QuoteDraft:    {model.QuoteSent, model.QuoteExpired},
	model.QuoteSent:     {model.QuoteAccepted, model.QuoteRejected, model.QuoteExpired},
	model.QuoteExpired:  {model.QuoteSent},
	model.QuoteAccepted: {model.QuoteConverted},
}

var invoiceTransitions = transitions{
	model.InvoiceDraft:         {model.InvoiceSent, model.InvoiceVoid},
	model.InvoiceSent:          {model.InvoicePartiallyPaid, model.InvoicePaid, model.InvoiceOverdue, model.InvoiceVoid},
	model.InvoicePartiallyPaid: {model.InvoicePaid, model.InvoiceOverdue},
	model.InvoiceOverdue:       {model.InvoicePartiallyPaid, model.InvoicePaid, model.InvoiceVoid},
}

var tableBookingTransitions = transitions{
	model.TableBookingPending:   {model.TableBookingConfirmed, model.TableBookingCancelled},
	model.TableBookingConfirmed: {model.TableBookingSeated, model.TableBookingCancelled, model.TableBookingNoShow},
	model.TableBookingSeated:    {model.TableBookingCompleted},
}

var privateBookingTransitions = transitions{
	model.PrivateBookingEnquiry:   {model.PrivateBookingTentative, model.PrivateBookingCancelled},
	model.PrivateBookingTentative: {model.PrivateBookingConfirmed, model.PrivateBookingCancelled},
	model.PrivateBookingConfirmed: {model.PrivateBookingCompleted, model.PrivateBookingCancelled},
}

// IsQuoteStatusTransitionAllowed reports whether a quote may move from one status to another.
// Accepted quotes only leave their state through conversion.
func IsQuoteStatusTransitionAllowed(from, to string) bool {
	return quoteTransitions.allowed(from, to)
}

// IsInvoiceStatusTransitionAllowed does not know about payments; voiding an
// overdue invoice is additionally refused once money was received.
func IsInvoiceStatusTransitionAllowed(from, to string) bool {
	return invoiceTransitions.allowed(from, to)
}

func IsTableBookingTransitionAllowed(from, to string) bool {
	return tableBookingTransitions.allowed(from, to)
}

func IsPrivateBookingTransitionAllowed(from, to string) bool {
	return privateBookingTransitions.allowed(from, to)
}
