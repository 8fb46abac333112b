package helper

import "errors"

var (
	ErrInvalidTransition      = errors.New("status transition not allowed")
	ErrConcurrentUpdate       = errors.New("record was modified concurrently")
	ErrInsufficientPoints     = errors.New("insufficient points balance")
	ErrTableHasActiveBookings = errors.New("table has active bookings")
	ErrNoTableAvailable       = errors.New("no table available")
	ErrTableUnavailable       = errors.New("table is not available for that slot")
	ErrVenueClosed            = errors.New("venue is closed on that date")
	ErrQuoteNotAccepted       = errors.New("only accepted quotes can be converted")
	ErrNotEditable            = errors.New("document is no longer editable")
	ErrOverpayment            = errors.New("payment exceeds outstanding amount")
	ErrHasPayments            = errors.New("invoice has payments")
	ErrNotRefundable          = errors.New("booking is not eligible for a refund")
	ErrNotConfigured          = errors.New("integration is not configured")
	ErrAlreadyMember          = errors.New("customer is already a member")
)
