package helper

import (
	"fmt"
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
)

const (
	FullRefundDays = 30
	HalfRefundDays = 14
)

// DaysBeforeEvent counts calendar days between the reference time (in the venue
// timezone) and the event date.
func DaysBeforeEvent(eventDate, asOf time.Time) int {
	from := DateOnly(asOf.In(VenueLocation()))
	return int(DateOnly(eventDate).Sub(from).Hours() / 24)
}

// RefundPolicy is the in-process rendition of calculate_refund_eligibility.
func RefundPolicy(b model.PrivateBooking, asOf time.Time) model.RefundEligibility {
	if b.Status == model.PrivateBookingCancelled || b.Status == model.PrivateBookingCompleted {
		return model.RefundEligibility{Reason: "booking is " + b.Status}
	}
	if b.DepositPaidAt == nil || b.DepositAmount <= 0 {
		return model.RefundEligibility{Reason: "no deposit paid"}
	}

	days := DaysBeforeEvent(b.EventDate, asOf)
	var pct float64
	switch {
	case days >= FullRefundDays:
		pct = 100
	case days >= HalfRefundDays:
		pct = 50
	}

	refundable := Round2(Round2(b.DepositAmount*pct/100) - b.RefundedAmount)
	if refundable <= 0 {
		reason := "deposit already refunded"
		if pct == 0 {
			reason = "less than 14 days before the event"
		}
		return model.RefundEligibility{RefundPercent: pct, Reason: reason}
	}
	return model.RefundEligibility{
		Eligible:      true,
		RefundPercent: pct,
		RefundAmount:  refundable,
		Reason:        fmt.Sprintf("%d days before the event", days),
	}
}

const refundEligibilitySQL = "SELECT eligible, refund_percent, refund_amount, reason FROM calculate_refund_eligibility(?, ?, ?)"

// refundEligibilityArgs passes the venue timezone so the procedure counts days
// the same way DaysBeforeEvent does.
func refundEligibilityArgs(bookingId uint, asOf time.Time) []any {
	return []any{bookingId, asOf, VenueLocation().String()}
}

// CalculateRefund asks the database procedure on PostgreSQL and evaluates the
// same policy in Go on other dialects.
func CalculateRefund(db *gorm.DB, booking model.PrivateBooking, asOf time.Time) (model.RefundEligibility, error) {
	if db.Dialector.Name() != "postgres" {
		return RefundPolicy(booking, asOf), nil
	}

	var out model.RefundEligibility
	err := db.Raw(refundEligibilitySQL, refundEligibilityArgs(booking.ID, asOf)...).Row().Scan(&out.Eligible, &out.RefundPercent, &out.RefundAmount, &out.Reason)
	if err != nil {
		return model.RefundEligibility{}, fmt.Errorf("calculate_refund_eligibility: %w", err)
	}
	return out, nil
}
