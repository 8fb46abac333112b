package helper

import (
	"testing"
	"time"
	_ "time/tzdata"

	"venue_manager/config"
	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundPolicy(t *testing.T) {
	paid := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	booking := func(eventDate string, refunded float64) model.PrivateBooking {
		return model.PrivateBooking{
			Status:         model.PrivateBookingConfirmed,
			EventDate:      day(eventDate),
			DepositAmount:  200,
			DepositPaidAt:  &paid,
			RefundedAmount: refunded,
		}
	}

	t.Run("full refund at thirty days", func(t *testing.T) {
		got := RefundPolicy(booking("2026-03-31", 0), asOf)
		assert.True(t, got.Eligible)
		assert.Equal(t, 100.0, got.RefundPercent)
		assert.Equal(t, 200.0, got.RefundAmount)
	})

	t.Run("half refund between fourteen and twenty nine days", func(t *testing.T) {
		got := RefundPolicy(booking("2026-03-15", 0), asOf)
		assert.True(t, got.Eligible)
		assert.Equal(t, 50.0, got.RefundPercent)
		assert.Equal(t, 100.0, got.RefundAmount)
	})

	t.Run("nothing inside fourteen days", func(t *testing.T) {
		got := RefundPolicy(booking("2026-03-14", 0), asOf)
		assert.False(t, got.Eligible)
		assert.Zero(t, got.RefundAmount)
		assert.Equal(t, "less than 14 days before the event", got.Reason)
	})

	t.Run("previous refunds are deducted", func(t *testing.T) {
		got := RefundPolicy(booking("2026-04-30", 150), asOf)
		assert.True(t, got.Eligible)
		assert.Equal(t, 50.0, got.RefundAmount)

		got = RefundPolicy(booking("2026-04-30", 200), asOf)
		assert.False(t, got.Eligible)
		assert.Equal(t, "deposit already refunded", got.Reason)
	})

	t.Run("no deposit", func(t *testing.T) {
		b := booking("2026-05-01", 0)
		b.DepositPaidAt = nil
		assert.False(t, RefundPolicy(b, asOf).Eligible)
	})

	t.Run("cancelled booking", func(t *testing.T) {
		b := booking("2026-05-01", 0)
		b.Status = model.PrivateBookingCancelled
		got := RefundPolicy(b, asOf)
		assert.False(t, got.Eligible)
		assert.Equal(t, "booking is cancelled", got.Reason)
	})
}

func TestCalculateRefundUsesPolicyOutsidePostgres(t *testing.T) {
	db := newTestDB(t)
	paid := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	b := model.PrivateBooking{
		Status:        model.PrivateBookingConfirmed,
		EventDate:     day("2026-06-01"),
		DepositAmount: 120,
		DepositPaidAt: &paid,
	}
	got, err := CalculateRefund(db, b, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.RefundAmount)
}

func TestRefundDaysFollowVenueTimezone(t *testing.T) {
	s := config.Get()
	prev := s.Timezone
	t.Cleanup(func() { s.Timezone = prev })

	paid := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	b := model.PrivateBooking{
		Status:        model.PrivateBookingConfirmed,
		EventDate:     day("2026-03-31"),
		DepositAmount: 200,
		DepositPaidAt: &paid,
	}
	asOf := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.Timezone = "Europe/London"
	assert.Equal(t, 30, DaysBeforeEvent(b.EventDate, asOf))
	assert.Equal(t, 100.0, RefundPolicy(b, asOf).RefundPercent)

	s.Timezone = "Pacific/Auckland"
	assert.Equal(t, 29, DaysBeforeEvent(b.EventDate, asOf), "already 2 March in Auckland")
	assert.Equal(t, 50.0, RefundPolicy(b, asOf).RefundPercent)
	assert.Equal(t, []any{uint(7), asOf, "Pacific/Auckland"}, refundEligibilityArgs(7, asOf))
}
