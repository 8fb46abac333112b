package jobs

import (
	"context"

	"venue_manager/helper"
	"venue_manager/messaging"
	"venue_manager/metrics"
	"venue_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dispatchBatch = 100

func RunRecurringInvoices(db *gorm.DB) (int, error) {
	n, err := helper.GenerateDueRecurringInvoices(db, helper.Today())
	metrics.JobResult("recurring_invoices", err)
	if err != nil {
		return n, err
	}
	if n > 0 {
		zap.S().Infof("Generated %d recurring invoices", n)
		helper.InvalidateCache(context.Background(), helper.TagInvoices, helper.TagDashboard)
	}
	return n, nil
}

func RunQuoteExpiry(db *gorm.DB) (int64, error) {
	n, err := helper.ExpireQuotes(db, helper.Today())
	metrics.JobResult("quote_expiry", err)
	if err != nil {
		return n, err
	}
	if n > 0 {
		zap.S().Infof("Expired %d quotes", n)
		helper.InvalidateCache(context.Background(), helper.TagQuotes)
	}
	return n, nil
}

func RunOverdueInvoices(db *gorm.DB) (int64, error) {
	n, err := helper.MarkOverdueInvoices(db, helper.Today())
	metrics.JobResult("overdue_invoices", err)
	if err != nil {
		return n, err
	}
	if n > 0 {
		zap.S().Infof("Marked %d invoices overdue", n)
		helper.InvalidateCache(context.Background(), helper.TagInvoices, helper.TagDashboard)
	}
	return n, nil
}

func RunLoyaltyExpiry(db *gorm.DB) (int, error) {
	n, err := helper.ExpireInactivePoints(db, helper.Clock.Now())
	metrics.JobResult("loyalty_expiry", err)
	if err != nil {
		return n, err
	}
	if n > 0 {
		zap.S().Infof("Expired points for %d loyalty members", n)
		helper.InvalidateCache(context.Background(), helper.TagLoyalty, helper.TagDashboard)
	}
	return n, nil
}

// RunNoShowSweep marks overdue confirmed table bookings and updates the live boards.
func RunNoShowSweep(db *gorm.DB) (int, error) {
	marked, err := helper.MarkNoShows(db, helper.Clock.Now())
	metrics.JobResult("no_show_sweep", err)
	ctx := context.Background()
	for _, b := range marked {
		helper.PublishBoard(ctx, b.BookingDate, boardEvent{Type: "status", BookingId: b.ID, Status: model.TableBookingNoShow})
	}
	if len(marked) > 0 {
		zap.S().Infof("Marked %d table bookings as no-show", len(marked))
		helper.InvalidateCache(ctx, helper.TagBookings, helper.TagDashboard)
	}
	return len(marked), err
}

func RunDispatch(ctx context.Context, d *messaging.Dispatcher) (int, error) {
	if _, err := d.ReleaseStale(staleSending); err != nil {
		zap.S().Warnf("release stale messages: %v", err)
	}
	n, err := d.DrainQueued(ctx, dispatchBatch)
	metrics.JobResult("message_dispatch", err)
	return n, err
}

type boardEvent struct {
	Type      string `json:"type"`
	BookingId uint   `json:"bookingId"`
	Status    string `json:"status"`
}
