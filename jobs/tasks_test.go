package jobs

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/messaging"
	"venue_manager/model"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func freezeClock(t *testing.T, at time.Time) *clockwork.FakeClock {
	t.Helper()
	fake := clockwork.NewFakeClockAt(at)
	prev := helper.Clock
	helper.Clock = fake
	t.Cleanup(func() { helper.Clock = prev })
	return fake
}

func TestSchedulerStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	freezeClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	s, err := Start(nil, nil, time.UTC)
	require.NoError(t, err)
	s.Stop()
}

func TestRunRecurringInvoices(t *testing.T) {
	db := openTestDB(t)
	freezeClock(t, time.Date(2026, 3, 2, 0, 5, 0, 0, time.UTC))

	customer := model.Customer{FirstName: "Noor"}
	require.NoError(t, db.Create(&customer).Error)
	start, _ := helper.ParseDate("2026-02-02")
	tpl := model.RecurringInvoice{
		CustomerId:   customer.ID,
		Title:        "Weekly kegs",
		Frequency:    model.FrequencyWeekly,
		Interval:     2,
		StartDate:    start,
		NextRunDate:  start,
		DaysUntilDue: 7,
		IsActive:     true,
		Items: helper.BuildRecurringLines([]model.LineItemInput{
			{Description: "Keg rental", Quantity: 3, UnitPrice: 20},
		}),
	}
	require.NoError(t, db.Create(&tpl).Error)

	n, err := RunRecurringInvoices(db)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var got []model.Invoice
	require.NoError(t, db.Order("number ASC").Find(&got).Error)

	date := func(s string) time.Time { d, _ := helper.ParseDate(s); return d }
	want := []model.Invoice{
		{Number: "INV-2026-00001", Title: "Weekly kegs", Status: model.InvoiceDraft, IssueDate: date("2026-02-02"), DueDate: date("2026-02-09"), Subtotal: 60, VatTotal: 12, Total: 72},
		{Number: "INV-2026-00002", Title: "Weekly kegs", Status: model.InvoiceDraft, IssueDate: date("2026-02-16"), DueDate: date("2026-02-23"), Subtotal: 60, VatTotal: 12, Total: 72},
		{Number: "INV-2026-00003", Title: "Weekly kegs", Status: model.InvoiceDraft, IssueDate: date("2026-03-02"), DueDate: date("2026-03-09"), Subtotal: 60, VatTotal: 12, Total: 72},
	}
	ignore := cmpopts.IgnoreFields(model.Invoice{}, "DTO", "CustomerId", "RecurringInvoiceId")
	if diff := cmp.Diff(want, got, ignore, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("generated invoices mismatch (-want +got):\n%s", diff)
	}
	for _, inv := range got {
		require.NotNil(t, inv.RecurringInvoiceId)
		assert.Equal(t, tpl.ID, *inv.RecurringInvoiceId)
	}
}

func TestRunNoShowSweep(t *testing.T) {
	db := openTestDB(t)
	freezeClock(t, time.Date(2026, 1, 10, 21, 0, 0, 0, time.UTC))
	date, _ := helper.ParseDate("2026-01-10")

	late := model.TableBooking{Reference: "TB-LATE0001", Name: "Late", PartySize: 2, BookingDate: date, StartTime: "20:00", DurationMinutes: 90, Status: model.TableBookingConfirmed}
	require.NoError(t, db.Create(&late).Error)

	n, err := RunNoShowSweep(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = RunNoShowSweep(db)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunDispatchReleasesAndDrains(t *testing.T) {
	db := openTestDB(t)
	d := messaging.NewDispatcher(db, nil, nil)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	d.Clock = clock
	d.Backoff = nil

	stuck := model.Message{Channel: model.ChannelSMS, To: "+447700900123", Body: "hi", Status: model.MessageSending}
	require.NoError(t, db.Create(&stuck).Error)
	require.NoError(t, db.Model(&stuck).UpdateColumn("updated_at", clock.Now().Add(-time.Hour)).Error)

	n, err := RunDispatch(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got model.Message
	require.NoError(t, db.First(&got, stuck.ID).Error)
	assert.Equal(t, model.MessageFailed, got.Status, "no SMS sender configured")
}
