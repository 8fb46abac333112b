package helper

import (
	"testing"
	"time"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(ts []time.Time) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Format(time.DateOnly)
	}
	return out
}

func TestOccurrenceClampsToMonthEnd(t *testing.T) {
	got, err := GenerateSchedule(day("2024-01-31"), model.FrequencyMonthly, 1, day("2024-01-01"), time.Time{}, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"}, dates(got))

	got, err = GenerateSchedule(day("2025-01-31"), model.FrequencyMonthly, 1, day("2025-02-01"), time.Time{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02-28"}, dates(got))
}

func TestOccurrenceFrequencies(t *testing.T) {
	start := day("2026-01-15")
	cases := []struct {
		frequency string
		interval  int
		n         int
		want      string
	}{
		{model.FrequencyWeekly, 2, 3, "2026-02-26"},
		{model.FrequencyMonthly, 1, 13, "2027-02-15"},
		{model.FrequencyQuarterly, 1, 2, "2026-07-15"},
		{model.FrequencyYearly, 1, 1, "2027-01-15"},
	}
	for _, tc := range cases {
		t.Run(tc.frequency, func(t *testing.T) {
			got, err := Occurrence(start, tc.frequency, tc.interval, tc.n)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format(time.DateOnly))
		})
	}

	_, err := Occurrence(start, "fortnightly", 1, 1)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
	_, err = Occurrence(start, model.FrequencyWeekly, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidSchedule)
}

func TestGenerateScheduleBounds(t *testing.T) {
	got, err := GenerateSchedule(day("2026-01-01"), model.FrequencyWeekly, 1, day("2026-01-01"), time.Time{}, 10000)
	require.NoError(t, err)
	assert.Len(t, got, MaxScheduleLength)

	got, err = GenerateSchedule(day("2026-01-01"), model.FrequencyMonthly, 1, day("2026-03-01"), day("2026-06-01"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-04-01", "2026-05-01", "2026-06-01"}, dates(got))
}

func TestNextRunAfter(t *testing.T) {
	next, err := NextRunAfter(day("2026-01-31"), model.FrequencyMonthly, 1, day("2026-02-28"))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-31", next.Format(time.DateOnly))
}

func TestGenerateDueRecurringInvoices(t *testing.T) {
	db := newTestDB(t)
	freezeClock(t, time.Date(2026, 3, 20, 9, 0, 0, 0, time.UTC))

	customer := model.Customer{FirstName: "Grace"}
	require.NoError(t, db.Create(&customer).Error)

	end := day("2026-03-15")
	tpl := model.RecurringInvoice{
		CustomerId:   customer.ID,
		Title:        "Monthly room hire",
		Frequency:    model.FrequencyMonthly,
		Interval:     1,
		StartDate:    day("2026-01-15"),
		EndDate:      &end,
		NextRunDate:  day("2026-01-15"),
		DaysUntilDue: 14,
		IsActive:     true,
		Items: BuildRecurringLines([]model.LineItemInput{
			{Description: "Room hire", Quantity: 1, UnitPrice: 100},
		}),
	}
	require.NoError(t, db.Create(&tpl).Error)

	created, err := GenerateDueRecurringInvoices(db, day("2026-03-20"))
	require.NoError(t, err)
	assert.Equal(t, 3, created, "January, February and March runs are caught up")

	var invoices []model.Invoice
	require.NoError(t, db.Order("issue_date ASC").Find(&invoices).Error)
	require.Len(t, invoices, 3)
	assert.Equal(t, "INV-2026-00001", invoices[0].Number)
	assert.Equal(t, "INV-2026-00003", invoices[2].Number)
	assert.Equal(t, "2026-03-01", invoices[1].DueDate.Format(time.DateOnly))
	assert.Equal(t, 120.0, invoices[0].Total)
	assert.Equal(t, model.InvoiceDraft, invoices[0].Status)

	var stored model.RecurringInvoice
	require.NoError(t, db.First(&stored, tpl.ID).Error)
	assert.False(t, stored.IsActive, "template past its end date is switched off")
	assert.Equal(t, "2026-04-15", stored.NextRunDate.Format(time.DateOnly))

	created, err = GenerateDueRecurringInvoices(db, day("2026-03-20"))
	require.NoError(t, err)
	assert.Zero(t, created)
}
