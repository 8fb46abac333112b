package helper

import (
	"errors"
	"fmt"
	"time"

	"venue_manager/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	MaxScheduleLength = 500
	maxCatchUpRuns    = 24
)

var ErrInvalidSchedule = errors.New("invalid recurring schedule")

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// addMonthsClamped keeps the anchor day where the target month has it and
// falls back to that month's last day otherwise.
func addMonthsClamped(start time.Time, months int, anchorDay int) time.Time {
	first := time.Date(start.Year(), start.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := anchorDay
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Occurrence returns the n-th run date (n = 0 is the start date) of a schedule.
func Occurrence(start time.Time, frequency string, interval, n int) (time.Time, error) {
	if interval < 1 {
		return time.Time{}, fmt.Errorf("%w: interval must be at least 1", ErrInvalidSchedule)
	}
	start = DateOnly(start)
	switch frequency {
	case model.FrequencyWeekly:
		return start.AddDate(0, 0, 7*interval*n), nil
	case model.FrequencyMonthly:
		return addMonthsClamped(start, interval*n, start.Day()), nil
	case model.FrequencyQuarterly:
		return addMonthsClamped(start, 3*interval*n, start.Day()), nil
	case model.FrequencyYearly:
		return addMonthsClamped(start, 12*interval*n, start.Day()), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidSchedule, frequency)
}

// GenerateSchedule lists the run dates of a schedule anchored at start that fall
// inside [from, until]. A zero until means open ended; at most limit dates are returned.
func GenerateSchedule(start time.Time, frequency string, interval int, from, until time.Time, limit int) ([]time.Time, error) {
	if limit <= 0 || limit > MaxScheduleLength {
		limit = MaxScheduleLength
	}
	from = DateOnly(from)
	if !until.IsZero() {
		until = DateOnly(until)
	}

	dates := make([]time.Time, 0, limit)
	for n := 0; len(dates) < limit; n++ {
		d, err := Occurrence(start, frequency, interval, n)
		if err != nil {
			return nil, err
		}
		if !until.IsZero() && d.After(until) {
			break
		}
		if !d.Before(from) {
			dates = append(dates, d)
		}
		if n > 100000 {
			break
		}
	}
	return dates, nil
}

// NextRunAfter is the first run date strictly after the given date.
func NextRunAfter(start time.Time, frequency string, interval int, after time.Time) (time.Time, error) {
	dates, err := GenerateSchedule(start, frequency, interval, DateOnly(after).AddDate(0, 0, 1), time.Time{}, 1)
	if err != nil {
		return time.Time{}, err
	}
	if len(dates) == 0 {
		return time.Time{}, ErrInvalidSchedule
	}
	return dates[0], nil
}

// GenerateDueRecurringInvoices issues an invoice for every active template whose
// next run date is today or earlier, catching up missed runs, and returns the
// number of invoices created.
func GenerateDueRecurringInvoices(db *gorm.DB, today time.Time) (int, error) {
	today = DateOnly(today)

	var templates []model.RecurringInvoice
	if err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("is_active = ? AND next_run_date <= ?", true, today).Find(&templates).Error; err != nil {
		return 0, err
	}

	created := 0
	for i := range templates {
		n, err := runRecurringTemplate(db, &templates[i], today)
		created += n
		if err != nil {
			zap.S().Errorf("recurring invoice %d: %v", templates[i].ID, err)
		}
	}
	return created, nil
}

func runRecurringTemplate(db *gorm.DB, tpl *model.RecurringInvoice, today time.Time) (int, error) {
	created := 0
	for runs := 0; runs < maxCatchUpRuns && !DateOnly(tpl.NextRunDate).After(today); runs++ {
		runDate := DateOnly(tpl.NextRunDate)
		if tpl.EndDate != nil && runDate.After(DateOnly(*tpl.EndDate)) {
			break
		}
		next, err := NextRunAfter(tpl.StartDate, tpl.Frequency, tpl.Interval, runDate)
		if err != nil {
			return created, err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			number, err := NextDocumentNumber(tx, "invoices", "INV", runDate)
			if err != nil {
				return err
			}
			lines, totals := RecurringLinesToInvoice(tpl.Items)
			customerId := tpl.CustomerId
			invoice := model.Invoice{
				Number:             number,
				CustomerId:         &customerId,
				RecurringInvoiceId: &tpl.ID,
				Title:              tpl.Title,
				Status:             model.InvoiceDraft,
				IssueDate:          runDate,
				DueDate:            runDate.AddDate(0, 0, tpl.DaysUntilDue),
				Subtotal:           totals.Subtotal,
				VatTotal:           totals.VatTotal,
				Total:              totals.Total,
				Notes:              tpl.Notes,
			}
			if err := tx.Omit("Items", "Payments").Create(&invoice).Error; err != nil {
				return err
			}
			for i := range lines {
				lines[i].InvoiceId = invoice.ID
			}
			if len(lines) > 0 {
				if err := tx.Create(&lines).Error; err != nil {
					return err
				}
			}

			now := Clock.Now()
			res := tx.Model(&model.RecurringInvoice{}).
				Where("id = ? AND next_run_date = ?", tpl.ID, tpl.NextRunDate).
				Updates(map[string]any{"next_run_date": next, "last_generated_at": now, "updated_at": now})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConcurrentUpdate
			}
			return nil
		})
		if err != nil {
			return created, err
		}
		created++
		tpl.NextRunDate = next
	}

	if tpl.EndDate != nil && DateOnly(tpl.NextRunDate).After(DateOnly(*tpl.EndDate)) {
		if err := db.Model(&model.RecurringInvoice{}).Where("id = ?", tpl.ID).
			Update("is_active", false).Error; err != nil {
			return created, err
		}
		tpl.IsActive = false
	}
	return created, nil
}
