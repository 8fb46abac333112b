package utils

import (
	"math"
	"sort"
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
)

// CalculateAverage is the no-show rate across all days, weighted by bookings per day.
func CalculateAverage(report []model.NoShowDailyReport) float64 {
	if len(report) == 0 {
		return 0.0
	}

	var totalBookings, totalNoShow int64
	for _, r := range report {
		totalBookings += int64(r.TotalBookings)
		totalNoShow += int64(r.NoShowBookings)
	}

	if totalBookings == 0 {
		return 0.0
	}
	return roundFloat((float64(totalNoShow)/float64(totalBookings))*100, 2)
}

func CalculateTotalLoss(report []model.NoShowDailyReport) float64 {
	var totalLoss float64
	for _, r := range report {
		totalLoss += r.LostDeposits
	}
	return roundFloat(totalLoss, 2)
}

func roundFloat(val float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(val*p) / p
}

// GetNoShowDailyReport groups table bookings in [from, to] by service date.
// Cancelled bookings are left out of the totals.
func GetNoShowDailyReport(db *gorm.DB, from, to time.Time) ([]model.NoShowDailyReport, error) {
	var rows []struct {
		BookingDate   time.Time
		Status        string
		DepositAmount float64
	}
	err := db.Model(&model.TableBooking{}).
		Select("booking_date, status, deposit_amount").
		Where("booking_date BETWEEN ? AND ? AND status <> ?", from, to, model.TableBookingCancelled).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDay := map[string]*model.NoShowDailyReport{}
	for _, r := range rows {
		key := r.BookingDate.Format(time.DateOnly)
		day, ok := byDay[key]
		if !ok {
			day = &model.NoShowDailyReport{Date: key}
			byDay[key] = day
		}
		day.TotalBookings++
		if r.Status == model.TableBookingNoShow {
			day.NoShowBookings++
			day.LostDeposits += r.DepositAmount
		}
	}

	results := make([]model.NoShowDailyReport, 0, len(byDay))
	for _, day := range byDay {
		if day.TotalBookings > 0 {
			day.NoShowRate = roundFloat(float64(day.NoShowBookings)/float64(day.TotalBookings)*100, 2)
		}
		day.LostDeposits = roundFloat(day.LostDeposits, 2)
		results = append(results, *day)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date > results[j].Date })
	return results, nil
}

// GetRevenueDailyReport sums invoice payments per day of receipt in the venue timezone.
func GetRevenueDailyReport(db *gorm.DB, from, to time.Time, loc *time.Location) ([]model.RevenueDailyReport, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	var payments []model.InvoicePayment
	if err := db.Where("paid_at >= ? AND paid_at < ?", start, end).Find(&payments).Error; err != nil {
		return nil, err
	}

	byDay := map[string]*model.RevenueDailyReport{}
	for _, p := range payments {
		key := p.PaidAt.In(loc).Format(time.DateOnly)
		day, ok := byDay[key]
		if !ok {
			day = &model.RevenueDailyReport{Date: key}
			byDay[key] = day
		}
		day.Payments++
		day.Amount += p.Amount
	}

	results := make([]model.RevenueDailyReport, 0, len(byDay))
	for _, day := range byDay {
		day.Amount = roundFloat(day.Amount, 2)
		results = append(results, *day)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}
