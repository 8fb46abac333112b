package handler

import (
	"time"

	"venue_manager/constants"
	"venue_manager/database"
	"venue_manager/helper"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// upcomingEventDays is the window, today included, counted as upcoming events.
const upcomingEventDays = 7

// GetDashboard runs the dashboard aggregates concurrently and caches the result briefly.
func GetDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	key := helper.CacheKey(helper.TagDashboard, helper.Today().Format(constants.DATE_LAYOUT))

	var stats model.DashboardStats
	if helper.GetCached(ctx, key, &stats) {
		return utils.SuccessResponse(c, fiber.StatusOK, stats)
	}

	db := database.DB.WithContext(ctx)
	today := helper.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	weekAgo := helper.Clock.Now().AddDate(0, 0, -7)

	var g errgroup.Group
	g.Go(func() error {
		return db.Model(&model.TableBooking{}).
			Where("booking_date = ? AND status IN ?", today, model.ActiveTableBookingStatuses).
			Count(&stats.TodayBookings).Error
	})
	g.Go(func() error {
		return db.Model(&model.TableBooking{}).
			Select("COALESCE(SUM(party_size), 0)").
			Where("booking_date = ? AND status IN ?", today, model.ActiveTableBookingStatuses).
			Scan(&stats.TodayCovers).Error
	})
	g.Go(func() error {
		return db.Model(&model.PrivateBooking{}).
			Where("event_date >= ? AND event_date < ? AND status IN ?", today, today.AddDate(0, 0, upcomingEventDays),
				[]string{model.PrivateBookingTentative, model.PrivateBookingConfirmed}).
			Count(&stats.UpcomingEvents).Error
	})
	g.Go(func() error {
		return db.Model(&model.InvoicePayment{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("paid_at >= ?", monthStart).
			Scan(&stats.RevenueThisMonth).Error
	})
	g.Go(func() error {
		return db.Model(&model.InvoicePayment{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("paid_at >= ? AND paid_at < ?", lastMonthStart, monthStart).
			Scan(&stats.RevenueLastMonth).Error
	})
	g.Go(func() error {
		return db.Model(&model.Invoice{}).
			Select("COALESCE(SUM(total - amount_paid), 0)").
			Where("status IN ?", []string{model.InvoiceSent, model.InvoicePartiallyPaid, model.InvoiceOverdue}).
			Scan(&stats.OutstandingInvoices).Error
	})
	g.Go(func() error {
		var overdue struct {
			Amount float64
			Count  int64
		}
		err := db.Model(&model.Invoice{}).
			Select("COALESCE(SUM(total - amount_paid), 0) AS amount, COUNT(*) AS count").
			Where("status = ?", model.InvoiceOverdue).
			Scan(&overdue).Error
		stats.OverdueInvoices = overdue.Amount
		stats.OverdueInvoiceCount = overdue.Count
		return err
	})
	g.Go(func() error {
		return db.Model(&model.LoyaltyMember{}).
			Where("status = ?", model.MemberActive).
			Count(&stats.LoyaltyMembers).Error
	})
	g.Go(func() error {
		return db.Model(&model.Message{}).
			Where("status IN ? AND sent_at >= ?", []string{model.MessageSent, model.MessageDelivered}, weekAgo).
			Count(&stats.MessagesSentLastWeek).Error
	})
	if err := g.Wait(); err != nil {
		return failure(c, err)
	}

	stats.RevenueThisMonth = helper.Round2(stats.RevenueThisMonth)
	stats.RevenueLastMonth = helper.Round2(stats.RevenueLastMonth)
	stats.OutstandingInvoices = helper.Round2(stats.OutstandingInvoices)
	stats.OverdueInvoices = helper.Round2(stats.OverdueInvoices)
	stats.RevenueGrowth = utils.CalculateGrowth(stats.RevenueThisMonth, stats.RevenueLastMonth)

	helper.SetCached(ctx, key, stats, dashboardCacheTTL)
	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}

func NoShowReport(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.DateRange)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	from, to, err := dateRange(filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	report, err := utils.GetNoShowDailyReport(database.DB, from, to)
	if err != nil {
		return failure(c, err)
	}

	totalNoShows := 0
	for _, r := range report {
		totalNoShows += r.NoShowBookings
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"report": report,
		"summary": fiber.Map{
			"averageNoShowRate": utils.CalculateAverage(report),
			"totalNoShows":      totalNoShows,
			"totalLoss":         utils.CalculateTotalLoss(report),
		},
		"period": fiber.Map{
			"from": from.Format(constants.DISPLAY_LAYOUT),
			"to":   to.Format(constants.DISPLAY_LAYOUT),
		},
	})
}

func RevenueReport(c *fiber.Ctx) error {
	filter, ok := c.Locals("filter").(model.DateRange)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errParseLocals)
	}
	from, to, err := dateRange(filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	report, err := utils.GetRevenueDailyReport(database.DB, from, to, helper.VenueLocation())
	if err != nil {
		return failure(c, err)
	}

	var total float64
	var payments int64
	for _, r := range report {
		total += r.Amount
		payments += r.Payments
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"report": report,
		"summary": fiber.Map{
			"total":    helper.Round2(total),
			"payments": payments,
		},
		"period": fiber.Map{
			"from": from.Format(constants.DISPLAY_LAYOUT),
			"to":   to.Format(constants.DISPLAY_LAYOUT),
		},
	})
}
