package jobs

import (
	"context"
	"time"

	"venue_manager/helper"
	"venue_manager/messaging"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Messages left in sending this long are assumed orphaned by a crash.
const staleSending = 10 * time.Minute

type Scheduler struct {
	daily    gocron.Scheduler
	frequent *cron.Cron
	cancel   context.CancelFunc
}

// Start registers the daily bookkeeping jobs on gocron and the minute-level
// jobs on robfig/cron, both in the venue timezone.
func Start(db *gorm.DB, dispatcher *messaging.Dispatcher, loc *time.Location) (*Scheduler, error) {
	daily, err := gocron.NewScheduler(
		gocron.WithLocation(loc),
		gocron.WithClock(helper.Clock),
	)
	if err != nil {
		return nil, err
	}

	type dailyJob struct {
		name         string
		hour, minute uint
		task         func()
	}
	dailyJobs := []dailyJob{
		{"recurring-invoices", 0, 5, func() { logErr("recurring invoices", ignoreCount(RunRecurringInvoices(db))) }},
		{"quote-expiry", 0, 10, func() { logErr("quote expiry", ignoreCount64(RunQuoteExpiry(db))) }},
		{"overdue-invoices", 0, 15, func() { logErr("overdue invoices", ignoreCount64(RunOverdueInvoices(db))) }},
	}
	for _, j := range dailyJobs {
		if _, err := daily.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(j.hour, j.minute, 0))),
			gocron.NewTask(j.task),
			gocron.WithName(j.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			_ = daily.Shutdown()
			return nil, err
		}
	}
	if _, err := daily.NewJob(
		gocron.MonthlyJob(1, gocron.NewDaysOfTheMonth(1), gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() { logErr("loyalty expiry", ignoreCount(RunLoyaltyExpiry(db))) }),
		gocron.WithName("loyalty-expiry"),
	); err != nil {
		_ = daily.Shutdown()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	frequent := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if dispatcher != nil {
		if _, err := frequent.AddFunc("* * * * *", func() {
			logErr("message dispatch", ignoreCount(RunDispatch(ctx, dispatcher)))
		}); err != nil {
			cancel()
			_ = daily.Shutdown()
			return nil, err
		}
	}
	if _, err := frequent.AddFunc("*/5 * * * *", func() {
		logErr("no-show sweep", ignoreCount(RunNoShowSweep(db)))
	}); err != nil {
		cancel()
		_ = daily.Shutdown()
		return nil, err
	}

	daily.Start()
	frequent.Start()
	zap.S().Infof("Scheduler started (%s)", loc)
	return &Scheduler{daily: daily, frequent: frequent, cancel: cancel}, nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.frequent.Stop().Done()
	if err := s.daily.Shutdown(); err != nil {
		zap.S().Warnf("scheduler shutdown: %v", err)
	}
	zap.S().Info("Scheduler stopped")
}

func logErr(job string, err error) {
	if err != nil {
		zap.S().Errorf("job %s failed: %v", job, err)
	}
}

func ignoreCount(_ int, err error) error     { return err }
func ignoreCount64(_ int64, err error) error { return err }
