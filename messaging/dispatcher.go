package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue_manager/metrics"
	"venue_manager/model"
	"venue_manager/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxLastError = 500

var ErrChannelUnavailable = errors.New("no sender configured for channel")

// Dispatcher delivers queued messages. Each delivery claims the row with a
// queued -> sending compare-and-swap so the cron drain and a queue consumer
// never send the same message twice.
type Dispatcher struct {
	DB    *gorm.DB
	SMS   SMSSender
	Email EmailSender
	Clock clockwork.Clock
	// Backoff returns the wait before the given retry (1-based).
	Backoff func(attempt int) time.Duration
}

func NewDispatcher(db *gorm.DB, sms SMSSender, email EmailSender) *Dispatcher {
	return &Dispatcher{
		DB:    db,
		SMS:   sms,
		Email: email,
		Clock: clockwork.NewRealClock(),
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt*attempt) * time.Second
		},
	}
}

func (d *Dispatcher) send(ctx context.Context, m *model.Message) (string, error) {
	switch m.Channel {
	case model.ChannelSMS:
		if d.SMS == nil {
			return "", &PermanentError{Err: ErrChannelUnavailable}
		}
		return d.SMS.SendSMS(ctx, m.To, m.Body)
	case model.ChannelEmail:
		if d.Email == nil {
			return "", &PermanentError{Err: ErrChannelUnavailable}
		}
		return "", d.Email.SendEmail(ctx, m.To, m.Subject, EmailHTML(m.Body))
	}
	return "", &PermanentError{Err: fmt.Errorf("unknown channel %q", m.Channel)}
}

// Deliver sends one message, retrying transient failures until the message
// has used model.MaxMessageAttempts. A message that is not queued is skipped.
func (d *Dispatcher) Deliver(ctx context.Context, messageId uint) error {
	now := d.Clock.Now()
	claim := d.DB.Model(&model.Message{}).
		Where("id = ? AND status = ? AND (scheduled_at IS NULL OR scheduled_at <= ?)", messageId, model.MessageQueued, now).
		Updates(map[string]any{"status": model.MessageSending, "updated_at": now})
	if claim.Error != nil {
		return claim.Error
	}
	if claim.RowsAffected == 0 {
		return nil
	}

	var m model.Message
	if err := d.DB.First(&m, messageId).Error; err != nil {
		return err
	}

	var lastErr error
	for m.Attempts < model.MaxMessageAttempts {
		if m.Attempts > 0 && lastErr != nil && d.Backoff != nil {
			select {
			case <-ctx.Done():
				return d.finish(&m, "", ctx.Err())
			case <-d.Clock.After(d.Backoff(m.Attempts)):
			}
		}
		m.Attempts++
		providerId, err := d.send(ctx, &m)
		if err == nil {
			return d.finish(&m, providerId, nil)
		}
		lastErr = err
		zap.L().Warn("message delivery failed",
			zap.Uint("messageId", m.ID),
			zap.String("channel", m.Channel),
			zap.Int("attempt", m.Attempts),
			zap.Error(err))
		if IsPermanent(err) {
			break
		}
	}
	return d.finish(&m, "", lastErr)
}

func (d *Dispatcher) finish(m *model.Message, providerId string, sendErr error) error {
	now := d.Clock.Now()
	updates := map[string]any{"attempts": m.Attempts, "updated_at": now}
	if sendErr == nil {
		updates["status"] = model.MessageSent
		updates["provider_id"] = providerId
		updates["sent_at"] = now
		updates["last_error"] = ""
		metrics.MessagesTotal.WithLabelValues(m.Channel, "sent").Inc()
	} else {
		updates["last_error"] = utils.Truncate(sendErr.Error(), maxLastError)
		if m.Attempts >= model.MaxMessageAttempts || IsPermanent(sendErr) {
			updates["status"] = model.MessageFailed
			metrics.MessagesTotal.WithLabelValues(m.Channel, "failed").Inc()
		} else {
			// Interrupted before using every attempt: hand it back to the queue.
			updates["status"] = model.MessageQueued
		}
	}
	return d.DB.Model(&model.Message{}).Where("id = ?", m.ID).Updates(updates).Error
}

// DrainQueued delivers up to limit messages that are due, oldest first.
func (d *Dispatcher) DrainQueued(ctx context.Context, limit int) (int, error) {
	var ids []uint
	err := d.DB.Model(&model.Message{}).
		Where("status = ? AND (scheduled_at IS NULL OR scheduled_at <= ?)", model.MessageQueued, d.Clock.Now()).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := d.Deliver(ctx, id); err != nil {
			zap.S().Errorf("deliver message %d: %v", id, err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// ReleaseStale hands messages stuck in sending (after a crash) back to the queue.
func (d *Dispatcher) ReleaseStale(olderThan time.Duration) (int64, error) {
	res := d.DB.Model(&model.Message{}).
		Where("status = ? AND updated_at < ?", model.MessageSending, d.Clock.Now().Add(-olderThan)).
		Update("status", model.MessageQueued)
	return res.RowsAffected, res.Error
}
