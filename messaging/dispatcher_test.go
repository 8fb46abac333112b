package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"venue_manager/model"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	require.NoError(t, db.AutoMigrate(&model.Message{}, &model.WebhookLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fakeSMS fails the first failures calls with err, then succeeds.
type fakeSMS struct {
	mu       sync.Mutex
	failures int
	err      error
	calls    []string
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, to)
	if len(f.calls) <= f.failures {
		return "", f.err
	}
	return fmt.Sprintf("SM%03d", len(f.calls)), nil
}

type fakeEmail struct {
	subject, html string
}

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, html string) error {
	f.subject, f.html = subject, html
	return nil
}

func newTestDispatcher(t *testing.T, sms SMSSender, email EmailSender) *Dispatcher {
	d := NewDispatcher(openTestDB(t), sms, email)
	d.Clock = clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	d.Backoff = nil
	return d
}

func queue(t *testing.T, db *gorm.DB, m model.Message) model.Message {
	t.Helper()
	if m.Status == "" {
		m.Status = model.MessageQueued
	}
	if m.Body == "" {
		m.Body = "Your table is ready"
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func reload(t *testing.T, db *gorm.DB, id uint) model.Message {
	t.Helper()
	var m model.Message
	require.NoError(t, db.First(&m, id).Error)
	return m
}

func TestDeliverRetriesTransientFailures(t *testing.T) {
	sms := &fakeSMS{failures: 2, err: errors.New("timeout")}
	d := newTestDispatcher(t, sms, nil)
	m := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900123"})

	require.NoError(t, d.Deliver(context.Background(), m.ID))

	got := reload(t, d.DB, m.ID)
	assert.Equal(t, model.MessageSent, got.Status)
	assert.Equal(t, 3, got.Attempts)
	assert.Equal(t, "SM003", got.ProviderId)
	assert.Empty(t, got.LastError)
	assert.NotNil(t, got.SentAt)
}

func TestDeliverGivesUpAfterMaxAttempts(t *testing.T) {
	sms := &fakeSMS{failures: 10, err: errors.New("provider down")}
	d := newTestDispatcher(t, sms, nil)
	m := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900123"})

	require.NoError(t, d.Deliver(context.Background(), m.ID))

	got := reload(t, d.DB, m.ID)
	assert.Equal(t, model.MessageFailed, got.Status)
	assert.Equal(t, model.MaxMessageAttempts, got.Attempts)
	assert.Equal(t, "provider down", got.LastError)
	assert.Len(t, sms.calls, model.MaxMessageAttempts)
}

func TestDeliverStopsOnPermanentError(t *testing.T) {
	sms := &fakeSMS{failures: 10, err: &PermanentError{Err: errors.New("invalid number")}}
	d := newTestDispatcher(t, sms, nil)
	m := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+440000"})

	require.NoError(t, d.Deliver(context.Background(), m.ID))

	got := reload(t, d.DB, m.ID)
	assert.Equal(t, model.MessageFailed, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Len(t, sms.calls, 1)
}

func TestDeliverKeepsLongErrorValidUTF8(t *testing.T) {
	reason := "rejected: " + strings.Repeat("é", 600)
	sms := &fakeSMS{failures: 1, err: &PermanentError{Err: errors.New(reason)}}
	d := newTestDispatcher(t, sms, nil)
	m := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900123"})

	require.NoError(t, d.Deliver(context.Background(), m.ID))

	got := reload(t, d.DB, m.ID)
	assert.Equal(t, model.MessageFailed, got.Status)
	assert.True(t, utf8.ValidString(got.LastError))
	assert.Equal(t, maxLastError, utf8.RuneCountInString(got.LastError))
	assert.True(t, strings.HasPrefix(got.LastError, "rejected: é"))
}

func TestDeliverWithoutSender(t *testing.T) {
	d := newTestDispatcher(t, nil, nil)
	m := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900123"})

	require.NoError(t, d.Deliver(context.Background(), m.ID))
	got := reload(t, d.DB, m.ID)
	assert.Equal(t, model.MessageFailed, got.Status)
	assert.Contains(t, got.LastError, ErrChannelUnavailable.Error())
}

func TestDeliverEmailWrapsBody(t *testing.T) {
	email := &fakeEmail{}
	d := newTestDispatcher(t, nil, email)
	m := queue(t, d.DB, model.Message{Channel: model.ChannelEmail, To: "a@example.com", Subject: "Hi", Body: "Line one\n<b>two</b>"})

	require.NoError(t, d.Deliver(context.Background(), m.ID))
	assert.Equal(t, "Hi", email.subject)
	assert.Equal(t, "<p>Line one<br>&lt;b&gt;two&lt;/b&gt;</p>", email.html)
	assert.Equal(t, model.MessageSent, reload(t, d.DB, m.ID).Status)
}

func TestDeliverSkipsClaimedAndFutureMessages(t *testing.T) {
	sms := &fakeSMS{}
	d := newTestDispatcher(t, sms, nil)
	later := d.Clock.Now().Add(time.Hour)
	scheduled := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900123", ScheduledAt: &later})
	sent := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900124", Status: model.MessageSent})

	require.NoError(t, d.Deliver(context.Background(), scheduled.ID))
	require.NoError(t, d.Deliver(context.Background(), sent.ID))
	assert.Empty(t, sms.calls)
	assert.Equal(t, model.MessageQueued, reload(t, d.DB, scheduled.ID).Status)
}

func TestDrainQueued(t *testing.T) {
	sms := &fakeSMS{}
	d := newTestDispatcher(t, sms, nil)
	for i := 0; i < 3; i++ {
		queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: fmt.Sprintf("+44770090012%d", i)})
	}
	queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900199", Status: model.MessageFailed})

	n, err := d.DrainQueued(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"+447700900120", "+447700900121"}, sms.calls)

	n, err = d.DrainQueued(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReleaseStale(t *testing.T) {
	d := newTestDispatcher(t, &fakeSMS{}, nil)
	stuck := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900123", Status: model.MessageSending})
	require.NoError(t, d.DB.Model(&stuck).UpdateColumn("updated_at", d.Clock.Now().Add(-time.Hour)).Error)
	fresh := queue(t, d.DB, model.Message{Channel: model.ChannelSMS, To: "+447700900124", Status: model.MessageSending})
	require.NoError(t, d.DB.Model(&fresh).UpdateColumn("updated_at", d.Clock.Now()).Error)

	n, err := d.ReleaseStale(15 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, model.MessageQueued, reload(t, d.DB, stuck.ID).Status)
	assert.Equal(t, model.MessageSending, reload(t, d.DB, fresh.ID).Status)
}

func TestDeliverBacksOffOnFakeClock(t *testing.T) {
	sms := &fakeSMS{failures: 1, err: errors.New("busy")}
	db := openTestDB(t)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	d := NewDispatcher(db, sms, nil)
	d.Clock = clock
	m := queue(t, db, model.Message{Channel: model.ChannelSMS, To: "+447700900123"})

	done := make(chan error, 1)
	go func() { done <- d.Deliver(context.Background(), m.ID) }()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 1))
	clock.Advance(time.Second)
	require.NoError(t, <-done)
	assert.Equal(t, model.MessageSent, reload(t, db, m.ID).Status)
}
