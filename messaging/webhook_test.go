package messaging

import (
	"testing"
	"time"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte("MessageSid=SM1&MessageStatus=delivered")
	sig := SignPayload("s3cret", payload)

	assert.True(t, VerifySignature("s3cret", payload, sig))
	assert.True(t, VerifySignature("s3cret", payload, " "+sig+" "))
	assert.False(t, VerifySignature("other", payload, sig))
	assert.False(t, VerifySignature("s3cret", append(payload, '!'), sig))
	assert.False(t, VerifySignature("", payload, SignPayload("", payload)))
	assert.False(t, VerifySignature("s3cret", payload, ""))
}

func TestMapProviderStatus(t *testing.T) {
	for in, want := range map[string]string{
		"sent":        model.MessageSent,
		"DELIVERED":   model.MessageDelivered,
		"read":        model.MessageDelivered,
		"undelivered": model.MessageFailed,
		"canceled":    model.MessageFailed,
		"queued":      "",
		"accepted":    "",
	} {
		assert.Equal(t, want, MapProviderStatus(in), in)
	}
}

func TestApplyStatusCallback(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	m := queue(t, db, model.Message{Channel: model.ChannelSMS, To: "+447700900123", Status: model.MessageSent, ProviderId: "SM42"})

	t.Run("moves forward", func(t *testing.T) {
		applied, err := ApplyStatusCallback(db, model.SmsStatusCallback{MessageSid: "SM42", MessageStatus: "delivered"}, now)
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, model.MessageDelivered, reload(t, db, m.ID).Status)
	})

	t.Run("late sent callback is ignored", func(t *testing.T) {
		applied, err := ApplyStatusCallback(db, model.SmsStatusCallback{MessageSid: "SM42", MessageStatus: "sent"}, now)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, model.MessageDelivered, reload(t, db, m.ID).Status)
	})

	t.Run("failure after delivery is ignored", func(t *testing.T) {
		applied, err := ApplyStatusCallback(db, model.SmsStatusCallback{MessageSid: "SM42", MessageStatus: "failed", ErrorCode: "30003"}, now)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("failure records the provider code", func(t *testing.T) {
		other := queue(t, db, model.Message{Channel: model.ChannelSMS, To: "+447700900124", Status: model.MessageSent, ProviderId: "SM43"})
		applied, err := ApplyStatusCallback(db, model.SmsStatusCallback{MessageSid: "SM43", MessageStatus: "undelivered", ErrorCode: "30005"}, now)
		require.NoError(t, err)
		assert.True(t, applied)
		got := reload(t, db, other.ID)
		assert.Equal(t, model.MessageFailed, got.Status)
		assert.Equal(t, "provider error 30005", got.LastError)
	})

	t.Run("unknown provider id", func(t *testing.T) {
		_, err := ApplyStatusCallback(db, model.SmsStatusCallback{MessageSid: "SM404", MessageStatus: "delivered"}, now)
		assert.Error(t, err)
	})

	t.Run("intermediate states are no-ops", func(t *testing.T) {
		applied, err := ApplyStatusCallback(db, model.SmsStatusCallback{MessageSid: "SM404", MessageStatus: "queued"}, now)
		require.NoError(t, err)
		assert.False(t, applied)
	})
}
