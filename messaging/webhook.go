package messaging

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"venue_manager/model"

	"gorm.io/gorm"
)

// SignPayload is the hex HMAC-SHA256 of the raw request body.
func SignPayload(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret string, payload []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := SignPayload(secret, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// MapProviderStatus folds provider callback states into message statuses.
// Unknown or intermediate states return "".
func MapProviderStatus(status string) string {
	switch strings.ToLower(status) {
	case "sent":
		return model.MessageSent
	case "delivered", "read":
		return model.MessageDelivered
	case "failed", "undelivered", "canceled":
		return model.MessageFailed
	}
	return ""
}

var statusRank = map[string]int{
	model.MessageQueued:    0,
	model.MessageSending:   1,
	model.MessageSent:      2,
	model.MessageDelivered: 3,
	model.MessageFailed:    3,
}

// ApplyStatusCallback moves the message identified by its provider id forward.
// Callbacks arriving out of order never move a message backwards.
func ApplyStatusCallback(db *gorm.DB, cb model.SmsStatusCallback, now time.Time) (bool, error) {
	next := MapProviderStatus(cb.MessageStatus)
	if next == "" || cb.MessageSid == "" {
		return false, nil
	}

	var m model.Message
	if err := db.Where("provider_id = ?", cb.MessageSid).First(&m).Error; err != nil {
		return false, err
	}
	if statusRank[next] <= statusRank[m.Status] {
		return false, nil
	}

	updates := map[string]any{"status": next, "updated_at": now}
	if next == model.MessageFailed && cb.ErrorCode != "" {
		updates["last_error"] = "provider error " + cb.ErrorCode
	}
	res := db.Model(&model.Message{}).Where("id = ? AND status = ?", m.ID, m.Status).Updates(updates)
	return res.RowsAffected == 1, res.Error
}
