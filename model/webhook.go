package model

import "time"

type WebhookLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventId    string    `gorm:"size:64;uniqueIndex;not null" json:"eventId"`
	Source     string    `gorm:"size:30;not null;index" json:"source"`
	EventType  string    `gorm:"size:50" json:"eventType"`
	Payload    string    `gorm:"type:text" json:"payload"`
	Verified   bool      `gorm:"not null" json:"verified"`
	Processed  bool      `gorm:"not null;default:false" json:"processed"`
	Error      string    `gorm:"size:500" json:"error"`
	ReceivedAt time.Time `gorm:"not null;index" json:"receivedAt"`
}

type SmsStatusCallback struct {
	MessageSid    string `form:"MessageSid" json:"MessageSid"`
	MessageStatus string `form:"MessageStatus" json:"MessageStatus"`
	ErrorCode     string `form:"ErrorCode" json:"ErrorCode"`
	To            string `form:"To" json:"To"`
}

type FilterWebhookLog struct {
	Pagination
	Source    string `query:"source"`
	Processed *bool  `query:"processed"`
}
