package model

import "time"

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
)

const (
	MessageQueued    = "queued"
	MessageSending   = "sending"
	MessageSent      = "sent"
	MessageDelivered = "delivered"
	MessageFailed    = "failed"
)

const MaxMessageAttempts = 3

type Message struct {
	DTO
	Channel     string     `gorm:"size:10;not null;index" json:"channel"`
	CustomerId  *uint      `gorm:"index" json:"customerId"`
	To          string     `gorm:"size:160;not null" json:"to"`
	Subject     string     `gorm:"size:200" json:"subject"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	ProviderId  string     `gorm:"size:64;index" json:"providerId"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	LastError   string     `gorm:"size:500" json:"lastError"`
	CampaignId  string     `gorm:"size:36;index" json:"campaignId"`
	ScheduledAt *time.Time `gorm:"index" json:"scheduledAt"`
	SentAt      *time.Time `json:"sentAt"`
	CreatedBy   *uint      `json:"createdBy"`
}

type SendMessageInput struct {
	Channel     string `json:"channel" validate:"required,oneof=sms email"`
	CustomerId  *uint  `json:"customerId" validate:"omitempty,gt=0"`
	To          string `json:"to" validate:"omitempty,max=160"`
	Subject     string `json:"subject" validate:"omitempty,max=200"`
	Body        string `json:"body" validate:"required,max=1600"`
	ScheduledAt string `json:"scheduledAt" validate:"omitempty,datetime=2006-01-02T15:04"`
}

type BulkMessageInput struct {
	Channel     string `json:"channel" validate:"required,oneof=sms email"`
	Subject     string `json:"subject" validate:"omitempty,max=200"`
	Body        string `json:"body" validate:"required,max=1600"`
	ScheduledAt string `json:"scheduledAt" validate:"omitempty,datetime=2006-01-02T15:04"`
}

type FilterMessage struct {
	Pagination
	Channel    string `query:"channel"`
	Status     string `query:"status"`
	CustomerId *uint  `query:"customerId"`
	CampaignId string `query:"campaignId"`
}

// MessageJob is the payload published to the outbound queue.
type MessageJob struct {
	MessageId uint `json:"messageId"`
}
