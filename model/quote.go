package model

import "time"

const (
	QuoteDraft     = "draft"
	QuoteSent      = "sent"
	QuoteAccepted  = "accepted"
	QuoteRejected  = "rejected"
	QuoteExpired   = "expired"
	QuoteConverted = "converted"
)

type Quote struct {
	DTO
	Number             string          `gorm:"size:30;uniqueIndex;not null" json:"number"`
	CustomerId         *uint           `gorm:"index" json:"customerId"`
	Customer           *Customer       `json:"customer,omitempty"`
	PrivateBookingId   *uint           `gorm:"index" json:"privateBookingId"`
	Title              string          `gorm:"size:200;not null" json:"title"`
	Status             string          `gorm:"size:20;not null;index" json:"status"`
	ValidUntil         time.Time       `gorm:"type:date;not null" json:"validUntil"`
	Subtotal           float64         `gorm:"not null;default:0" json:"subtotal"`
	VatTotal           float64         `gorm:"not null;default:0" json:"vatTotal"`
	Total              float64         `gorm:"not null;default:0" json:"total"`
	Notes              string          `gorm:"type:text" json:"notes"`
	SentAt             *time.Time      `json:"sentAt"`
	AcceptedAt         *time.Time      `json:"acceptedAt"`
	ConvertedInvoiceId *uint           `json:"convertedInvoiceId"`
	Items              []QuoteLineItem `gorm:"foreignKey:QuoteId" json:"items,omitempty"`
}

type QuoteLineItem struct {
	DTO
	QuoteId         uint    `gorm:"not null;index" json:"quoteId"`
	Description     string  `gorm:"size:255;not null" json:"description"`
	Quantity        float64 `gorm:"not null" json:"quantity"`
	UnitPrice       float64 `gorm:"not null" json:"unitPrice"`
	DiscountPercent float64 `gorm:"not null;default:0" json:"discountPercent"`
	VatRate         float64 `gorm:"not null;default:20" json:"vatRate"`
	LineTotal       float64 `gorm:"not null" json:"lineTotal"`
	VatAmount       float64 `gorm:"not null" json:"vatAmount"`
	Position        int     `gorm:"not null;default:0" json:"position"`
}

type LineItemInput struct {
	Description     string   `json:"description" validate:"required,max=255"`
	Quantity        float64  `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64  `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64  `json:"discountPercent" validate:"gte=0,lte=100"`
	VatRate         *float64 `json:"vatRate" validate:"omitempty,gte=0,lte=100"`
}

type CreateQuoteInput struct {
	CustomerId       *uint           `json:"customerId" validate:"omitempty,gt=0"`
	PrivateBookingId *uint           `json:"privateBookingId" validate:"omitempty,gt=0"`
	Title            string          `json:"title" validate:"required,max=200"`
	ValidUntil       string          `json:"validUntil" validate:"required,datetime=2006-01-02"`
	Notes            string          `json:"notes" validate:"omitempty,max=4000"`
	Items            []LineItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

type UpdateQuoteInput struct {
	Title      *string         `json:"title" validate:"omitempty,max=200"`
	ValidUntil *string         `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string         `json:"notes" validate:"omitempty,max=4000"`
	Items      []LineItemInput `json:"items" validate:"omitempty,max=100,dive"`
}

type FilterQuote struct {
	Pagination
	Status     string `query:"status"`
	CustomerId *uint  `query:"customerId"`
	Search     string `query:"search"`
}
