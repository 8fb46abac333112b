package model

import "time"

const (
	InvoiceDraft         = "draft"
	InvoiceSent          = "sent"
	InvoicePartiallyPaid = "partially_paid"
	InvoicePaid          = "paid"
	InvoiceOverdue       = "overdue"
	InvoiceVoid          = "void"
)

type Invoice struct {
	DTO
	Number             string            `gorm:"size:30;uniqueIndex;not null" json:"number"`
	CustomerId         *uint             `gorm:"index" json:"customerId"`
	Customer           *Customer         `json:"customer,omitempty"`
	QuoteId            *uint             `gorm:"index" json:"quoteId"`
	RecurringInvoiceId *uint             `gorm:"index" json:"recurringInvoiceId"`
	Title              string            `gorm:"size:200;not null" json:"title"`
	Status             string            `gorm:"size:20;not null;index" json:"status"`
	IssueDate          time.Time         `gorm:"type:date;not null" json:"issueDate"`
	DueDate            time.Time         `gorm:"type:date;not null;index" json:"dueDate"`
	Subtotal           float64           `gorm:"not null;default:0" json:"subtotal"`
	VatTotal           float64           `gorm:"not null;default:0" json:"vatTotal"`
	Total              float64           `gorm:"not null;default:0" json:"total"`
	AmountPaid         float64           `gorm:"not null;default:0" json:"amountPaid"`
	Notes              string            `gorm:"type:text" json:"notes"`
	SentAt             *time.Time        `json:"sentAt"`
	PaidAt             *time.Time        `json:"paidAt"`
	VoidedAt           *time.Time        `json:"voidedAt"`
	Items              []InvoiceLineItem `gorm:"foreignKey:InvoiceId" json:"items,omitempty"`
	Payments           []InvoicePayment  `gorm:"foreignKey:InvoiceId" json:"payments,omitempty"`
}

func (i Invoice) Outstanding() float64 {
	return i.Total - i.AmountPaid
}

type InvoiceLineItem struct {
	DTO
	InvoiceId       uint    `gorm:"not null;index" json:"invoiceId"`
	Description     string  `gorm:"size:255;not null" json:"description"`
	Quantity        float64 `gorm:"not null" json:"quantity"`
	UnitPrice       float64 `gorm:"not null" json:"unitPrice"`
	DiscountPercent float64 `gorm:"not null;default:0" json:"discountPercent"`
	VatRate         float64 `gorm:"not null;default:20" json:"vatRate"`
	LineTotal       float64 `gorm:"not null" json:"lineTotal"`
	VatAmount       float64 `gorm:"not null" json:"vatAmount"`
	Position        int     `gorm:"not null;default:0" json:"position"`
}

type InvoicePayment struct {
	DTO
	InvoiceId  uint      `gorm:"not null;index" json:"invoiceId"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Method     string    `gorm:"size:20;not null" json:"method"`
	Reference  string    `gorm:"size:100" json:"reference"`
	PaidAt     time.Time `gorm:"not null;index" json:"paidAt"`
	RecordedBy *uint     `json:"recordedBy"`
}

type CreateInvoiceInput struct {
	CustomerId *uint           `json:"customerId" validate:"omitempty,gt=0"`
	Title      string          `json:"title" validate:"required,max=200"`
	IssueDate  string          `json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
	DueDate    string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Notes      string          `json:"notes" validate:"omitempty,max=4000"`
	Items      []LineItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

type UpdateInvoiceInput struct {
	Title   *string         `json:"title" validate:"omitempty,max=200"`
	DueDate *string         `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Notes   *string         `json:"notes" validate:"omitempty,max=4000"`
	Items   []LineItemInput `json:"items" validate:"omitempty,max=100,dive"`
}

type RecordPaymentInput struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required,oneof=card cash bank_transfer paypal other"`
	Reference string  `json:"reference" validate:"omitempty,max=100"`
	PaidAt    string  `json:"paidAt" validate:"omitempty,datetime=2006-01-02"`
}

type FilterInvoice struct {
	Pagination
	DateRange
	Status     string `query:"status"`
	CustomerId *uint  `query:"customerId"`
	Search     string `query:"search"`
}
