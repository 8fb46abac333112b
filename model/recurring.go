package model

import "time"

const (
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

type RecurringInvoice struct {
	DTO
	CustomerId      uint                   `gorm:"not null;index" json:"customerId"`
	Customer        *Customer              `json:"customer,omitempty"`
	Title           string                 `gorm:"size:200;not null" json:"title"`
	Frequency       string                 `gorm:"size:20;not null" json:"frequency"`
	Interval        int                    `gorm:"not null;default:1" json:"interval"`
	StartDate       time.Time              `gorm:"type:date;not null" json:"startDate"`
	EndDate         *time.Time             `gorm:"type:date" json:"endDate"`
	NextRunDate     time.Time              `gorm:"type:date;not null;index" json:"nextRunDate"`
	DaysUntilDue    int                    `gorm:"not null;default:14" json:"daysUntilDue"`
	IsActive        bool                   `gorm:"not null;default:true" json:"isActive"`
	LastGeneratedAt *time.Time             `json:"lastGeneratedAt"`
	Notes           string                 `gorm:"type:text" json:"notes"`
	Items           []RecurringInvoiceItem `gorm:"foreignKey:RecurringInvoiceId" json:"items,omitempty"`
}

type RecurringInvoiceItem struct {
	DTO
	RecurringInvoiceId uint    `gorm:"not null;index" json:"recurringInvoiceId"`
	Description        string  `gorm:"size:255;not null" json:"description"`
	Quantity           float64 `gorm:"not null" json:"quantity"`
	UnitPrice          float64 `gorm:"not null" json:"unitPrice"`
	DiscountPercent    float64 `gorm:"not null;default:0" json:"discountPercent"`
	VatRate            float64 `gorm:"not null;default:20" json:"vatRate"`
	Position           int     `gorm:"not null;default:0" json:"position"`
}

type CreateRecurringInvoiceInput struct {
	CustomerId   uint            `json:"customerId" validate:"required,gt=0"`
	Title        string          `json:"title" validate:"required,max=200"`
	Frequency    string          `json:"frequency" validate:"required,oneof=weekly monthly quarterly yearly"`
	Interval     int             `json:"interval" validate:"omitempty,gte=1,lte=24"`
	StartDate    string          `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string          `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	DaysUntilDue int             `json:"daysUntilDue" validate:"omitempty,gte=0,lte=120"`
	Notes        string          `json:"notes" validate:"omitempty,max=4000"`
	Items        []LineItemInput `json:"items" validate:"required,min=1,max=100,dive"`
}

type UpdateRecurringInvoiceInput struct {
	Title        *string `json:"title" validate:"omitempty,max=200"`
	EndDate      *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	DaysUntilDue *int    `json:"daysUntilDue" validate:"omitempty,gte=0,lte=120"`
	IsActive     *bool   `json:"isActive"`
	Notes        *string `json:"notes" validate:"omitempty,max=4000"`
}

type FilterRecurringInvoice struct {
	Pagination
	CustomerId *uint `query:"customerId"`
	Active     *bool `query:"active"`
}

type ScheduleQuery struct {
	Count int    `query:"count" validate:"omitempty,gte=1,lte=500"`
	From  string `query:"from" validate:"omitempty,datetime=2006-01-02"`
}
