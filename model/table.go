package model

import "time"

const (
	TableBookingPending   = "pending"
	TableBookingConfirmed = "confirmed"
	TableBookingSeated    = "seated"
	TableBookingCompleted = "completed"
	TableBookingCancelled = "cancelled"
	TableBookingNoShow    = "no_show"
)

// ActiveTableBookingStatuses are the statuses that still hold a table.
var ActiveTableBookingStatuses = []string{TableBookingPending, TableBookingConfirmed, TableBookingSeated}

type Table struct {
	DTO
	Number   string `gorm:"size:20;not null;uniqueIndex" json:"number"`
	Capacity int    `gorm:"not null" json:"capacity"`
	MinParty int    `gorm:"not null;default:1" json:"minParty"`
	Area     string `gorm:"size:50" json:"area"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
}

type TableBooking struct {
	DTO
	Reference       string     `gorm:"size:20;uniqueIndex;not null" json:"reference"`
	CustomerId      *uint      `gorm:"index" json:"customerId"`
	Customer        *Customer  `json:"customer,omitempty"`
	Name            string     `gorm:"size:120;not null" json:"name"`
	Phone           string     `gorm:"size:20" json:"phone"`
	Email           string     `gorm:"size:160" json:"email"`
	PartySize       int        `gorm:"not null" json:"partySize"`
	BookingDate     time.Time  `gorm:"type:date;not null;index" json:"bookingDate"`
	StartTime       string     `gorm:"size:5;not null" json:"startTime"`
	DurationMinutes int        `gorm:"not null;default:120" json:"durationMinutes"`
	TableId         *uint      `gorm:"index" json:"tableId"`
	Table           *Table     `json:"table,omitempty"`
	Status          string     `gorm:"size:20;not null;index" json:"status"`
	Source          string     `gorm:"size:20;not null;default:'staff'" json:"source"`
	Notes           string     `gorm:"type:text" json:"notes"`
	DepositAmount   float64    `gorm:"not null;default:0" json:"depositAmount"`
	SeatedAt        *time.Time `json:"seatedAt"`
	CancelledAt     *time.Time `json:"cancelledAt"`
	CreatedBy       *uint      `json:"createdBy"`
}

type CreateTableInput struct {
	Number   string `json:"number" validate:"required,max=20"`
	Capacity int    `json:"capacity" validate:"required,gt=0,lte=50"`
	MinParty int    `json:"minParty" validate:"omitempty,gt=0"`
	Area     string `json:"area" validate:"omitempty,max=50"`
}

type UpdateTableInput struct {
	Number   *string `json:"number" validate:"omitempty,max=20"`
	Capacity *int    `json:"capacity" validate:"omitempty,gt=0,lte=50"`
	MinParty *int    `json:"minParty" validate:"omitempty,gt=0"`
	Area     *string `json:"area" validate:"omitempty,max=50"`
	IsActive *bool   `json:"isActive"`
}

type CreateTableBookingInput struct {
	CustomerId      *uint   `json:"customerId" validate:"omitempty,gt=0"`
	Name            string  `json:"name" validate:"required,max=120"`
	Phone           string  `json:"phone" validate:"omitempty,min=7,max=20"`
	Email           string  `json:"email" validate:"omitempty,email"`
	PartySize       int     `json:"partySize" validate:"required,gt=0,lte=100"`
	BookingDate     string  `json:"bookingDate" validate:"required,datetime=2006-01-02"`
	StartTime       string  `json:"startTime" validate:"required,datetime=15:04"`
	DurationMinutes int     `json:"durationMinutes" validate:"omitempty,gte=15,lte=480"`
	TableId         *uint   `json:"tableId" validate:"omitempty,gt=0"`
	Notes           string  `json:"notes" validate:"omitempty,max=2000"`
	DepositAmount   float64 `json:"depositAmount" validate:"omitempty,gte=0"`
}

type UpdateTableBookingInput struct {
	PartySize       *int    `json:"partySize" validate:"omitempty,gt=0,lte=100"`
	BookingDate     *string `json:"bookingDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime       *string `json:"startTime" validate:"omitempty,datetime=15:04"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,gte=15,lte=480"`
	TableId         *uint   `json:"tableId" validate:"omitempty,gt=0"`
	Notes           *string `json:"notes" validate:"omitempty,max=2000"`
}

type FilterTableBooking struct {
	Pagination
	Date   string `query:"date"`
	Status string `query:"status"`
	Search string `query:"search"`
}
