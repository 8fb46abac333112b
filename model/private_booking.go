package model

import "time"

const (
	PrivateBookingEnquiry   = "enquiry"
	PrivateBookingTentative = "tentative"
	PrivateBookingConfirmed = "confirmed"
	PrivateBookingCompleted = "completed"
	PrivateBookingCancelled = "cancelled"
)

const (
	ItemTypeSpace    = "space"
	ItemTypeCatering = "catering"
	ItemTypeVendor   = "vendor"
	ItemTypeOther    = "other"
)

type PrivateBooking struct {
	DTO
	Reference      string               `gorm:"size:20;uniqueIndex;not null" json:"reference"`
	CustomerId     *uint                `gorm:"index" json:"customerId"`
	Customer       *Customer            `json:"customer,omitempty"`
	ContactName    string               `gorm:"size:120;not null" json:"contactName"`
	ContactEmail   string               `gorm:"size:160" json:"contactEmail"`
	ContactPhone   string               `gorm:"size:20" json:"contactPhone"`
	EventType      string               `gorm:"size:50;not null" json:"eventType"`
	EventDate      time.Time            `gorm:"type:date;not null;index" json:"eventDate"`
	StartTime      string               `gorm:"size:5;not null" json:"startTime"`
	EndTime        string               `gorm:"size:5;not null" json:"endTime"`
	GuestCount     int                  `gorm:"not null" json:"guestCount"`
	Space          string               `gorm:"size:50" json:"space"`
	Status         string               `gorm:"size:20;not null;index" json:"status"`
	DepositAmount  float64              `gorm:"not null;default:0" json:"depositAmount"`
	DepositPaidAt  *time.Time           `json:"depositPaidAt"`
	TotalAmount    float64              `gorm:"not null;default:0" json:"totalAmount"`
	RefundedAmount float64              `gorm:"not null;default:0" json:"refundedAmount"`
	CancelledAt    *time.Time           `json:"cancelledAt"`
	Notes          string               `gorm:"type:text" json:"notes"`
	Attachments    string               `gorm:"type:text" json:"attachments"`
	Items          []PrivateBookingItem `gorm:"foreignKey:BookingId" json:"items,omitempty"`
}

type PrivateBookingItem struct {
	DTO
	BookingId       uint    `gorm:"not null;index" json:"bookingId"`
	VendorId        *uint   `gorm:"index" json:"vendorId"`
	Vendor          *Vendor `json:"vendor,omitempty"`
	ItemType        string  `gorm:"size:20;not null" json:"itemType"`
	Description     string  `gorm:"size:255;not null" json:"description"`
	Quantity        float64 `gorm:"not null" json:"quantity"`
	UnitPrice       float64 `gorm:"not null" json:"unitPrice"`
	DiscountPercent float64 `gorm:"not null;default:0" json:"discountPercent"`
	LineTotal       float64 `gorm:"not null" json:"lineTotal"`
}

type CreatePrivateBookingInput struct {
	CustomerId    *uint   `json:"customerId" validate:"omitempty,gt=0"`
	ContactName   string  `json:"contactName" validate:"required,max=120"`
	ContactEmail  string  `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone  string  `json:"contactPhone" validate:"omitempty,min=7,max=20"`
	EventType     string  `json:"eventType" validate:"required,max=50"`
	EventDate     string  `json:"eventDate" validate:"required,datetime=2006-01-02"`
	StartTime     string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime       string  `json:"endTime" validate:"required,datetime=15:04"`
	GuestCount    int     `json:"guestCount" validate:"required,gt=0,lte=1000"`
	Space         string  `json:"space" validate:"omitempty,max=50"`
	DepositAmount float64 `json:"depositAmount" validate:"omitempty,gte=0"`
	Notes         string  `json:"notes" validate:"omitempty,max=4000"`
}

type UpdatePrivateBookingInput struct {
	ContactName   *string  `json:"contactName" validate:"omitempty,max=120"`
	ContactEmail  *string  `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone  *string  `json:"contactPhone" validate:"omitempty,min=7,max=20"`
	EventType     *string  `json:"eventType" validate:"omitempty,max=50"`
	EventDate     *string  `json:"eventDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime     *string  `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime       *string  `json:"endTime" validate:"omitempty,datetime=15:04"`
	GuestCount    *int     `json:"guestCount" validate:"omitempty,gt=0,lte=1000"`
	Space         *string  `json:"space" validate:"omitempty,max=50"`
	DepositAmount *float64 `json:"depositAmount" validate:"omitempty,gte=0"`
	Notes         *string  `json:"notes" validate:"omitempty,max=4000"`
}

type BookingItemInput struct {
	VendorId        *uint   `json:"vendorId" validate:"omitempty,gt=0"`
	ItemType        string  `json:"itemType" validate:"required,oneof=space catering vendor other"`
	Description     string  `json:"description" validate:"required,max=255"`
	Quantity        float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice       float64 `json:"unitPrice" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
}

type AddBookingItemsInput struct {
	Items []BookingItemInput `json:"items" validate:"required,min=1,max=50,dive"`
}

type RecordDepositInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	PaidAt string  `json:"paidAt" validate:"omitempty,datetime=2006-01-02"`
}

type FilterPrivateBooking struct {
	Pagination
	DateRange
	Status string `query:"status"`
	Search string `query:"search"`
}

type AttachmentSignatureInput struct {
	Folder   string `json:"folder" validate:"omitempty,max=100"`
	PublicID string `json:"public_id" validate:"omitempty,max=200"`
}

type AttachmentInput struct {
	Url string `json:"url" validate:"required,url"`
}
