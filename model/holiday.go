package model

import "time"

const (
	HolidayBank       = "bank"
	HolidayClosure    = "closure"
	HolidayObservance = "observance"
)

type Holiday struct {
	DTO
	Name        string    `gorm:"size:100;not null" json:"name"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	IsRecurring bool      `gorm:"default:false" json:"isRecurring"`
}

type CreateHolidayInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Type        string `json:"type" validate:"required,oneof=bank closure observance"`
	IsRecurring *bool  `json:"isRecurring" validate:"omitempty"`
}

type UpdateHolidayInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Type        *string `json:"type" validate:"omitempty,oneof=bank closure observance"`
	IsRecurring *bool   `json:"isRecurring" validate:"omitempty"`
}

type HolidayFilter struct {
	Pagination
	Type *string `query:"type"`
	Year *int    `query:"year"`
}
