package model

type Vendor struct {
	DTO
	Name        string `gorm:"size:120;not null" json:"name"`
	Slug        string `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	ServiceType string `gorm:"size:50;not null" json:"serviceType"`
	ContactName string `gorm:"size:120" json:"contactName"`
	Email       string `gorm:"size:160" json:"email"`
	Phone       string `gorm:"size:20" json:"phone"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`
	Notes       string `gorm:"type:text" json:"notes"`
}

type CreateVendorInput struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	ServiceType string `json:"serviceType" validate:"required,max=50"`
	ContactName string `json:"contactName" validate:"omitempty,max=120"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,min=7,max=20"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateVendorInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	ServiceType *string `json:"serviceType" validate:"omitempty,max=50"`
	ContactName *string `json:"contactName" validate:"omitempty,max=120"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,min=7,max=20"`
	IsActive    *bool   `json:"isActive"`
	Notes       *string `json:"notes" validate:"omitempty,max=2000"`
}

type FilterVendor struct {
	Pagination
	SearchKey   string `query:"searchKey"`
	ServiceType string `query:"serviceType"`
	Active      *bool  `query:"active"`
}
