package model

type Customer struct {
	DTO
	FirstName  string `gorm:"size:80;not null" json:"firstName"`
	LastName   string `gorm:"size:80" json:"lastName"`
	Email      string `gorm:"size:160;index" json:"email"`
	Phone      string `gorm:"size:20;index" json:"phone"`
	SmsOptIn   bool   `gorm:"not null;default:false" json:"smsOptIn"`
	EmailOptIn bool   `gorm:"not null;default:false" json:"emailOptIn"`
	Notes      string `gorm:"type:text" json:"notes"`
	VisitCount int    `gorm:"not null;default:0" json:"visitCount"`
}

func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

type CreateCustomerInput struct {
	FirstName  string `json:"firstName" validate:"required,min=1,max=80"`
	LastName   string `json:"lastName" validate:"omitempty,max=80"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,min=7,max=20"`
	SmsOptIn   bool   `json:"smsOptIn"`
	EmailOptIn bool   `json:"emailOptIn"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateCustomerInput struct {
	FirstName  *string `json:"firstName" validate:"omitempty,min=1,max=80"`
	LastName   *string `json:"lastName" validate:"omitempty,max=80"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,min=7,max=20"`
	SmsOptIn   *bool   `json:"smsOptIn"`
	EmailOptIn *bool   `json:"emailOptIn"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

type FilterCustomer struct {
	Pagination
	SearchKey string `query:"searchKey"`
	SmsOptIn  *bool  `query:"smsOptIn"`
}
