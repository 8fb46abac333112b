package model

import "time"

type Account struct {
	DTO
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
	Role     string `gorm:"size:20;not null" json:"role"`
}

type CreateAccountInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"fullName" validate:"omitempty,max=120"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER STAFF VIEWER"`
}

type ActiveAccountInput struct {
	Active *bool `json:"active" validate:"required"`
}

type FilterAccount struct {
	Pagination
	SearchKey string  `query:"searchKey"`
	Active    *bool   `query:"active"`
	Role      *string `query:"role"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
	RepeatPassword  string `json:"repeatPassword" validate:"required,eqfield=NewPassword"`
}

type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=72"`
}

type PasswordResetToken struct {
	DTO
	AccountId uint       `gorm:"not null;index" json:"accountId"`
	Token     string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenInput struct {
	RefreshToken string `json:"refreshToken"`
}
