package model

import "time"

const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

const (
	LoyaltyEarn   = "earn"
	LoyaltyRedeem = "redeem"
	LoyaltyAdjust = "adjust"
	LoyaltyExpire = "expire"
)

const (
	MemberActive    = "active"
	MemberSuspended = "suspended"
)

type LoyaltyMember struct {
	DTO
	CustomerId     uint                 `gorm:"not null;uniqueIndex" json:"customerId"`
	Customer       *Customer            `json:"customer,omitempty"`
	MemberNumber   string               `gorm:"size:20;not null;uniqueIndex" json:"memberNumber"`
	PointsBalance  int                  `gorm:"not null;default:0" json:"pointsBalance"`
	LifetimePoints int                  `gorm:"not null;default:0" json:"lifetimePoints"`
	Tier           string               `gorm:"size:10;not null" json:"tier"`
	Status         string               `gorm:"size:20;not null" json:"status"`
	EnrolledAt     time.Time            `gorm:"not null" json:"enrolledAt"`
	LastActivityAt time.Time            `gorm:"not null;index" json:"lastActivityAt"`
	Version        int                  `gorm:"not null;default:1" json:"version"`
	Transactions   []LoyaltyTransaction `gorm:"foreignKey:MemberId" json:"transactions,omitempty"`
}

type LoyaltyTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MemberId     uint      `gorm:"not null;index" json:"memberId"`
	Type         string    `gorm:"size:10;not null" json:"type"`
	Points       int       `gorm:"not null" json:"points"`
	BalanceAfter int       `gorm:"not null" json:"balanceAfter"`
	Reference    string    `gorm:"size:100" json:"reference"`
	Note         string    `gorm:"size:255" json:"note"`
	CreatedBy    *uint     `json:"createdBy"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

type LoyaltyReward struct {
	DTO
	Name        string `gorm:"size:120;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	PointsCost  int    `gorm:"not null" json:"pointsCost"`
	IsActive    bool   `gorm:"not null;default:true" json:"isActive"`
}

type EnrollMemberInput struct {
	CustomerId uint `json:"customerId" validate:"required,gt=0"`
}

type EarnPointsInput struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Reference string  `json:"reference" validate:"omitempty,max=100"`
}

type RedeemRewardInput struct {
	RewardId uint `json:"rewardId" validate:"required,gt=0"`
}

type AdjustPointsInput struct {
	Points int    `json:"points" validate:"required,ne=0"`
	Note   string `json:"note" validate:"required,max=255"`
}

type CreateRewardInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"omitempty,max=500"`
	PointsCost  int    `json:"pointsCost" validate:"required,gt=0"`
}

type UpdateRewardInput struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	PointsCost  *int    `json:"pointsCost" validate:"omitempty,gt=0"`
	IsActive    *bool   `json:"isActive"`
}

type FilterLoyaltyMember struct {
	Pagination
	Tier   string `query:"tier"`
	Status string `query:"status"`
	Search string `query:"search"`
}
