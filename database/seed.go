package database

import (
	"time"

	"venue_manager/constants"
	"venue_manager/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultAdminPassword = "ChangeMe!2024"

// SeedData creates the first admin account and starter data. It is safe to run repeatedly.
func SeedData(db *gorm.DB) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), 10)
	if err != nil {
		zap.S().Errorf("failed to hash seed password: %v", err)
		return
	}
	accounts := []model.Account{
		{Username: "admin", Password: string(bytes), FullName: "Administrator", Active: true, Role: constants.ROLE_ADMIN},
	}
	for _, account := range accounts {
		if err := db.Where(model.Account{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
			zap.S().Errorf("failed to seed account %s: %v", account.Username, err)
		}
	}

	tables := []model.Table{
		{Number: "1", Capacity: 2, MinParty: 1, Area: "Bar", IsActive: true},
		{Number: "2", Capacity: 2, MinParty: 1, Area: "Bar", IsActive: true},
		{Number: "3", Capacity: 4, MinParty: 2, Area: "Restaurant", IsActive: true},
		{Number: "4", Capacity: 4, MinParty: 2, Area: "Restaurant", IsActive: true},
		{Number: "5", Capacity: 6, MinParty: 3, Area: "Restaurant", IsActive: true},
		{Number: "6", Capacity: 8, MinParty: 4, Area: "Garden", IsActive: true},
	}
	for _, table := range tables {
		if err := db.Where(model.Table{Number: table.Number}).FirstOrCreate(&table).Error; err != nil {
			zap.S().Errorf("failed to seed table %s: %v", table.Number, err)
		}
	}

	rewards := []model.LoyaltyReward{
		{Name: "Free hot drink", PointsCost: 100, IsActive: true},
		{Name: "Free dessert", PointsCost: 250, IsActive: true},
		{Name: "£10 off your bill", PointsCost: 500, IsActive: true},
		{Name: "Bottle of house wine", PointsCost: 900, IsActive: true},
	}
	for _, reward := range rewards {
		if err := db.Where(model.LoyaltyReward{Name: reward.Name}).FirstOrCreate(&reward).Error; err != nil {
			zap.S().Errorf("failed to seed reward %s: %v", reward.Name, err)
		}
	}
}

// SeedHolidays stores the supplied bank holidays unless a row already exists for that date and name.
func SeedHolidays(db *gorm.DB, holidays []model.Holiday) int {
	created := 0
	for _, h := range holidays {
		var count int64
		db.Model(&model.Holiday{}).
			Where("date = ? AND name = ?", h.Date, h.Name).
			Count(&count)
		if count > 0 {
			continue
		}
		if err := db.Create(&h).Error; err != nil {
			zap.S().Errorf("failed to seed holiday %s on %s: %v", h.Name, h.Date.Format(time.DateOnly), err)
			continue
		}
		created++
	}
	return created
}
