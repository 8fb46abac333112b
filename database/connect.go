package database

import (
	"fmt"
	"strconv"

	"venue_manager/config"
	"venue_manager/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func DSN() (string, error) {
	p := config.Config("DB_PORT")
	if p == "" {
		p = "5432"
	}
	port, err := strconv.ParseUint(p, 10, 32)
	if err != nil {
		return "", fmt.Errorf("failed to parse database port: %w", err)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"), config.Config("DB_NAME")), nil
}

func ConnectDB() error {
	dsn, err := DSN()
	if err != nil {
		return err
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	zap.S().Info("Connection opened to database")

	if err := Migrate(DB); err != nil {
		return err
	}
	zap.S().Info("Database migrated")

	SeedData(DB)
	return nil
}

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&model.Account{},
		&model.PasswordResetToken{},
		&model.AuditLog{},
		&model.Customer{},
		&model.Table{},
		&model.TableBooking{},
		&model.Vendor{},
		&model.PrivateBooking{},
		&model.PrivateBookingItem{},
		&model.Quote{},
		&model.QuoteLineItem{},
		&model.Invoice{},
		&model.InvoiceLineItem{},
		&model.InvoicePayment{},
		&model.RecurringInvoice{},
		&model.RecurringInvoiceItem{},
		&model.LoyaltyMember{},
		&model.LoyaltyTransaction{},
		&model.LoyaltyReward{},
		&model.Message{},
		&model.WebhookLog{},
		&model.CalendarNote{},
		&model.Holiday{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if db.Dialector.Name() == "postgres" {
		if err := RunSQLMigrations(); err != nil {
			return err
		}
	}
	return nil
}
