package validate

import (
	"errors"

	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateTable() fiber.Handler {
	return Body(func(in *model.CreateTableInput) error {
		in.Number = trimmed(in.Number)
		if in.MinParty == 0 {
			in.MinParty = 1
		}
		if in.MinParty > in.Capacity {
			return errors.New("minParty cannot exceed capacity")
		}
		return nil
	})
}

func UpdateTable() fiber.Handler { return Body[model.UpdateTableInput]() }

func CreateTableBooking() fiber.Handler {
	return Body(func(in *model.CreateTableBookingInput) error {
		in.Name = trimmed(in.Name)
		if in.DurationMinutes == 0 {
			in.DurationMinutes = 120
		}
		if in.Phone == "" && in.Email == "" && in.CustomerId == nil {
			return errors.New("phone, email or customerId is required")
		}
		return nil
	})
}

// PublicTableBooking is the enquiry form: contact details are mandatory and
// staff-only fields are ignored.
func PublicTableBooking() fiber.Handler {
	return Body(func(in *model.CreateTableBookingInput) error {
		in.Name = trimmed(in.Name)
		in.CustomerId = nil
		in.TableId = nil
		in.DepositAmount = 0
		in.DurationMinutes = 120
		if in.Phone == "" && in.Email == "" {
			return errors.New("phone or email is required")
		}
		if in.PartySize > 12 {
			return errors.New("parties above 12 must be booked as a private event")
		}
		return nil
	})
}

func UpdateTableBooking() fiber.Handler { return Body[model.UpdateTableBookingInput]() }
func FilterTableBooking() fiber.Handler { return Query[model.FilterTableBooking]() }
