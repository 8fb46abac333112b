package validate

import (
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateCustomer() fiber.Handler {
	return Body(func(in *model.CreateCustomerInput) error {
		in.FirstName = trimmed(in.FirstName)
		in.LastName = trimmed(in.LastName)
		return nil
	})
}

func UpdateCustomer() fiber.Handler { return Body[model.UpdateCustomerInput]() }
func FilterCustomer() fiber.Handler { return Query[model.FilterCustomer]() }
