package validate

import (
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateVendor() fiber.Handler {
	return Body(func(in *model.CreateVendorInput) error {
		in.Name = trimmed(in.Name)
		return nil
	})
}

func UpdateVendor() fiber.Handler { return Body[model.UpdateVendorInput]() }
func FilterVendor() fiber.Handler { return Query[model.FilterVendor]() }
