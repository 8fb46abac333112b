package validate

import (
	"errors"
	"strconv"
	"strings"

	"venue_manager/constants"
	"venue_manager/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		valueKey, err := strconv.ParseUint(c.Params(key), 10, 64)
		if err != nil || valueKey == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.DATA_INPUT_IS_NOT_NUMBER, errors.New("params invalid"))
		}

		c.Locals("inputId", uint(valueKey))
		return c.Next()
	}
}

// Body parses and validates the JSON body into T and stores it under "input".
func Body[T any](checks ...func(*T) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, err)
		}
		for _, check := range checks {
			if err := check(&input); err != nil {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, err)
			}
		}

		c.Locals("input", input)
		return c.Next()
	}
}

// Query parses and validates query parameters into T and stores it under "filter".
func Query[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter T
		if err := c.QueryParser(&filter); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(filter); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.VALIDATION_FAILED, err)
		}

		c.Locals("filter", filter)
		return c.Next()
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
