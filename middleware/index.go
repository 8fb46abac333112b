package middleware

import (
	"errors"
	"strings"

	"venue_manager/constants"
	"venue_manager/helper"
	"venue_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// Protected accepts the access token from the access_token cookie or an
// Authorization: Bearer header and stores the parsed token under "user".
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("access_token")

		if token == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if token == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("no token"))
		}

		jwtToken, err := helper.ParseToken(token)
		if err != nil || !jwtToken.Valid {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
		}
		if kind, _ := helper.TokenKind(jwtToken); kind != "access" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, errors.New("not an access token"))
		}

		c.Locals("user", jwtToken)
		return c.Next()
	}
}

// Permission loads the caller's account and checks the role grants perm.
// The resolved claim is left in Locals("claim") for handlers and the audit log.
func Permission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := helper.CheckPermission(c, perm); err != nil {
			switch {
			case errors.Is(err, helper.ErrUnauthorized):
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err)
			case errors.Is(err, helper.ErrForbidden):
				return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, err)
			default:
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
			}
		}
		return c.Next()
	}
}
