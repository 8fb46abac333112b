package validate

import (
	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func Login() fiber.Handler {
	return Body(func(in *model.LoginInput) error {
		in.Username = trimmed(in.Username)
		return nil
	})
}

func CreateAccount() fiber.Handler {
	return Body(func(in *model.CreateAccountInput) error {
		in.Username = trimmed(in.Username)
		return nil
	})
}

func ActiveAccount() fiber.Handler { return Body[model.ActiveAccountInput]() }
func ChangePassword() fiber.Handler { return Body[model.ChangePasswordInput]() }
func ForgotPassword() fiber.Handler { return Body[model.ForgotPasswordRequest]() }
func ResetPassword() fiber.Handler { return Body[model.ResetPasswordRequest]() }
func FilterAccount() fiber.Handler { return Query[model.FilterAccount]() }
func FilterAudit() fiber.Handler { return Query[model.AuditFilter]() }
func StatusChange() fiber.Handler { return Body[model.StatusInput]() }
