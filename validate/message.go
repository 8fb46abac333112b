package validate

import (
	"errors"

	"venue_manager/model"

	"github.com/gofiber/fiber/v2"
)

func SendMessage() fiber.Handler {
	return Body(func(in *model.SendMessageInput) error {
		in.To = trimmed(in.To)
		if in.To == "" && in.CustomerId == nil {
			return errors.New("to or customerId is required")
		}
		if in.Channel == model.ChannelEmail && in.Subject == "" {
			return errors.New("subject is required for email")
		}
		return nil
	})
}

func BulkMessage() fiber.Handler {
	return Body(func(in *model.BulkMessageInput) error {
		if in.Channel == model.ChannelEmail && in.Subject == "" {
			return errors.New("subject is required for email")
		}
		return nil
	})
}

func FilterMessage() fiber.Handler { return Query[model.FilterMessage]() }
func FilterWebhookLog() fiber.Handler { return Query[model.FilterWebhookLog]() }
