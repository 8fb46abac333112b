package messaging

import (
	"context"

	"venue_manager/utils"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
}

// SMTPSender sends through the shared gomail dialer settings.
type SMTPSender struct{}

func (SMTPSender) SendEmail(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := utils.SendMail(to, subject, html)
	if err == utils.ErrMailNotConfigured {
		return &PermanentError{Err: err}
	}
	return err
}
