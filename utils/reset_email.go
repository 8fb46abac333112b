package utils

import (
	"fmt"
	"net/smtp"
	"strconv"

	"venue_manager/config"

	"github.com/jordan-wright/email"
)

// SendPasswordResetEmail sends the plain-text reset link to a staff member.
func SendPasswordResetEmail(to, resetLink string) error {
	s := config.Get()
	if !s.SMTPConfigured() {
		return ErrMailNotConfigured
	}

	e := email.NewEmail()
	e.From = s.SMTPFrom
	e.To = []string{to}
	e.Subject = "Reset your password"
	e.Text = []byte(fmt.Sprintf("Use this link within one hour to choose a new password: %s", resetLink))

	addr := s.SMTPHost + ":" + strconv.Itoa(s.SMTPPort)
	var auth smtp.Auth
	if s.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.SMTPUsername, s.SMTPPassword, s.SMTPHost)
	}
	return e.Send(addr, auth)
}
