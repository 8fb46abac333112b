package utils

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"venue_manager/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.New("").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("£%.2f", v) },
}).ParseFS(templateFS, "templates/*.html"))

var ErrMailNotConfigured = errors.New("smtp is not configured")

// InlineImage is embedded in the message and referenced as cid:<Name>.
type InlineImage struct {
	Name string
	Data []byte
}

type BookingConfirmationData struct {
	Reference string
	Name      string
	Date      string
	Time      string
	PartySize int
	Table     string
	QRName    string
}

type DocumentEmailData struct {
	Kind     string
	Number   string
	Title    string
	Customer string
	Lines    []DocumentLine
	Subtotal float64
	VatTotal float64
	Total    float64
	DueLabel string
	DueDate  string
}

type DocumentLine struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	LineTotal   float64
}

type CancellationEmailData struct {
	Reference    string
	Name         string
	EventDate    string
	RefundAmount float64
	Reason       string
}

func RenderEmail(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}

// SendMail delivers an HTML message through the configured SMTP relay.
func SendMail(to, subject, html string, images ...InlineImage) error {
	s := config.Get()
	if !s.SMTPConfigured() {
		return ErrMailNotConfigured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.SMTPFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)
	for _, img := range images {
		data := img.Data
		m.Embed(img.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := gomail.NewDialer(s.SMTPHost, s.SMTPPort, s.SMTPUsername, s.SMTPPassword)
	return d.DialAndSend(m)
}

// SendMailAsync renders and sends in the background; failures are only logged.
func SendMailAsync(to, subject, templateName string, data any, images ...InlineImage) {
	if to == "" {
		return
	}
	go func() {
		html, err := RenderEmail(templateName, data)
		if err != nil {
			zap.S().Errorf("email template: %v", err)
			return
		}
		if err := SendMail(to, subject, html, images...); err != nil {
			zap.S().Warnf("send email to %s: %v", to, err)
		}
	}()
}

// SendBookingConfirmation mails the booking details with a check-in QR code.
func SendBookingConfirmation(to string, data BookingConfirmationData) {
	qr, err := CheckInQRCode(data.Reference)
	if err != nil {
		zap.S().Warnf("booking qr %s: %v", data.Reference, err)
		SendMailAsync(to, "Your booking "+data.Reference, "booking_confirmation.html", data)
		return
	}
	data.QRName = "booking-" + data.Reference + ".png"
	SendMailAsync(to, "Your booking "+data.Reference, "booking_confirmation.html", data,
		InlineImage{Name: data.QRName, Data: qr})
}
