package messaging

import (
	"fmt"
	"html"
	"strings"
	"text/template"

	"venue_manager/model"
)

type recipientFields struct {
	FirstName string
	LastName  string
	FullName  string
}

// ParseBody compiles a campaign body; it fails on unknown syntax before anything is queued.
func ParseBody(body string) (*template.Template, error) {
	tmpl, err := template.New("body").Option("missingkey=zero").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("invalid message template: %w", err)
	}
	return tmpl, nil
}

// RenderBody personalises a parsed body for one customer.
func RenderBody(tmpl *template.Template, c model.Customer) (string, error) {
	var b strings.Builder
	err := tmpl.Execute(&b, recipientFields{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// EmailHTML wraps a plain text body for an HTML email.
func EmailHTML(body string) string {
	escaped := html.EscapeString(body)
	return "<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>"
}
