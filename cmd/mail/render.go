package main

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/wneessen/go-mail"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

var errUnsupportedType = errors.New("unsupported mail type")

type mailTemplate struct {
	file    string
	subject string
}

var mailTemplates = map[string]mailTemplate{
	domain.MailTypeResetPassword: {file: "reset_password_otp_email.html", subject: "Bluewave Swim School - Password reset"},
	domain.MailTypePlaced:        {file: "placed_email.html", subject: "Bluewave Swim School - Clinic spot confirmed"},
	domain.MailTypeWaitlisted:    {file: "waitlisted_email.html", subject: "Bluewave Swim School - You are on the waitlist"},
}

// renderBody executes the HTML template of the mail type against its data.
func renderBody(templateDir string, m *domain.MailMessage) (string, string, error) {
	mt, ok := mailTemplates[m.Type]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", errUnsupportedType, m.Type)
	}

	tmpl, err := template.ParseFiles(filepath.Join(templateDir, mt.file))
	if err != nil {
		return "", "", err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, m.Data); err != nil {
		return "", "", err
	}

	return mt.subject, body.String(), nil
}

func buildMessage(from string, templateDir string, m *domain.MailMessage) (*mail.Msg, error) {
	subject, body, err := renderBody(templateDir, m)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, err
	}
	if err := msg.To(m.To); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	return msg, nil
}
