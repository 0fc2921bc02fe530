package mail

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var ErrNoRecipient = errors.New("recipient email is empty")

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendLeadAssigned(p queue.LeadAssignedPayload) error {
	e, err := renderLeadAssigned(p)
	if err != nil {
		return err
	}
	return s.send(e)
}

func (s *EmailSender) SendContractsExpiring(p queue.ContractsExpiringPayload) error {
	e, err := renderContractsExpiring(p)
	if err != nil {
		return err
	}
	return s.send(e)
}

func renderLeadAssigned(p queue.LeadAssignedPayload) (renderedEmail, error) {
	if p.ManagerEmail == "" {
		return renderedEmail{}, ErrNoRecipient
	}
	body, err := render("lead_assigned.html", p)
	if err != nil {
		return renderedEmail{}, err
	}
	return renderedEmail{
		To:      p.ManagerEmail,
		Subject: fmt.Sprintf("New lead assigned: %s", p.LeadName),
		Body:    body,
	}, nil
}

func renderContractsExpiring(p queue.ContractsExpiringPayload) (renderedEmail, error) {
	if p.ManagerEmail == "" {
		return renderedEmail{}, ErrNoRecipient
	}
	body, err := render("contracts_expiring.html", p)
	if err != nil {
		return renderedEmail{}, err
	}
	return renderedEmail{
		To:      p.ManagerEmail,
		Subject: fmt.Sprintf("Contracts ending on %s", p.EndDate),
		Body:    body,
	}, nil
}

func render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *EmailSender) send(e renderedEmail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/html", e.Body)

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email via smtp: %w", err)
	}
	return nil
}
