package email

import "fmt"

const (
	TemplateVerificationDecision = "verification_decision"
	TemplateJobCancelled         = "job_cancelled"
)

// Provider отправляет письма
type Provider interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data TemplateData) error
}

// TemplateRenderer рендерит именованные шаблоны
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}

// NoopProvider используется, когда email выключен в конфиге.
// Письма только считаются.
type NoopProvider struct {
	Sent []Email
}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (p *NoopProvider) Send(email *Email) error {
	if email == nil || len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	p.Sent = append(p.Sent, *email)
	return nil
}

func (p *NoopProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	return p.Send(&Email{To: to, Subject: subject, Body: templateName})
}
