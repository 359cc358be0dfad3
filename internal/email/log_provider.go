package email

import (
	"context"
	"fmt"

	"eventix_backend/internal/logger"
)

// LogProvider renders and logs messages instead of sending them. It is used
// when no SMTP host is configured.
type LogProvider struct {
	renderer TemplateRenderer
}

func NewLogProvider(renderer TemplateRenderer) *LogProvider {
	return &LogProvider{renderer: renderer}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "Email (not sent, SMTP disabled)",
		"to", email.To,
		"subject", email.Subject,
		"html_bytes", len(email.HTMLBody),
	)
	return nil
}

func (p *LogProvider) SendTemplate(ctx context.Context, to []string, subject string, templateName string, data TemplateData) error {
	htmlBody, err := p.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return p.Send(ctx, &Email{To: to, Subject: subject, HTMLBody: htmlBody})
}

func (p *LogProvider) Validate() error {
	return nil
}
