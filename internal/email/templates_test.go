package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationTemplate(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplateNotification, TemplateData{
		"Title":     "Your tickets",
		"Message":   "<b>2</b> tickets confirmed",
		"ActionURL": "https://eventix.com/tickets/1",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Your tickets")
	assert.Contains(t, html, "&lt;b&gt;2&lt;/b&gt;", "message is escaped")
	assert.Contains(t, html, `href="https://eventix.com/tickets/1"`)
	assert.Contains(t, html, "View more")
}

func TestNotificationTemplate_NoAction(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplateNotification, TemplateData{"Title": "Hi", "Message": "m"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<a ")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("missing", nil)
	assert.Error(t, err)
}

func TestSMTPProviderValidate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Port: 587}, nil)
	assert.Error(t, p.Validate())
	assert.Error(t, p.SendTemplate(context.Background(), []string{"a@b.c"}, "s", TemplateNotification, nil))

	p = NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "noreply@eventix.com"}, nil)
	assert.NoError(t, p.Validate())
}

func TestLogProviderRendersTemplate(t *testing.T) {
	tm, err := NewDefaultTemplateManager()
	require.NoError(t, err)
	p := NewLogProvider(tm)

	assert.NoError(t, p.SendTemplate(context.Background(), []string{"a@b.c"}, "Hi", TemplateNotification, TemplateData{"Title": "Hi"}))
	assert.Error(t, p.SendTemplate(context.Background(), []string{"a@b.c"}, "Hi", "missing", nil))
}
