package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateNotification renders a user notification.
const TemplateNotification = "notification"

const notificationTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">{{.Title}}</h2>
  <p style="color: #666; line-height: 1.6;">{{.Message}}</p>
  {{- if .ActionURL}}
  <a href="{{.ActionURL}}" style="display: inline-block; background: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">{{if .ActionText}}{{.ActionText}}{{else}}View more{{end}}</a>
  {{- end}}
  <hr style="margin: 20px 0; border: none; border-top: 1px solid #eee;">
  <p style="color: #999; font-size: 12px;">This is an automated message from EvenTix. Please do not reply.</p>
</div>`

// TemplateManager keeps parsed html templates by name.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		templates: make(map[string]*template.Template),
	}
}

// NewDefaultTemplateManager returns a manager with the built-in templates loaded.
func NewDefaultTemplateManager() (*TemplateManager, error) {
	tm := NewTemplateManager()
	if err := tm.AddTemplate(TemplateNotification, notificationTemplate); err != nil {
		return nil, err
	}
	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
