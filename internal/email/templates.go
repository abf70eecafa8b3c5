package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

var builtinTemplates = map[string]string{
	TemplateVerificationDecision: `<p>Hi {{.Name}},</p>
<p>Your ABN verification status is now <strong>{{.Status}}</strong>.</p>
{{if eq .Status "verified"}}<p>You can now post jobs, apply and confirm work.</p>{{end}}`,
	TemplateJobCancelled: `<p>Hi {{.Name}},</p>
<p>The job "{{.JobTitle}}" has been cancelled.</p>
{{if .Late}}<p>This was a late cancellation. You can leave a reliability review.</p>{{end}}`,
}

// TemplateManager хранит разобранные html-шаблоны
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
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
