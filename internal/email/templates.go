package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TemplateManager keeps parsed html templates, seeded with builtins and
// optionally overridden from a directory of .html files.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	tm.loadBuiltins()
	return tm
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

func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(templateName, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

func (tm *TemplateManager) loadBuiltins() {
	builtins := map[string]string{
		"new_message": `<html><body>
<h2>New message</h2>
<p>Hi {{.UserName}},</p>
<p>You have a new message from <strong>{{.SenderName}}</strong>.</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">Open the conversation</a></p>{{end}}
</body></html>`,

		"new_application": `<html><body>
<h2>New application</h2>
<p>Hi {{.UserName}},</p>
<p><strong>{{.FreelanceName}}</strong> applied to your project "{{.ProjectTitle}}".</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">Review applications</a></p>{{end}}
</body></html>`,

		"application_status": `<html><body>
<h2>Application update</h2>
<p>Hi {{.UserName}},</p>
<p>Your application for "{{.ProjectTitle}}" was <strong>{{.Status}}</strong>.</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">View the project</a></p>{{end}}
</body></html>`,

		"generic": `<html><body>
<h2>{{.Title}}</h2>
<p>{{.Message}}</p>
{{if .ActionURL}}<p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>{{end}}
</body></html>`,
	}

	for name, body := range builtins {
		// Builtins are static and must parse.
		if err := tm.AddTemplate(name, body); err != nil {
			panic(fmt.Sprintf("builtin email template %s: %v", name, err))
		}
	}
}
