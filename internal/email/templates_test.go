package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTemplatesRender(t *testing.T) {
	tm := NewTemplateManager()

	for _, name := range []string{"new_message", "new_application", "application_status", "generic"} {
		out, err := tm.Render(name, TemplateData{
			"UserName":     "Alice",
			"SenderName":   "Bob",
			"ProjectTitle": "Site vitrine",
			"Status":       "accepted",
			"ActionURL":    "https://example.com/conversations/1",
			"Title":        "Hello",
			"Message":      "Body",
		})
		require.NoError(t, err, "template %s should render", name)
		assert.NotEmpty(t, out)
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	tm := NewTemplateManager()
	_, err := tm.Render("does_not_exist", TemplateData{})
	assert.Error(t, err)
}

func TestAddTemplateOverrides(t *testing.T) {
	tm := NewTemplateManager()
	require.NoError(t, tm.AddTemplate("generic", "custom: {{.Title}}"))

	out, err := tm.Render("generic", TemplateData{"Title": "X"})
	require.NoError(t, err)
	assert.Equal(t, "custom: X", out)
}
