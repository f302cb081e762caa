package app

import "fwork_backend/internal/email"

// MockEmailProvider is used in tests and local development when SMTP is
// not configured.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }

func (m *MockEmailProvider) SendTemplate(to []string, subject, templateName string, data email.TemplateData) error {
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
func (m *MockEmailProvider) Close() error    { return nil }
