package email

// Provider sends outgoing email. Implementations must be safe for use from
// multiple goroutines.
type Provider interface {
	// Send delivers a single message.
	Send(email *Email) error

	// SendTemplate renders templateName with data and delivers the result.
	SendTemplate(to []string, subject, templateName string, data TemplateData) error

	// Validate checks the provider configuration.
	Validate() error

	// Close releases provider resources.
	Close() error
}

// TemplateRenderer renders named html bodies.
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	LoadTemplates(dirPath string) error
}
