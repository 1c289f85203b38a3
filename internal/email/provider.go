package email

// Provider sends transactional mail. Implementations must be safe for
// concurrent use; failures are logged by callers and never block the booking
// flow.
type Provider interface {
	Send(to, subject, htmlBody string) error
}

// NoopProvider is used when email is disabled in config and in tests.
type NoopProvider struct{}

func (NoopProvider) Send(to, subject, htmlBody string) error {
	return nil
}
