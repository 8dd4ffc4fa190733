package ports

// Notifier is the fire-and-forget user notification channel. The core
// does not depend on delivery; failures are swallowed by adapters.
type Notifier interface {
	Info(title, message string)
	Success(title, message string)
	Error(title, message string)
}
