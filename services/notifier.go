package services

// ToastSeverity mirrors the toast channel of the customer page.
type ToastSeverity string

const (
	ToastError    ToastSeverity = "error"
	ToastInfo     ToastSeverity = "info"
	ToastPreserve ToastSeverity = "preserve"
)

// Notifier delivers user-facing messages. preserve=true means the message
// must stay until the user dismisses it.
type Notifier interface {
	Toast(severity ToastSeverity, message string, preserve bool)
}

// Navigation destinations for initialization failures.
const (
	DestNotFound    = "/errors/not-found"
	DestServerError = "/errors/server-error"
)

// Navigator moves the customer view to a destination.
type Navigator interface {
	Navigate(destination string)
}
