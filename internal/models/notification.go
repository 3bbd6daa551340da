package models

// NotificationLevel classifies a user-facing notification.
type NotificationLevel int

const (
	NotificationInfo NotificationLevel = iota
	NotificationSuccess
	NotificationError
)

// String returns the level label used in console output.
func (nl NotificationLevel) String() string {
	switch nl {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a user-facing message emitted as a command value by the
// rescan coordinator. The coordinator never renders anything itself; callers
// pass these to a renderer (console, Discord webhook, both).
type Notification struct {
	Level   NotificationLevel
	Message string
}

// NewInfoNotification creates an informational notification.
func NewInfoNotification(message string) Notification {
	return Notification{Level: NotificationInfo, Message: message}
}

// NewSuccessNotification creates a success notification.
func NewSuccessNotification(message string) Notification {
	return Notification{Level: NotificationSuccess, Message: message}
}

// NewErrorNotification creates an error notification.
func NewErrorNotification(message string) Notification {
	return Notification{Level: NotificationError, Message: message}
}
