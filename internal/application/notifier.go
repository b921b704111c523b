package application

import "github.com/arenatv/backend/internal/pkg/logger"

// NotifyLevel classifies a user-facing notification.
type NotifyLevel string

const (
	NotifyInfo NotifyLevel = "info"
	// NotifyLow is for low-priority notices such as the sleep timer warning.
	NotifyLow NotifyLevel = "low"
)

// Notifier surfaces one-shot user-facing messages. Implementations must not
// block; a notification is fire-and-forget.
type Notifier interface {
	Notify(level NotifyLevel, message string)
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct{}

// Notify logs the message at a level matching its priority.
func (LogNotifier) Notify(level NotifyLevel, message string) {
	switch level {
	case NotifyLow:
		logger.Debug().Str("kind", "notification").Msg(message)
	default:
		logger.Info().Str("kind", "notification").Msg(message)
	}
}
