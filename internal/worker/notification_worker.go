package worker

import (
	"github.com/campus-it/helpdesk/internal/notify"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *notify.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
