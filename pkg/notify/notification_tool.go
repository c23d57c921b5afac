package notify

import (
	"fmt"
	"os/exec"
)

// notifyTimeoutMS is how long transient notifications stay on screen.
const notifyTimeoutMS = "5000"

type notificationTool struct {
	name  string
	build func(title string, message string, nType NotificationType) *exec.Cmd
}

// Desktop notifiers in preference order. Dialog tools like zenity are not
// candidates: a minimizer launched from a keybind must never block on a
// modal window.
var notificationTools = []notificationTool{
	{
		name: "dunstify",
		build: func(title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command("dunstify",
				"-a", notifyTitle,
				"-u", urgency(nType),
				"-t", notifyTimeoutMS,
				title, message)
		},
	},
	{
		name: "notify-send",
		build: func(title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command("notify-send",
				"-a", notifyTitle,
				"-u", urgency(nType),
				"-t", notifyTimeoutMS,
				title, message)
		},
	},
}

func urgency(nType NotificationType) string {
	if nType == Error {
		return "critical"
	}
	return "normal"
}

func (n *NotifyService) trySystemNotification(title string, message string, nType NotificationType) error {
	if nType == Error {
		title += " Error"
	}
	for _, tool := range notificationTools {
		if _, err := exec.LookPath(tool.name); err != nil {
			continue
		}
		if err := tool.build(title, message, nType).Run(); err == nil {
			n.log.Debug("Notification sent", "tool", tool.name, "type", nType)
			return nil
		}
	}
	return fmt.Errorf("no notification tools available")
}
