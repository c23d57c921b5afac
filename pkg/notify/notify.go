package notify

import (
	"fmt"
	"os"
	"os/exec"

	"hypr-minimize/pkg/logger"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	Error NotificationType = iota
	Info
)

const notifyTitle = "Hypr Minimize"

// NotifyService handles system notifications
type NotifyService struct {
	log           *logger.Logger
	notifyCommand string
}

// NewNotifyService creates a new notification service
func NewNotifyService(notifyCommand string, log *logger.Logger) *NotifyService {
	return &NotifyService{
		log:           log,
		notifyCommand: notifyCommand,
	}
}

// Show displays a notification of the specified type. It tries the
// configured command first, then common notification tools, then the
// terminal, then the log file.
func (n *NotifyService) Show(message string, nType NotificationType) error {
	if n.notifyCommand != "" {
		if err := n.executeNotifyCommand(message, nType); err == nil {
			return nil
		}
		n.log.Warn("Custom notification command failed", "command", n.notifyCommand)
	}

	if err := n.trySystemNotification(notifyTitle, message, nType); err == nil {
		return nil
	}

	if isRunningInTerminal() {
		return n.printToTerminal(message, nType)
	}

	return n.writeToLogFile(message, nType)
}

func (n *NotifyService) executeNotifyCommand(message string, nType NotificationType) error {
	typeStr := "ERROR"
	if nType == Info {
		typeStr = "INFO"
	}
	n.log.Debug("Executing notify command", "command", n.notifyCommand, "type", typeStr)

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s '%s' '%s'", n.notifyCommand, typeStr, message))
	return cmd.Run()
}

func isRunningInTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func (n *NotifyService) printToTerminal(message string, nType NotificationType) error {
	prefix := "\033[32mINFO\033[0m"
	if nType == Error {
		prefix = "\033[31mERROR\033[0m"
	}
	_, err := fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, message)
	return err
}

func (n *NotifyService) writeToLogFile(message string, nType NotificationType) error {
	typeStr := "INFO"
	if nType == Error {
		typeStr = "ERROR"
	}
	if n.log != nil {
		n.log.Info("Notification fallback", "type", typeStr, "message", message)
		return nil
	}
	return fmt.Errorf("no notification channel available")
}
