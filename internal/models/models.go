package models

import "time"

// Actions recorded in the history log.
const (
	ActionMinimized = "minimized"
	ActionRestored  = "restored"
	ActionClosed    = "closed"
	// ActionLost marks windows whose state could no longer be tracked,
	// usually because the compositor went away mid-watch.
	ActionLost = "lost"
)

// HistoryEntry is one row in the minimize/restore audit log.
type HistoryEntry struct {
	Timestamp   time.Time
	Action      string
	Address     string
	Class       string
	Title       string
	WorkspaceID int
}
