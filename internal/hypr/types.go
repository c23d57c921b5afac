package hypr

// Workspace is the workspace reference embedded in hyprctl JSON output.
// Special workspaces (like special:minimized) have negative IDs.
type Workspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Window describes a Hyprland client as reported by `hyprctl -j`.
type Window struct {
	Address   string    `json:"address"`
	Class     string    `json:"class"`
	Title     string    `json:"title"`
	PID       int       `json:"pid"`
	Workspace Workspace `json:"workspace"`
}

// Visible reports whether the window sits on a regular workspace. A window
// parked on a special workspace keeps a negative workspace ID until someone
// moves it back.
func (w Window) Visible() bool {
	return w.Workspace.ID > 0
}
