package hypr

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"

	"hypr-minimize/pkg/logger"
)

// ErrNoActiveWindow is returned when Hyprland reports no focused window.
var ErrNoActiveWindow = errors.New("no active window")

// Client talks to Hyprland through the hyprctl binary.
type Client struct {
	log *logger.Logger

	// run executes hyprctl with the given arguments. Injectable for tests.
	run func(args ...string) ([]byte, error)
}

// New creates a hyprctl client, verifying the binary is available.
func New(log *logger.Logger) (*Client, error) {
	path, err := exec.LookPath("hyprctl")
	if err != nil {
		log.Error("hyprctl not found in PATH", err)
		return nil, fmt.Errorf("hyprctl not found in PATH: %w", err)
	}
	log.Debug("Found hyprctl", "path", path)

	return &Client{log: log, run: runHyprctl}, nil
}

func runHyprctl(args ...string) ([]byte, error) {
	return exec.Command("hyprctl", args...).CombinedOutput()
}

// query runs `hyprctl -j <command>` and decodes the JSON output into out.
func (c *Client) query(out interface{}, command string) error {
	output, err := c.run("-j", command)
	if err != nil {
		c.log.Error("Failed to execute hyprctl", err, "command", command, "output", string(output))
		return fmt.Errorf("hyprctl %s: %w", command, err)
	}

	if err := json.Unmarshal(output, out); err != nil {
		c.log.Error("Failed to parse hyprctl output", err, "command", command, "output", string(output))
		return fmt.Errorf("failed to parse hyprctl %s output: %w", command, err)
	}
	return nil
}

// ActiveWindow returns the currently focused window.
func (c *Client) ActiveWindow() (Window, error) {
	var w Window
	if err := c.query(&w, "activewindow"); err != nil {
		return Window{}, err
	}
	// hyprctl emits an empty object when nothing is focused
	if w.Address == "" {
		return Window{}, ErrNoActiveWindow
	}
	return w, nil
}

// ActiveWorkspace returns the workspace currently in focus.
func (c *Client) ActiveWorkspace() (Workspace, error) {
	var ws Workspace
	if err := c.query(&ws, "activeworkspace"); err != nil {
		return Workspace{}, err
	}
	return ws, nil
}

// Clients returns all windows known to the compositor.
func (c *Client) Clients() ([]Window, error) {
	var windows []Window
	if err := c.query(&windows, "clients"); err != nil {
		return nil, err
	}
	return windows, nil
}

// Dispatch runs a hyprctl dispatch command.
func (c *Client) Dispatch(args ...string) error {
	full := append([]string{"dispatch"}, args...)
	if output, err := c.run(full...); err != nil {
		c.log.Error("Dispatch failed", err, "args", args, "output", string(output))
		return fmt.Errorf("hyprctl dispatch %v: %w", args, err)
	}
	c.log.Debug("Dispatch executed", "args", args)
	return nil
}

// MoveToWorkspaceSilent moves a window to a workspace without focusing it.
func (c *Client) MoveToWorkspaceSilent(workspace, address string) error {
	return c.Dispatch("movetoworkspacesilent", fmt.Sprintf("%s,address:%s", workspace, address))
}

// MoveToWorkspace moves a window to the workspace with the given ID.
func (c *Client) MoveToWorkspace(id int, address string) error {
	return c.Dispatch("movetoworkspace", fmt.Sprintf("%d,address:%s", id, address))
}

// FocusWindow focuses the window with the given address.
func (c *Client) FocusWindow(address string) error {
	return c.Dispatch("focuswindow", "address:"+address)
}

// CloseWindow closes the window with the given address.
func (c *Client) CloseWindow(address string) error {
	return c.Dispatch("closewindow", "address:"+address)
}
