package tray

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"

	"hypr-minimize/internal/hypr"
	"hypr-minimize/pkg/logger"
)

const (
	itemPath = "/StatusNotifierItem"
	menuPath = "/Menu"

	watcherName  = "org.kde.StatusNotifierWatcher"
	watcherPath  = "/StatusNotifierWatcher"
	watcherIface = "org.kde.StatusNotifierWatcher"
)

// Action is a user interaction on the tray icon or its menu.
type Action int

const (
	// ActionRestore asks for the window to be brought back.
	ActionRestore Action = iota
	// ActionClose asks for the window to be closed.
	ActionClose
)

// Tray serves a StatusNotifierItem and its dbusmenu on the session bus for
// one minimized window. Clicks and menu events surface on Actions().
type Tray struct {
	conn    *dbus.Conn
	busName string
	window  hypr.Window
	actions chan Action
	log     *logger.Logger
}

// New connects to the session bus, claims a per-process item name and
// exports the item and menu objects. Call Register afterwards to announce
// the item to the bar.
func New(window hypr.Window, log *logger.Logger) (*Tray, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	t := &Tray{
		conn:    conn,
		busName: fmt.Sprintf("org.kde.StatusNotifierItem.minimizer.p%d", os.Getpid()),
		window:  window,
		actions: make(chan Action, 4),
		log:     log,
	}

	reply, err := conn.RequestName(t.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("bus name %s already taken", t.busName)
	}

	if err := t.exportItem(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := t.exportMenu(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info("Tray D-Bus service running", "bus_name", t.busName)
	return t, nil
}

// Register announces the item to the StatusNotifierWatcher. Fails when no
// tray host (Waybar etc.) is running.
func (t *Tray) Register() error {
	obj := t.conn.Object(watcherName, watcherPath)
	if call := obj.Call(watcherIface+".RegisterStatusNotifierItem", 0, t.busName); call.Err != nil {
		return fmt.Errorf("failed to register with StatusNotifierWatcher: %w", call.Err)
	}
	t.log.Info("Registered with StatusNotifierWatcher", "bus_name", t.busName)
	return nil
}

// Actions returns the stream of user interactions.
func (t *Tray) Actions() <-chan Action {
	return t.actions
}

// emit forwards an action without blocking the bus handler goroutine.
func (t *Tray) emit(a Action) {
	select {
	case t.actions <- a:
	default:
		t.log.Debug("Dropping tray action, queue full", "action", a)
	}
}

// Close releases the bus connection, which also withdraws the item.
func (t *Tray) Close() error {
	return t.conn.Close()
}
