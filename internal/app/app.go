package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hypr-minimize/internal/hypr"
	"hypr-minimize/internal/ipc"
	"hypr-minimize/internal/models"
	"hypr-minimize/internal/storage"
	"hypr-minimize/internal/tray"
	"hypr-minimize/pkg/config"
	"hypr-minimize/pkg/global"
	"hypr-minimize/pkg/logger"
	"hypr-minimize/pkg/notify"
)

// compositor is the slice of the hyprctl client the minimizer drives.
type compositor interface {
	ActiveWindow() (hypr.Window, error)
	ActiveWorkspace() (hypr.Workspace, error)
	Clients() ([]hypr.Window, error)
	MoveToWorkspaceSilent(workspace, address string) error
	MoveToWorkspace(workspaceID int, address string) error
	FocusWindow(address string) error
	CloseWindow(address string) error
}

// trayIcon is the tray surface the minimized window lives behind.
type trayIcon interface {
	Register() error
	Actions() <-chan tray.Action
	Close() error
}

// Minimizer owns one minimized window: it parks the window on the special
// workspace, serves the tray icon and control socket, and restores or closes
// the window on demand. The process lives exactly as long as the window
// stays minimized.
type Minimizer struct {
	config   *config.Config
	log      *logger.Logger
	notifier *notify.NotifyService
	client   compositor
	db       *storage.DB

	newTray func(window hypr.Window, log *logger.Logger) (trayIcon, error)

	window hypr.Window
	tray   trayIcon

	quit     chan struct{}
	quitOnce sync.Once
}

// NewMinimizer builds a minimizer from the initialized globals.
func NewMinimizer() (*Minimizer, error) {
	cfg := global.GetConfig()
	log := global.GetLogger()
	notifier := global.GetNotifier()

	client, err := hypr.New(log)
	if err != nil {
		return nil, err
	}

	var db *storage.DB
	if cfg.HistoryEnabled() {
		db, err = storage.New()
		if err != nil {
			log.Warn("History database unavailable", "error", err.Error())
			db = nil
		}
	}

	return &Minimizer{
		config:   cfg,
		log:      log,
		notifier: notifier,
		client:   client,
		db:       db,
		newTray: func(window hypr.Window, log *logger.Logger) (trayIcon, error) {
			return tray.New(window, log)
		},
		quit: make(chan struct{}),
	}, nil
}

// Run minimizes the focused window and blocks until it is restored, closed,
// or the process is interrupted.
func (m *Minimizer) Run() error {
	window, err := m.client.ActiveWindow()
	if err != nil {
		m.notifier.Show("No focused window to minimize", notify.Error)
		return fmt.Errorf("failed to get active window: %w", err)
	}
	// Some clients report no class; the title is the next best identifier
	if window.Class == "" {
		window.Class = window.Title
	}
	m.window = window

	m.log.Info("Minimizing window",
		"title", window.Title,
		"class", window.Class,
		"address", window.Address,
		"workspace", window.Workspace.ID)

	if err := m.client.MoveToWorkspaceSilent(m.config.GetSpecialWorkspace(), window.Address); err != nil {
		m.notifier.Show("Failed to minimize window", notify.Error)
		return err
	}

	t, err := m.newTray(window, m.log)
	if err != nil {
		m.log.Error("Failed to create tray icon", err)
		m.notifier.Show("Failed to create tray icon", notify.Error)
		m.restoreTo(window.Workspace.ID)
		return err
	}
	m.tray = t
	defer t.Close()

	if err := t.Register(); err != nil {
		m.log.Error("Could not register with StatusNotifierWatcher", err)
		m.notifier.Show("Could not register tray icon. Is a bar like Waybar running?", notify.Error)
		m.restoreTo(window.Workspace.ID)
		return fmt.Errorf("failed to register tray icon: %w", err)
	}

	m.record(models.ActionMinimized)
	m.playSound()

	server, err := ipc.StartServer(m)
	if err != nil {
		m.log.Warn("Control socket unavailable", "error", err.Error())
	} else {
		defer server.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := hypr.NewWatcher(m.client, window.Address, m.config.GetPollInterval(), m.log)
	type watchResult struct {
		state hypr.State
		err   error
	}
	results := make(chan watchResult, 1)
	go func() {
		state, err := watcher.Watch(ctx)
		results <- watchResult{state, err}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	m.log.Info("Window minimized to tray, waiting for activation", "address", window.Address)

	select {
	case action := <-m.tray.Actions():
		switch action {
		case tray.ActionRestore:
			return m.Restore()
		case tray.ActionClose:
			return m.CloseWindow()
		}
		return nil

	case res := <-results:
		if res.err != nil && !errors.Is(res.err, context.Canceled) {
			m.record(models.ActionLost)
			return res.err
		}
		switch res.state {
		case hypr.StateRestored:
			m.record(models.ActionRestored)
		case hypr.StateClosed:
			m.record(models.ActionClosed)
		}
		return nil

	case <-sigs:
		m.log.Info("Interrupted, restoring window")
		return m.Restore()

	case <-m.quit:
		// a control command already ran its course
		return nil
	}
}

// Restore moves the window to the currently active workspace, focuses it and
// lets the process exit. Falls back to the window's original workspace when
// the active one cannot be determined.
func (m *Minimizer) Restore() error {
	defer m.requestExit()

	targetID := m.window.Workspace.ID
	active, err := m.client.ActiveWorkspace()
	if err != nil {
		m.log.Error("Failed to get active workspace, restoring to original", err)
	} else {
		targetID = active.ID
	}

	if err := m.restoreTo(targetID); err != nil {
		return err
	}
	if err := m.client.FocusWindow(m.window.Address); err != nil {
		m.log.Warn("Failed to focus restored window", "error", err.Error())
	}

	m.record(models.ActionRestored)
	m.log.Info("Window restored", "address", m.window.Address, "workspace", targetID)
	return nil
}

// CloseWindow closes the minimized window and lets the process exit.
func (m *Minimizer) CloseWindow() error {
	defer m.requestExit()

	if err := m.client.CloseWindow(m.window.Address); err != nil {
		return err
	}

	m.record(models.ActionClosed)
	m.log.Info("Window closed", "address", m.window.Address)
	return nil
}

// Window returns the managed window (ipc.Controller).
func (m *Minimizer) Window() hypr.Window {
	return m.window
}

// Close releases the minimizer's resources.
func (m *Minimizer) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Minimizer) restoreTo(workspaceID int) error {
	return m.client.MoveToWorkspace(workspaceID, m.window.Address)
}

func (m *Minimizer) requestExit() {
	m.quitOnce.Do(func() {
		close(m.quit)
	})
}

// record appends a history row. Best effort: failures only log.
func (m *Minimizer) record(action string) {
	if m.db == nil {
		return
	}
	entry := models.HistoryEntry{
		Timestamp:   time.Now(),
		Action:      action,
		Address:     m.window.Address,
		Class:       m.window.Class,
		Title:       m.window.Title,
		WorkspaceID: m.window.Workspace.ID,
	}
	if err := m.db.Add(entry); err != nil {
		m.log.Warn("Failed to record history entry", "action", action, "error", err.Error())
	}
}

func (m *Minimizer) playSound() {
	sn := global.GetSoundNotifier()
	if sn == nil {
		return
	}
	if err := sn.Play(); err != nil {
		m.log.Warn("Failed to play minimize sound", "error", err.Error())
	}
}
