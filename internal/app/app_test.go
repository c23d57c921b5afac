package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"hypr-minimize/internal/hypr"
	"hypr-minimize/internal/tray"
	"hypr-minimize/pkg/config"
	"hypr-minimize/pkg/global"
	"hypr-minimize/pkg/logger"
	"hypr-minimize/pkg/notify"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(
		logger.WithLevel(zerolog.Disabled),
		logger.WithFile(filepath.Join(t.TempDir(), "test.log")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { log.Close() })
	return log
}

// fakeCompositor records every dispatch it receives. Clients always reports
// the window parked on the special workspace.
type fakeCompositor struct {
	mu         sync.Mutex
	window     hypr.Window
	activeWS   hypr.Workspace
	activeErr  error
	dispatches []string
}

func (f *fakeCompositor) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatches = append(f.dispatches, call)
}

func (f *fakeCompositor) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.dispatches...)
}

func (f *fakeCompositor) ActiveWindow() (hypr.Window, error) {
	return f.window, nil
}

func (f *fakeCompositor) ActiveWorkspace() (hypr.Workspace, error) {
	if f.activeErr != nil {
		return hypr.Workspace{}, f.activeErr
	}
	return f.activeWS, nil
}

func (f *fakeCompositor) Clients() ([]hypr.Window, error) {
	w := f.window
	w.Workspace = hypr.Workspace{ID: -99, Name: "special:minimized"}
	return []hypr.Window{w}, nil
}

func (f *fakeCompositor) MoveToWorkspaceSilent(workspace, address string) error {
	f.record(fmt.Sprintf("movetoworkspacesilent %s,%s", workspace, address))
	return nil
}

func (f *fakeCompositor) MoveToWorkspace(workspaceID int, address string) error {
	f.record(fmt.Sprintf("movetoworkspace %d,%s", workspaceID, address))
	return nil
}

func (f *fakeCompositor) FocusWindow(address string) error {
	f.record("focuswindow " + address)
	return nil
}

func (f *fakeCompositor) CloseWindow(address string) error {
	f.record("closewindow " + address)
	return nil
}

type fakeTray struct {
	actions     chan tray.Action
	registerErr error
	closed      bool
}

func (f *fakeTray) Register() error             { return f.registerErr }
func (f *fakeTray) Actions() <-chan tray.Action { return f.actions }
func (f *fakeTray) Close() error {
	f.closed = true
	return nil
}

func newTestMinimizer(t *testing.T, comp *fakeCompositor, ft *fakeTray, trayErr error) *Minimizer {
	t.Helper()
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	log := newTestLogger(t)
	cfg := config.DefaultConfig(log)
	global.InitGlobals(cfg, log)

	return &Minimizer{
		config:   cfg,
		log:      log,
		notifier: notify.NewNotifyService("", log),
		client:   comp,
		newTray: func(window hypr.Window, log *logger.Logger) (trayIcon, error) {
			if trayErr != nil {
				return nil, trayErr
			}
			return ft, nil
		},
		quit: make(chan struct{}),
	}
}

func TestRunRestoreFromTray(t *testing.T) {
	require := require.New(t)
	comp := &fakeCompositor{
		// no class reported, the title stands in
		window:   hypr.Window{Address: "0x55d2f8a0", Title: "shell", Workspace: hypr.Workspace{ID: 3}},
		activeWS: hypr.Workspace{ID: 5},
	}
	ft := &fakeTray{actions: make(chan tray.Action, 1)}
	ft.actions <- tray.ActionRestore

	m := newTestMinimizer(t, comp, ft, nil)
	require.NoError(m.Run())

	require.Equal("shell", m.Window().Class)
	require.Equal([]string{
		"movetoworkspacesilent special:minimized,0x55d2f8a0",
		"movetoworkspace 5,0x55d2f8a0",
		"focuswindow 0x55d2f8a0",
	}, comp.recorded())
	require.True(ft.closed)
}

func TestRunCloseFromTray(t *testing.T) {
	require := require.New(t)
	comp := &fakeCompositor{
		window: hypr.Window{Address: "0x55d2f8a0", Class: "kitty", Title: "shell", Workspace: hypr.Workspace{ID: 3}},
	}
	ft := &fakeTray{actions: make(chan tray.Action, 1)}
	ft.actions <- tray.ActionClose

	m := newTestMinimizer(t, comp, ft, nil)
	require.NoError(m.Run())

	require.Equal([]string{
		"movetoworkspacesilent special:minimized,0x55d2f8a0",
		"closewindow 0x55d2f8a0",
	}, comp.recorded())
}

func TestRunRestoresOnTrayCreationFailure(t *testing.T) {
	require := require.New(t)
	comp := &fakeCompositor{
		window: hypr.Window{Address: "0x55d2f8a0", Class: "kitty", Title: "shell", Workspace: hypr.Workspace{ID: 3}},
	}

	m := newTestMinimizer(t, comp, nil, errors.New("session bus unavailable"))
	require.Error(m.Run())

	// the window must come back to its original workspace
	require.Equal([]string{
		"movetoworkspacesilent special:minimized,0x55d2f8a0",
		"movetoworkspace 3,0x55d2f8a0",
	}, comp.recorded())
}

func TestRunRestoresOnRegistrationFailure(t *testing.T) {
	require := require.New(t)
	comp := &fakeCompositor{
		window: hypr.Window{Address: "0x55d2f8a0", Class: "kitty", Title: "shell", Workspace: hypr.Workspace{ID: 3}},
	}
	ft := &fakeTray{
		actions:     make(chan tray.Action),
		registerErr: errors.New("no StatusNotifierWatcher on the bus"),
	}

	m := newTestMinimizer(t, comp, ft, nil)
	require.Error(m.Run())

	require.Equal([]string{
		"movetoworkspacesilent special:minimized,0x55d2f8a0",
		"movetoworkspace 3,0x55d2f8a0",
	}, comp.recorded())
	require.True(ft.closed)
}

func TestRestoreFallsBackToOriginalWorkspace(t *testing.T) {
	require := require.New(t)
	comp := &fakeCompositor{
		window:    hypr.Window{Address: "0x55d2f8a0", Class: "kitty", Workspace: hypr.Workspace{ID: 3}},
		activeErr: errors.New("hyprctl failed"),
	}

	m := newTestMinimizer(t, comp, &fakeTray{actions: make(chan tray.Action)}, nil)
	m.window = comp.window
	require.NoError(m.Restore())

	require.Equal([]string{
		"movetoworkspace 3,0x55d2f8a0",
		"focuswindow 0x55d2f8a0",
	}, comp.recorded())
}
