package hypr

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"hypr-minimize/pkg/logger"
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

// fakeClient returns a Client whose hyprctl invocations are recorded and
// answered from canned output.
func fakeClient(t *testing.T, output string, err error) (*Client, *[][]string) {
	t.Helper()
	var calls [][]string
	c := &Client{
		log: newTestLogger(t),
		run: func(args ...string) ([]byte, error) {
			calls = append(calls, args)
			return []byte(output), err
		},
	}
	return c, &calls
}

const activeWindowJSON = `{
	"address": "0x55d2f8a0",
	"class": "firefox",
	"title": "Mozilla Firefox",
	"pid": 4242,
	"workspace": {"id": 3, "name": "3"}
}`

func TestActiveWindow(t *testing.T) {
	require := require.New(t)
	c, calls := fakeClient(t, activeWindowJSON, nil)

	w, err := c.ActiveWindow()
	require.NoError(err)
	require.Equal("0x55d2f8a0", w.Address)
	require.Equal("firefox", w.Class)
	require.Equal("Mozilla Firefox", w.Title)
	require.Equal(4242, w.PID)
	require.Equal(3, w.Workspace.ID)
	require.True(w.Visible())

	require.Equal([][]string{{"-j", "activewindow"}}, *calls)
}

func TestActiveWindowNoneFocused(t *testing.T) {
	require := require.New(t)
	c, _ := fakeClient(t, `{}`, nil)

	_, err := c.ActiveWindow()
	require.ErrorIs(err, ErrNoActiveWindow)
}

func TestActiveWindowCommandError(t *testing.T) {
	require := require.New(t)
	c, _ := fakeClient(t, "", fmt.Errorf("exit status 1"))

	_, err := c.ActiveWindow()
	require.Error(err)
	require.NotErrorIs(err, ErrNoActiveWindow)
}

func TestClients(t *testing.T) {
	require := require.New(t)
	c, _ := fakeClient(t, `[
		{"address": "0x1", "class": "kitty", "title": "shell", "workspace": {"id": 1, "name": "1"}},
		{"address": "0x2", "class": "mpv", "title": "video", "workspace": {"id": -99, "name": "special:minimized"}}
	]`, nil)

	clients, err := c.Clients()
	require.NoError(err)
	require.Len(clients, 2)
	require.True(clients[0].Visible())
	require.False(clients[1].Visible())
}

func TestClientsBadJSON(t *testing.T) {
	require := require.New(t)
	c, _ := fakeClient(t, `not json`, nil)

	_, err := c.Clients()
	require.Error(err)
}

func TestActiveWorkspace(t *testing.T) {
	require := require.New(t)
	c, _ := fakeClient(t, `{"id": 7, "name": "7"}`, nil)

	ws, err := c.ActiveWorkspace()
	require.NoError(err)
	require.Equal(7, ws.ID)
}

func TestDispatchers(t *testing.T) {
	require := require.New(t)
	c, calls := fakeClient(t, "ok", nil)

	require.NoError(c.MoveToWorkspaceSilent("special:minimized", "0xabc"))
	require.NoError(c.MoveToWorkspace(4, "0xabc"))
	require.NoError(c.FocusWindow("0xabc"))
	require.NoError(c.CloseWindow("0xabc"))

	require.Equal([][]string{
		{"dispatch", "movetoworkspacesilent", "special:minimized,address:0xabc"},
		{"dispatch", "movetoworkspace", "4,address:0xabc"},
		{"dispatch", "focuswindow", "address:0xabc"},
		{"dispatch", "closewindow", "address:0xabc"},
	}, *calls)
}

func TestDispatchError(t *testing.T) {
	require := require.New(t)
	c, _ := fakeClient(t, "Invalid dispatch", fmt.Errorf("exit status 1"))

	require.Error(c.FocusWindow("0xabc"))
}
