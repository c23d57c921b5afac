package hypr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Watcher tests run without an event socket, exercising the poll fallback.

func TestWatchDetectsClose(t *testing.T) {
	require := require.New(t)
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	c, _ := fakeClient(t, `[]`, nil)
	w := NewWatcher(c, "0xabc", 10*time.Millisecond, newTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	state, err := w.Watch(ctx)
	require.NoError(err)
	require.Equal(StateClosed, state)
}

func TestWatchDetectsRestore(t *testing.T) {
	require := require.New(t)
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	c, _ := fakeClient(t, `[
		{"address": "0xabc", "class": "kitty", "title": "shell", "workspace": {"id": 2, "name": "2"}}
	]`, nil)
	w := NewWatcher(c, "0xabc", 10*time.Millisecond, newTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	state, err := w.Watch(ctx)
	require.NoError(err)
	require.Equal(StateRestored, state)
}

func TestWatchStaysOnSpecialWorkspace(t *testing.T) {
	require := require.New(t)
	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")

	c, _ := fakeClient(t, `[
		{"address": "0xabc", "class": "kitty", "title": "shell", "workspace": {"id": -99, "name": "special:minimized"}}
	]`, nil)
	w := NewWatcher(c, "0xabc", 10*time.Millisecond, newTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	state, err := w.Watch(ctx)
	require.ErrorIs(err, context.DeadlineExceeded)
	require.Equal(StateMinimized, state)
}

func TestWatcherRelevant(t *testing.T) {
	require := require.New(t)
	w := &Watcher{address: "0x5934277460f0", log: newTestLogger(t)}

	require.True(w.relevant(Event{Name: "closewindow", Data: "5934277460f0"}))
	require.True(w.relevant(Event{Name: "movewindow", Data: "5934277460f0,special:minimized"}))
	require.True(w.relevant(Event{Name: "movewindowv2", Data: "5934277460f0,2,2"}))
	require.False(w.relevant(Event{Name: "closewindow", Data: "deadbeef"}))
	require.False(w.relevant(Event{Name: "workspace", Data: "2"}))
	require.False(w.relevant(Event{Name: "openwindow", Data: "5934277460f0,2,kitty,shell"}))
}
