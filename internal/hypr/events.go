package hypr

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

// Event is a single message from the Hyprland event socket, wire format
// NAME>>DATA, one per line.
type Event struct {
	Name string
	Data string
}

// EventSocketPath locates the compositor's event socket for the current
// Hyprland instance.
func EventSocketPath() (string, error) {
	sig := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")
	if sig == "" {
		return "", fmt.Errorf("HYPRLAND_INSTANCE_SIGNATURE not set, not running under Hyprland")
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = fmt.Sprintf("/run/user/%d", os.Getuid())
	}

	return filepath.Join(runtimeDir, "hypr", sig, ".socket2.sock"), nil
}

// Subscribe connects to the Hyprland event socket and streams events until
// the context is cancelled or the socket closes. The returned channel is
// closed when the stream ends.
func Subscribe(ctx context.Context) (<-chan Event, error) {
	path, err := EventSocketPath()
	if err != nil {
		return nil, err
	}

	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to event socket: %w", err)
	}

	events := make(chan Event, 16)

	// Unblock the scanner when the context is cancelled.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(events)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			ev, ok := parseEvent(scanner.Text())
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

// parseEvent splits a NAME>>DATA line.
func parseEvent(line string) (Event, bool) {
	name, data, found := strings.Cut(line, ">>")
	if !found || name == "" {
		return Event{}, false
	}
	return Event{Name: name, Data: data}, true
}

// sameAddress compares window addresses, tolerating the 0x prefix that
// hyprctl JSON carries but socket2 events omit.
func sameAddress(a, b string) bool {
	return strings.TrimPrefix(a, "0x") == strings.TrimPrefix(b, "0x")
}
