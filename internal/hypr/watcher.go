package hypr

import (
	"context"
	"strings"
	"time"

	"hypr-minimize/pkg/logger"
)

// State is the observed fate of a watched window.
type State int

const (
	// StateMinimized means the window is still parked on the special workspace.
	StateMinimized State = iota
	// StateRestored means the window moved back to a regular workspace.
	StateRestored
	// StateClosed means the window no longer exists.
	StateClosed
)

// ClientLister lists compositor windows. *Client satisfies it.
type ClientLister interface {
	Clients() ([]Window, error)
}

// Watcher observes a single window for external restore or close. It listens
// on the compositor event socket and keeps a periodic poll as fallback, since
// events can be missed across compositor restarts.
type Watcher struct {
	client   ClientLister
	address  string
	interval time.Duration
	log      *logger.Logger
}

// NewWatcher creates a watcher for the window at the given address.
func NewWatcher(client ClientLister, address string, interval time.Duration, log *logger.Logger) *Watcher {
	return &Watcher{
		client:   client,
		address:  address,
		interval: interval,
		log:      log,
	}
}

// Watch blocks until the window is restored or closed externally, a poll
// fails, or the context is cancelled. On cancellation it returns
// StateMinimized and the context error.
func (w *Watcher) Watch(ctx context.Context) (State, error) {
	events, err := Subscribe(ctx)
	if err != nil {
		w.log.Warn("Event socket unavailable, polling only", "error", err.Error())
		events = nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return StateMinimized, ctx.Err()

		case ev, ok := <-events:
			if !ok {
				w.log.Warn("Event stream ended, polling only")
				events = nil
				continue
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("Window event received", "event", ev.Name, "data", ev.Data)
			if state, err := w.check(); err != nil || state != StateMinimized {
				return state, err
			}

		case <-ticker.C:
			if state, err := w.check(); err != nil || state != StateMinimized {
				return state, err
			}
		}
	}
}

// relevant filters events down to the ones that can change our window's fate.
func (w *Watcher) relevant(ev Event) bool {
	switch ev.Name {
	case "closewindow":
		return sameAddress(ev.Data, w.address)
	case "movewindow", "movewindowv2":
		// data is ADDRESS,WORKSPACE
		addr, _, _ := strings.Cut(ev.Data, ",")
		return sameAddress(addr, w.address)
	default:
		return false
	}
}

// check polls the client list and classifies the window state.
func (w *Watcher) check() (State, error) {
	clients, err := w.client.Clients()
	if err != nil {
		w.log.Error("Failed to check window state", err)
		return StateMinimized, err
	}

	for _, client := range clients {
		if !sameAddress(client.Address, w.address) {
			continue
		}
		if client.Visible() {
			w.log.Info("Window restored externally", "address", w.address)
			return StateRestored, nil
		}
		return StateMinimized, nil
	}

	w.log.Info("Window closed externally", "address", w.address)
	return StateClosed, nil
}
