package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"hypr-minimize/internal/hypr"
	"hypr-minimize/pkg/global"
)

const (
	CommandRestore = "restore"
	CommandClose   = "close"
	CommandStatus  = "status"
)

// Request is the JSON payload sent to a running minimizer instance.
type Request struct {
	Command string `json:"command"`
}

// Response is the JSON reply from a minimizer instance.
type Response struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Window  *hypr.Window `json:"window,omitempty"`
}

// Controller is the part of the application the control socket drives.
type Controller interface {
	// Restore brings the minimized window back and lets the process exit.
	Restore() error
	// CloseWindow closes the minimized window and lets the process exit.
	CloseWindow() error
	// Window returns the window this instance manages.
	Window() hypr.Window
}

// SocketDir returns the directory holding per-instance control sockets.
func SocketDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "hypr-minimize")
	}
	return filepath.Join(os.TempDir(), "hypr-minimize")
}

// SocketPath returns the control socket path for a given process ID.
func SocketPath(pid int) string {
	return filepath.Join(SocketDir(), fmt.Sprintf("%d.sock", pid))
}

// Server accepts control requests for one minimizer instance.
type Server struct {
	listener   net.Listener
	path       string
	controller Controller
	inflight   sync.WaitGroup
}

// StartServer listens on this process's control socket and serves requests
// in the background.
func StartServer(controller Controller) (*Server, error) {
	log := global.GetLogger()

	path := SocketPath(os.Getpid())
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	// Remove a stale socket left by a crashed instance with the same pid
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove existing socket file: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("failed to start socket server: %w", err)
	}

	s := &Server{listener: listener, path: path, controller: controller}
	log.Info("Control socket started", "path", path)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				// Listener closed on shutdown
				log.Debug("Control socket accept loop ended", "error", err.Error())
				return
			}
			log.Debug("New control connection accepted")
			s.inflight.Add(1)
			go s.handleConnection(conn)
		}
	}()

	return s, nil
}

func (s *Server) handleConnection(conn net.Conn) {
	log := global.GetLogger()
	defer s.inflight.Done()
	defer conn.Close()

	var req Request
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&req); err != nil {
		log.Error("Failed to decode control request", err)
		return
	}

	log.Info("Received control request", "command", req.Command)

	var resp Response
	switch req.Command {
	case CommandStatus:
		window := s.controller.Window()
		resp = Response{Status: "success", Message: "minimized", Window: &window}
	case CommandRestore:
		if err := s.controller.Restore(); err != nil {
			log.Error("Restore command failed", err)
			resp = Response{Status: "error", Message: err.Error()}
		} else {
			resp = Response{Status: "success", Message: "Window restored"}
		}
	case CommandClose:
		if err := s.controller.CloseWindow(); err != nil {
			log.Error("Close command failed", err)
			resp = Response{Status: "error", Message: err.Error()}
		} else {
			resp = Response{Status: "success", Message: "Window closed"}
		}
	default:
		log.Error("Unknown control command", fmt.Errorf("command: %s", req.Command))
		resp = Response{Status: "error", Message: "Unknown command"}
	}

	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(resp); err != nil {
		log.Error("Failed to encode control response", err)
	} else {
		log.Debug("Control response sent", "status", resp.Status)
	}
}

// Close stops the server, waits for in-flight requests to finish their
// responses and removes the socket file.
func (s *Server) Close() error {
	err := s.listener.Close()
	s.inflight.Wait()
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
