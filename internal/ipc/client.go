package ipc

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"hypr-minimize/internal/hypr"
	"hypr-minimize/pkg/global"
)

// Instance describes one running minimizer found through its control socket.
type Instance struct {
	PID    int
	Socket string
	Window hypr.Window
}

// Send delivers a command to the control socket at the given path.
func Send(socket string, command string) (Response, error) {
	log := global.GetLogger()

	log.Debug("Connecting to control socket", "path", socket)
	conn, err := net.Dial("unix", socket)
	if err != nil {
		log.Error("Failed to connect to control socket", err, "path", socket)
		return Response{}, err
	}
	defer conn.Close()

	req := Request{Command: command}
	encoder := json.NewEncoder(conn)
	if err := encoder.Encode(req); err != nil {
		log.Error("Failed to encode control request", err)
		return Response{}, err
	}

	var resp Response
	decoder := json.NewDecoder(conn)
	if err := decoder.Decode(&resp); err != nil {
		log.Error("Failed to decode control response", err)
		return Response{}, err
	}

	log.Debug("Control response received", "status", resp.Status, "message", resp.Message)
	return resp, nil
}

// Discover lists live minimizer instances by querying every control socket
// in the socket directory. Sockets that no longer answer are removed.
func Discover() ([]Instance, error) {
	log := global.GetLogger()

	entries, err := os.ReadDir(SocketDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var instances []Instance
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sock") {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSuffix(name, ".sock"))
		if err != nil {
			continue
		}

		socket := filepath.Join(SocketDir(), name)
		resp, err := Send(socket, CommandStatus)
		if err != nil {
			log.Debug("Pruning dead control socket", "path", socket)
			os.Remove(socket)
			continue
		}
		if resp.Window == nil {
			continue
		}

		instances = append(instances, Instance{
			PID:    pid,
			Socket: socket,
			Window: *resp.Window,
		})
	}

	sort.Slice(instances, func(i, j int) bool { return instances[i].PID < instances[j].PID })
	return instances, nil
}

// FindByAddress returns the instance managing the window at the given
// address, or nil when none matches.
func FindByAddress(instances []Instance, address string) *Instance {
	for i := range instances {
		if strings.TrimPrefix(instances[i].Window.Address, "0x") == strings.TrimPrefix(address, "0x") {
			return &instances[i]
		}
	}
	return nil
}
