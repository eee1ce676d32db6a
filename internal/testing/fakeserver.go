// Package testing provides an in-process stand-in for a VIIPER API server.
package testing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	apitypes "github.com/joymouse/joymouse/apitypes"
	"github.com/joymouse/joymouse/device/mouse"
)

// FakeServer answers the VIIPER management protocol without authentication
// and records every mouse report streamed to its devices.
type FakeServer struct {
	ln net.Listener

	mu      sync.Mutex
	buses   map[uint32][]string
	nextDev int
	reports map[string][]mouse.InputState
	reqs    []string
}

// StartFakeServer listens on a loopback port; it is closed by t.Cleanup.
func StartFakeServer(t *testing.T) *FakeServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &FakeServer{
		ln:      ln,
		buses:   map[uint32][]string{},
		reports: map[string][]mouse.InputState{},
	}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

// Addr returns host:port of the server.
func (s *FakeServer) Addr() string { return s.ln.Addr().String() }

// AddBus pre-creates a bus.
func (s *FakeServer) AddBus(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buses[id] = nil
}

// Buses returns the bus numbers currently present.
func (s *FakeServer) Buses() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uint32, 0, len(s.buses))
	for id := range s.buses {
		out = append(out, id)
	}
	return out
}

// Devices returns the device ids present on bus.
func (s *FakeServer) Devices(bus uint32) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.buses[bus]...)
}

// Requests returns the command lines received so far, without payloads.
func (s *FakeServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.reqs...)
}

// WaitReports blocks until device devID on bus has received n reports.
func (s *FakeServer) WaitReports(t *testing.T, bus uint32, devID string, n int) []mouse.InputState {
	t.Helper()
	key := streamKey(bus, devID)
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		got := append([]mouse.InputState(nil), s.reports[key]...)
		s.mu.Unlock()
		if len(got) >= n {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d reports on %s, got %d", n, key, len(got))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func streamKey(bus uint32, devID string) string {
	return fmt.Sprintf("%d-%s", bus, devID)
}

func (s *FakeServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *FakeServer) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\x00')
	if err != nil {
		return
	}
	path, payload, _ := strings.Cut(strings.TrimSuffix(line, "\x00"), " ")

	s.mu.Lock()
	s.reqs = append(s.reqs, path)
	s.mu.Unlock()

	parts := strings.Split(path, "/")
	if len(parts) == 3 && parts[0] == "bus" && parts[2] != "add" && parts[2] != "remove" && parts[2] != "list" {
		s.stream(r, parts[1], parts[2])
		return
	}

	resp := s.dispatch(parts, payload)
	b, _ := json.Marshal(resp)
	_, _ = conn.Write(append(b, '\n'))
}

func (s *FakeServer) stream(r io.Reader, bus, devID string) {
	id, err := strconv.ParseUint(bus, 10, 32)
	if err != nil {
		return
	}
	key := streamKey(uint32(id), devID)
	buf := make([]byte, mouse.ReportSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return
		}
		var st mouse.InputState
		_ = st.UnmarshalBinary(buf)
		s.mu.Lock()
		s.reports[key] = append(s.reports[key], st)
		s.mu.Unlock()
	}
}

func (s *FakeServer) dispatch(parts []string, payload string) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	notFound := func(detail string) any {
		return apitypes.ApiError{Status: 404, Title: "Not Found", Detail: detail}
	}

	switch {
	case len(parts) == 1 && parts[0] == "ping":
		return apitypes.PingResponse{Server: "VIIPER", Version: "test"}
	case len(parts) == 2 && parts[1] == "list":
		resp := apitypes.BusListResponse{Buses: []uint32{}}
		for id := range s.buses {
			resp.Buses = append(resp.Buses, id)
		}
		return resp
	case len(parts) == 2 && parts[1] == "create":
		id, err := strconv.ParseUint(payload, 10, 32)
		if err != nil || id == 0 {
			return apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "invalid busId"}
		}
		if _, ok := s.buses[uint32(id)]; ok {
			return apitypes.ApiError{Status: 409, Title: "Conflict", Detail: "bus exists"}
		}
		s.buses[uint32(id)] = nil
		return apitypes.BusResponse{BusID: uint32(id)}
	case len(parts) == 2 && parts[1] == "remove":
		id, _ := strconv.ParseUint(payload, 10, 32)
		if _, ok := s.buses[uint32(id)]; !ok {
			return notFound("bus not found")
		}
		delete(s.buses, uint32(id))
		return apitypes.BusResponse{BusID: uint32(id)}
	case len(parts) == 3 && parts[2] == "add":
		id, _ := strconv.ParseUint(parts[1], 10, 32)
		if _, ok := s.buses[uint32(id)]; !ok {
			return notFound(fmt.Sprintf("bus %d not found", id))
		}
		var req apitypes.DeviceCreateRequest
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: err.Error()}
		}
		s.nextDev++
		devID := strconv.Itoa(s.nextDev)
		s.buses[uint32(id)] = append(s.buses[uint32(id)], devID)
		return apitypes.Device{BusID: uint32(id), DevID: devID, Vid: "0x2e8a", Pid: "0x0011", Type: req.Type}
	case len(parts) == 3 && parts[2] == "remove":
		id, _ := strconv.ParseUint(parts[1], 10, 32)
		devs := s.buses[uint32(id)]
		for i, d := range devs {
			if d == payload {
				s.buses[uint32(id)] = append(devs[:i], devs[i+1:]...)
				return apitypes.DeviceRemoveResponse{BusID: uint32(id), DevID: d}
			}
		}
		return notFound("device not found")
	default:
		return notFound("unknown path")
	}
}
