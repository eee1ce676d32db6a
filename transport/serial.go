package transport

import (
	"errors"
	"fmt"
	"os"
	"sort"

	serial "go.bug.st/serial"
)

// DefaultBaud matches the transmitter firmware.
const DefaultBaud = 115200

// Serial is an open serial port carrying transmitter records.
// Reads block without a deadline; Close unblocks a pending read.
type Serial struct {
	*Reader
	port serial.Port
	name string
}

// OpenSerial opens name at baud (8N1) with no read timeout.
func OpenSerial(name string, baud int) (*Serial, error) {
	if name == "" {
		return nil, errors.New("serial port name is empty")
	}
	if baud <= 0 {
		baud = DefaultBaud
	}
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial %s: %w", name, err)
	}
	if err := p.SetReadTimeout(serial.NoTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	// Bytes queued before we opened belong to a record we only see half of.
	_ = p.ResetInputBuffer()
	return &Serial{Reader: NewReader(p), port: p, name: name}, nil
}

// Name returns the port name the Serial was opened with.
func (s *Serial) Name() string { return s.name }

// Write sends raw bytes to the port.
func (s *Serial) Write(b []byte) (int, error) {
	if s.port == nil {
		return 0, errors.New("serial port not open")
	}
	return s.port.Write(b)
}

// Close closes the underlying port.
func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

// Ports lists the serial ports present on the host, sorted by name.
func Ports() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}

// Replay reads a previously captured record stream from a file.
type Replay struct {
	*Reader
	f *os.File
}

// OpenReplay opens path for reading records.
func OpenReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay %s: %w", path, err)
	}
	return &Replay{Reader: NewReader(f), f: f}, nil
}

// Close closes the replay file.
func (r *Replay) Close() error {
	return r.f.Close()
}
