package apiclient

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	apitypes "github.com/joymouse/joymouse/apitypes"
)

// ErrStreamClosed is returned by writes on a closed DeviceStream.
var ErrStreamClosed = errors.New("stream closed")

// DeviceStream is the input connection of one device.
type DeviceStream struct {
	BusID uint32
	DevID string

	mu           sync.Mutex
	conn         net.Conn
	closed       bool
	writeTimeout time.Duration
}

// OpenStream connects to the stream channel of an existing device.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, fmt.Errorf("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(fmt.Sprintf("bus/%d/%s\x00", busID, devID))); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DeviceStream{
		BusID:        busID,
		DevID:        devID,
		conn:         conn,
		writeTimeout: c.transport.cfg.WriteTimeout,
	}, nil
}

// AddDeviceAndConnect creates a device on the bus and opens its stream.
// If the stream cannot be opened the created device is returned with the error.
func (c *Client) AddDeviceAndConnect(ctx context.Context, busID uint32, devType string, o *CreateOptions) (*DeviceStream, *apitypes.Device, error) {
	dev, err := c.DeviceAddCtx(ctx, busID, devType, o)
	if err != nil {
		return nil, nil, err
	}
	stream, err := c.OpenStream(ctx, busID, dev.DevID)
	if err != nil {
		return nil, dev, err
	}
	return stream, dev, nil
}

// WriteBinary marshals v and sends it as one write.
func (s *DeviceStream) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}

// Close closes the stream connection. It is safe to call more than once.
func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
