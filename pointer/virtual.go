package pointer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/joymouse/joymouse/apiclient"
	apitypes "github.com/joymouse/joymouse/apitypes"
	"github.com/joymouse/joymouse/device/mouse"
	"github.com/joymouse/joymouse/internal/log"
)

// VirtualConfig selects the VIIPER server and bus for a virtual mouse.
type VirtualConfig struct {
	Addr     string
	Password string
	// BusID pins the bus; 0 reuses the lowest existing bus or creates one.
	BusID   uint32
	Timeout time.Duration
	// ClickHold is how long a button stays pressed. The device polls every 10ms.
	ClickHold time.Duration
}

const maxBusProbe = 100

// Virtual drives a VIIPER virtual HID mouse.
// A HID mouse only reports relative motion, so the absolute position is the
// one tracked by Virtual, starting at the origin.
type Virtual struct {
	client *apiclient.Client
	stream *apiclient.DeviceStream
	logger *slog.Logger
	raw    log.RawLogger

	busID      uint32
	devID      string
	createdBus bool
	clickHold  time.Duration
	timeout    time.Duration

	mu     sync.Mutex
	x, y   int
	closed bool
}

// OpenVirtual creates a mouse device on a VIIPER server and connects to its stream.
func OpenVirtual(ctx context.Context, cfg VirtualConfig, logger *slog.Logger, raw log.RawLogger) (*Virtual, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	client := apiclient.NewWithConfig(cfg.Addr, &apiclient.Config{
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		Password:     cfg.Password,
	})

	ping, err := client.PingCtx(ctx)
	if err != nil {
		return nil, fmt.Errorf("ping VIIPER at %s: %w", cfg.Addr, err)
	}
	logger.Info("Connected to VIIPER", "addr", cfg.Addr, "server", ping.Server, "version", ping.Version)

	busID, created, err := ensureBus(ctx, client, cfg.BusID)
	if err != nil {
		return nil, err
	}

	stream, dev, err := client.AddDeviceAndConnect(ctx, busID, apitypes.MouseDeviceType, nil)
	if err != nil {
		if dev != nil {
			_, _ = client.DeviceRemoveCtx(ctx, busID, dev.DevID)
		}
		if created {
			_, _ = client.BusRemoveCtx(ctx, busID)
		}
		return nil, fmt.Errorf("create virtual mouse: %w", err)
	}
	logger.Info("Virtual mouse attached", "bus", busID, "device", dev.DevID, "vid", dev.Vid, "pid", dev.Pid)

	return &Virtual{
		client:     client,
		stream:     stream,
		logger:     logger,
		raw:        raw,
		busID:      busID,
		devID:      dev.DevID,
		createdBus: created,
		clickHold:  cfg.ClickHold,
		timeout:    cfg.Timeout,
	}, nil
}

func ensureBus(ctx context.Context, client *apiclient.Client, want uint32) (uint32, bool, error) {
	if want != 0 {
		if _, err := client.BusCreateCtx(ctx, want); err != nil {
			if apitypes.HasStatus(err, 409) {
				return want, false, nil
			}
			return 0, false, fmt.Errorf("create bus %d: %w", want, err)
		}
		return want, true, nil
	}

	buses, err := client.BusListCtx(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("list buses: %w", err)
	}
	if len(buses.Buses) > 0 {
		lowest := buses.Buses[0]
		for _, b := range buses.Buses[1:] {
			lowest = min(lowest, b)
		}
		return lowest, false, nil
	}

	var lastErr error
	for try := uint32(1); try <= maxBusProbe; try++ {
		r, err := client.BusCreateCtx(ctx, try)
		if err == nil {
			return r.BusID, true, nil
		}
		lastErr = err
	}
	return 0, false, fmt.Errorf("create bus: %w", lastErr)
}

// BusID returns the bus the mouse is attached to.
func (v *Virtual) BusID() uint32 { return v.busID }

// DevID returns the device id of the mouse on its bus.
func (v *Virtual) DevID() string { return v.devID }

func (v *Virtual) send(st mouse.InputState) error {
	b, _ := st.MarshalBinary()
	v.raw.Log(false, b)
	return v.stream.WriteBinary(&st)
}

func (v *Virtual) Position() (int, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, 0, apiclient.ErrStreamClosed
	}
	return v.x, v.y, nil
}

// MoveTo sends the displacement from the tracked position, split into
// int16-sized reports.
func (v *Virtual) MoveTo(x, y int) error {
	v.mu.Lock()
	dx, dy := x-v.x, y-v.y
	v.mu.Unlock()

	for dx != 0 || dy != 0 {
		sx, sy := step(dx), step(dy)
		if err := v.send(mouse.InputState{DX: sx, DY: sy}); err != nil {
			return err
		}
		dx -= int(sx)
		dy -= int(sy)
		v.mu.Lock()
		v.x += int(sx)
		v.y += int(sy)
		v.mu.Unlock()
	}
	return nil
}

func step(d int) int16 {
	return int16(max(math.MinInt16+1, min(d, math.MaxInt16)))
}

func (v *Virtual) Click(b Button) error {
	var mask uint8
	switch b {
	case ButtonLeft:
		mask = mouse.Btn_Left
	case ButtonRight:
		mask = mouse.Btn_Right
	default:
		return fmt.Errorf("unsupported button %s", b)
	}
	if err := v.send(mouse.InputState{Buttons: mask}); err != nil {
		return err
	}
	if v.clickHold > 0 {
		time.Sleep(v.clickHold)
	}
	return v.send(mouse.InputState{})
}

func (v *Virtual) Scroll(delta int) error {
	if delta == 0 {
		return nil
	}
	return v.send(mouse.InputState{Wheel: step(delta)})
}

// Close detaches the mouse and removes the bus if OpenVirtual created it.
func (v *Virtual) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	errs := []error{v.stream.Close()}
	if _, err := v.client.DeviceRemoveCtx(ctx, v.busID, v.devID); err != nil {
		errs = append(errs, fmt.Errorf("remove device %d-%s: %w", v.busID, v.devID, err))
	} else {
		v.logger.Info("Removed virtual mouse", "bus", v.busID, "device", v.devID)
	}
	if v.createdBus {
		if _, err := v.client.BusRemoveCtx(ctx, v.busID); err != nil {
			errs = append(errs, fmt.Errorf("remove bus %d: %w", v.busID, err))
		}
	}
	return errors.Join(errs...)
}
