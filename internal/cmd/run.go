package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joymouse/joymouse/internal/engine"
	"github.com/joymouse/joymouse/internal/log"
	"github.com/joymouse/joymouse/mapper"
	"github.com/joymouse/joymouse/pointer"
	"github.com/joymouse/joymouse/transport"
)

// Pointer kinds accepted by --pointer.
const (
	PointerVirtual = "virtual"
	PointerDryRun  = "dry-run"
)

// Viiper locates the VIIPER server hosting the virtual mouse.
type Viiper struct {
	Addr      string        `help:"VIIPER API address" default:"localhost:3242" env:"JOYMOUSE_VIIPER_ADDR"`
	Password  string        `help:"VIIPER API password; empty disables authentication" env:"JOYMOUSE_VIIPER_PASSWORD"`
	Bus       uint32        `help:"Bus to attach the mouse to; 0 reuses the lowest bus or creates one" default:"0" env:"JOYMOUSE_VIIPER_BUS"`
	Timeout   time.Duration `help:"VIIPER API timeout" default:"5s"`
	ClickHold time.Duration `help:"How long a clicked button stays pressed" default:"20ms"`
}

type Run struct {
	Port                   string `help:"Serial port of the transmitter; enumerated when empty" env:"JOYMOUSE_PORT"`
	Baud                   int    `help:"Serial baud rate" default:"115200" env:"JOYMOUSE_BAUD"`
	Replay                 string `help:"Read records from a captured file instead of a serial port"`
	Pointer                string `help:"Pointer device" enum:"virtual,dry-run" default:"virtual" env:"JOYMOUSE_POINTER"`
	Viiper                 Viiper `embed:"" prefix:"viiper."`
	Deadzone               int    `help:"Half-width of the stick deadzone in raw units" default:"40"`
	ContinueOnPointerError bool   `help:"Log pointer failures and keep running instead of exiting"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger, rawLogger)
}

type recordSource interface {
	transport.RecordReader
	io.Closer
}

// Start runs the loop until the source ends or ctx is cancelled.
func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	if r.Deadzone < 0 {
		return fmt.Errorf("deadzone must not be negative, got %d", r.Deadzone)
	}
	m := mapper.Default
	m.Deadzone = r.Deadzone

	src, err := r.openSource(logger)
	if err != nil {
		return err
	}
	defer src.Close()

	dev, err := r.openPointer(ctx, logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Error("Failed to close pointer", "error", err)
		}
	}()

	stop := context.AfterFunc(ctx, func() {
		logger.Info("Shutting down")
		_ = src.Close()
	})
	defer stop()

	stats, err := engine.Run(ctx, src, dev, engine.Options{
		Mapper:                 &m,
		Logger:                 logger,
		Raw:                    rawLogger,
		ContinueOnPointerError: r.ContinueOnPointerError,
	})
	logger.Info("Stopped", "stats", stats)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Run) openSource(logger *slog.Logger) (recordSource, error) {
	if r.Replay != "" {
		rp, err := transport.OpenReplay(r.Replay)
		if err != nil {
			return nil, err
		}
		logger.Info("Replaying records", "file", r.Replay)
		return rp, nil
	}

	name := r.Port
	if name == "" {
		ports, err := transport.Ports()
		if err != nil {
			return nil, err
		}
		name, err = choosePort(ports, isTerminal(os.Stdin), os.Stdin, os.Stderr)
		if err != nil {
			return nil, err
		}
	}

	s, err := transport.OpenSerial(name, r.Baud)
	if err != nil {
		return nil, err
	}
	logger.Info("Listening on serial port", "port", name, "baud", r.Baud)
	return s, nil
}

func (r *Run) openPointer(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) (pointer.Device, error) {
	switch r.Pointer {
	case PointerDryRun:
		return pointer.NewDryRun(logger, 0, 0), nil
	case PointerVirtual, "":
		return pointer.OpenVirtual(ctx, pointer.VirtualConfig{
			Addr:      r.Viiper.Addr,
			Password:  r.Viiper.Password,
			BusID:     r.Viiper.Bus,
			Timeout:   r.Viiper.Timeout,
			ClickHold: r.Viiper.ClickHold,
		}, logger, rawLogger)
	default:
		return nil, fmt.Errorf("unknown pointer %q", r.Pointer)
	}
}
