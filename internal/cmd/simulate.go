package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joymouse/joymouse/frame"
	"github.com/joymouse/joymouse/internal/log"
	"github.com/joymouse/joymouse/transport"
)

const (
	rawCenter = 512
	rawMax    = 1023
)

// Simulate writes synthetic transmitter records, for testing a receiver
// without the joystick hardware.
type Simulate struct {
	Port        string        `help:"Serial port to write records to; stdout when empty" env:"JOYMOUSE_SIMULATE_PORT"`
	Baud        int           `help:"Serial baud rate" default:"115200"`
	Interval    time.Duration `help:"Delay between records" default:"20ms"`
	Radius      int           `help:"Stick deflection in raw units" default:"300"`
	Period      int           `help:"Records per full circle" default:"200"`
	Sensitivity int32         `help:"Sensitivity field sent with every record" default:"4"`
	ClickEvery  int           `help:"Press left on every Nth record; 0 disables" default:"0"`
	ScrollEvery int           `help:"Scroll on every Nth record, alternating up and down; 0 disables" default:"0"`
	Count       int           `help:"Stop after this many records; 0 runs until interrupted" default:"0"`
}

// Run is called by Kong when the simulate command is executed.
func (s *Simulate) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var w io.Writer = os.Stdout
	if s.Port != "" {
		port, err := transport.OpenSerial(s.Port, s.Baud)
		if err != nil {
			return err
		}
		defer port.Close()
		w = port
		logger.Info("Simulating transmitter", "port", s.Port, "baud", s.Baud, "interval", s.Interval)
	}

	n, err := s.Emit(ctx, w, rawLogger)
	logger.Debug("Simulation finished", "records", n)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Emit writes records to w until Count is reached or ctx is done.
// It returns the number of records written.
func (s *Simulate) Emit(ctx context.Context, w io.Writer, rawLogger log.RawLogger) (int, error) {
	if s.Period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", s.Period)
	}
	if rawLogger == nil {
		rawLogger = log.NewRaw(nil)
	}

	var tick <-chan time.Time
	if s.Interval > 0 {
		t := time.NewTicker(s.Interval)
		defer t.Stop()
		tick = t.C
	}

	for i := 0; s.Count == 0 || i < s.Count; i++ {
		if i > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return i, err
		}

		rec := frame.Encode(s.FrameAt(i))
		rawLogger.Log(false, rec)
		if _, err := w.Write(rec); err != nil {
			return i, fmt.Errorf("write record: %w", err)
		}
	}
	return s.Count, nil
}

// FrameAt returns the i-th synthetic frame.
func (s *Simulate) FrameAt(i int) frame.Frame {
	angle := 2 * math.Pi * float64(i%max(s.Period, 1)) / float64(max(s.Period, 1))
	f := frame.Frame{
		RawX:        stickValue(float64(s.Radius) * math.Cos(angle)),
		RawY:        stickValue(float64(s.Radius) * math.Sin(angle)),
		Sensitivity: s.Sensitivity,
	}

	n := i + 1
	if s.ClickEvery > 0 && n%s.ClickEvery == 0 {
		f.Left = 1
	}
	if s.ScrollEvery > 0 && n%s.ScrollEvery == 0 {
		if (n/s.ScrollEvery)%2 == 1 {
			f.ScrollUp = 1
		} else {
			f.ScrollDown = 1
		}
	}
	return f
}

func stickValue(offset float64) int32 {
	return int32(min(max(rawCenter+math.Round(offset), 0), rawMax))
}
