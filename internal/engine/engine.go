// Package engine runs the read, decode, map and execute loop.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joymouse/joymouse/frame"
	"github.com/joymouse/joymouse/internal/log"
	"github.com/joymouse/joymouse/mapper"
	"github.com/joymouse/joymouse/pointer"
	"github.com/joymouse/joymouse/transport"
)

// Options configures Run. The zero value uses mapper.Default and discards logs.
type Options struct {
	Mapper *mapper.Mapper
	Logger *slog.Logger
	Raw    log.RawLogger
	// ContinueOnPointerError logs pointer failures and keeps going instead of
	// returning them.
	ContinueOnPointerError bool
}

// Stats counts what happened during a run.
type Stats struct {
	Records       int
	Frames        int
	Rejected      map[frame.Kind]int
	Commands      int
	PointerErrors int
}

// LogValue lets a Stats be logged as a group.
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("records", s.Records),
		slog.Int("frames", s.Frames),
		slog.Int("commands", s.Commands),
		slog.Int("pointerErrors", s.PointerErrors),
	}
	for _, k := range []frame.Kind{frame.KindInvalidEncoding, frame.KindInvalidNumber, frame.KindWrongFieldCount} {
		if n := s.Rejected[k]; n > 0 {
			attrs = append(attrs, slog.Int("rejected."+k.String(), n))
		}
	}
	return slog.GroupValue(attrs...)
}

// Run processes records from src until src reports io.EOF, ctx is done or
// the pointer fails. It returns nil on EOF and ctx.Err() on cancellation.
// Cancellation is checked between records; closing src unblocks a pending read.
func Run(ctx context.Context, src transport.RecordReader, dev pointer.Device, opts Options) (Stats, error) {
	m := mapper.Default
	if opts.Mapper != nil {
		m = *opts.Mapper
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	raw := opts.Raw
	if raw == nil {
		raw = log.NewRaw(nil)
	}

	st := Stats{Rejected: map[frame.Kind]int{}}
	for {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		rec, err := src.ReadRecord()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return st, nil
			}
			if ctx.Err() != nil {
				return st, ctx.Err()
			}
			return st, fmt.Errorf("read record: %w", err)
		}
		st.Records++
		raw.Log(true, rec)

		f, err := frame.Decode(rec)
		if err != nil {
			st.Rejected[frame.KindOf(err)]++
			logger.Debug("Skipping record", "error", err)
			continue
		}
		st.Frames++

		cmd := m.Map(f)
		log.Trace(logger, "Frame", "frame", f.String(), "dx", cmd.DX, "dy", cmd.DY, "click", cmd.Click, "scroll", cmd.Scroll)

		if err := execute(dev, cmd); err != nil {
			st.PointerErrors++
			if !opts.ContinueOnPointerError {
				return st, err
			}
			logger.Warn("Pointer command failed", "error", err)
			continue
		}
		st.Commands++
	}
}

func execute(dev pointer.Device, cmd mapper.MouseCommand) error {
	x, y, err := dev.Position()
	if err != nil {
		return fmt.Errorf("get pointer position: %w", err)
	}
	if err := dev.MoveTo(x+cmd.DX, y+cmd.DY); err != nil {
		return fmt.Errorf("move pointer: %w", err)
	}
	if b, ok := pointer.ButtonFor(cmd.Click); ok {
		if err := dev.Click(b); err != nil {
			return fmt.Errorf("click %s: %w", b, err)
		}
	}
	if cmd.Scroll != 0 {
		if err := dev.Scroll(cmd.Scroll); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
	}
	return nil
}
