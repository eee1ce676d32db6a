package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records raw bytes crossing the program boundary.
type RawLogger interface {
	// Log writes one line for data. in=true for records received from the
	// transmitter, false for reports sent to the pointer device.
	Log(in bool, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a RawLogger writing to w. A nil w discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

func (r *rawLogger) Log(in bool, data []byte) {
	if r.w == nil {
		return
	}

	dir := "TX"
	if in {
		dir = "RX"
	}

	line := fmt.Sprintf("%s %s %d bytes: %s | %q\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		hex.EncodeToString(data),
		data)

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}
