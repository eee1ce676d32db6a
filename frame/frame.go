// Package frame decodes the joystick transmitter's telemetry records.
//
// Wire format (one record, terminated by '\r' on the wire):
//
//	LEFT RIGHT RAW_X RAW_Y SENSITIVITY SCROLL_UP SCROLL_DOWN
//
// Fields are signed decimal integers separated by one or more whitespace
// characters. The terminator is stripped by the transport before decoding.
package frame

import (
	"fmt"
	"strconv"
)

// FieldCount is the number of integer tokens in a valid record.
const FieldCount = 7

// Terminator ends every record on the wire.
const Terminator byte = '\r'

// Frame is one decoded telemetry record.
type Frame struct {
	// Left and Right are the click flags (0/1).
	Left, Right int32
	// RawX and RawY are the raw stick readings, roughly 0..1023 with rest at 512.
	RawX, RawY int32
	// Sensitivity divides the displacement of both axes. Zero is degenerate.
	Sensitivity int32
	// ScrollUp and ScrollDown are the wheel flags (0/1).
	ScrollUp, ScrollDown int32
}

// fields returns the frame values in wire order.
func (f Frame) fields() [FieldCount]int32 {
	return [FieldCount]int32{f.Left, f.Right, f.RawX, f.RawY, f.Sensitivity, f.ScrollUp, f.ScrollDown}
}

// String renders the frame in wire order without the terminator.
func (f Frame) String() string {
	b := make([]byte, 0, 32)
	for i, v := range f.fields() {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return string(b)
}

// GoString is used by %#v in test failure output.
func (f Frame) GoString() string {
	return fmt.Sprintf("frame.Frame{%s}", f.String())
}

// Encode returns the wire representation of f including the terminator.
func Encode(f Frame) []byte {
	return append([]byte(f.String()), Terminator)
}
