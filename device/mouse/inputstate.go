// Package mouse encodes input for a VIIPER virtual HID mouse.
//
// The device stream carries one fixed-size little-endian report per write:
//
//	Byte 0:    button bitfield (see Btn_*)
//	Bytes 1-2: DX (int16)
//	Bytes 3-4: DY (int16)
//	Bytes 5-6: Wheel (int16)
//	Bytes 7-8: Pan (int16)
//
// Deltas are relative and consumed once by the device; buttons persist until
// the next report changes them.
package mouse

import (
	"encoding/binary"
	"io"
)

// InputState is one report sent to the virtual mouse.
type InputState struct {
	Buttons uint8
	DX, DY  int16
	Wheel   int16
	Pan     int16
}

// MarshalBinary encodes the report.
func (m *InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = m.Buttons
	binary.LittleEndian.PutUint16(b[1:], uint16(m.DX))
	binary.LittleEndian.PutUint16(b[3:], uint16(m.DY))
	binary.LittleEndian.PutUint16(b[5:], uint16(m.Wheel))
	binary.LittleEndian.PutUint16(b[7:], uint16(m.Pan))
	return b, nil
}

// UnmarshalBinary decodes a report.
func (m *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	m.Buttons = data[0]
	m.DX = int16(binary.LittleEndian.Uint16(data[1:]))
	m.DY = int16(binary.LittleEndian.Uint16(data[3:]))
	m.Wheel = int16(binary.LittleEndian.Uint16(data[5:]))
	m.Pan = int16(binary.LittleEndian.Uint16(data[7:]))
	return nil
}
