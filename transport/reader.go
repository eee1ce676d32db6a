// Package transport delivers delimited raw records from the transmitter.
package transport

import (
	"bufio"
	"errors"
	"io"

	"github.com/joymouse/joymouse/frame"
)

// RecordReader yields one raw record per call, without its terminator.
// ReadRecord blocks until a full record is available.
type RecordReader interface {
	ReadRecord() ([]byte, error)
}

// Reader splits a byte stream into records terminated by frame.Terminator.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r. It does not take ownership of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadRecord returns the next record with the terminator stripped.
// A trailing unterminated chunk is returned once before io.EOF.
// The returned slice is owned by the caller.
func (r *Reader) ReadRecord() ([]byte, error) {
	line, err := r.r.ReadBytes(frame.Terminator)
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return line, nil
		}
		return nil, err
	}
	return line[:len(line)-1], nil
}
