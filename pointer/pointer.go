// Package pointer executes mouse commands on a pointer device.
package pointer

import (
	"fmt"

	"github.com/joymouse/joymouse/mapper"
)

// Button is a mouse button that can be clicked.
type Button uint8

const (
	ButtonLeft Button = iota + 1
	ButtonRight
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", uint8(b))
	}
}

// ButtonFor returns the button for a click, or false for mapper.ClickNone.
func ButtonFor(c mapper.Click) (Button, bool) {
	switch c {
	case mapper.ClickLeft:
		return ButtonLeft, true
	case mapper.ClickRight:
		return ButtonRight, true
	default:
		return 0, false
	}
}

// Device is a host pointer. Every call may fail.
type Device interface {
	// Position returns the current absolute cursor position.
	Position() (x, y int, err error)
	// MoveTo moves the cursor to an absolute position.
	MoveTo(x, y int) error
	// Click presses and releases b.
	Click(b Button) error
	// Scroll turns the wheel by delta notches; positive is up.
	Scroll(delta int) error
	Close() error
}
