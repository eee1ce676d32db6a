// Package mapper turns decoded frames into pointer commands.
package mapper

import "fmt"

// Click is the button to click for one frame. Left and Right are exclusive.
type Click uint8

const (
	ClickNone Click = iota
	ClickLeft
	ClickRight
)

func (c Click) String() string {
	switch c {
	case ClickNone:
		return "none"
	case ClickLeft:
		return "left"
	case ClickRight:
		return "right"
	default:
		return fmt.Sprintf("click(%d)", uint8(c))
	}
}

// MouseCommand is the normalized output of one frame.
type MouseCommand struct {
	// DX and DY are the pointer displacement, already divided by sensitivity.
	DX, DY int
	Click  Click
	// Scroll is -1, 0 or +1.
	Scroll int
}

// IsZero reports whether executing the command would do nothing.
func (c MouseCommand) IsZero() bool {
	return c == MouseCommand{}
}
