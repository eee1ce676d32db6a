package mapper

import "github.com/joymouse/joymouse/frame"

// Mapper holds the axis constants of the transmitter protocol.
type Mapper struct {
	// Center is the raw reading of a stick at rest.
	Center int
	// Limit bounds the recentered axis to [-Limit, Limit].
	Limit int
	// Deadzone is the half-width of the square zone that maps to zero.
	Deadzone int
}

// Default is the mapping of the transmitter protocol.
var Default = Mapper{Center: 512, Limit: 511, Deadzone: 40}

// Map converts a frame using Default.
func Map(f frame.Frame) MouseCommand { return Default.Map(f) }

// Axis decodes one raw axis reading using Default.
func Axis(raw int32) int { return Default.Axis(raw) }

// Map converts a frame into a MouseCommand. It is a pure function of f.
func (m Mapper) Map(f frame.Frame) MouseCommand {
	x := m.Axis(f.RawX)
	y := m.Axis(f.RawY)
	s := int(f.Sensitivity)
	return MouseCommand{
		DX:     scale(x, s),
		DY:     scale(y, s),
		Click:  decodeClick(f.Left, f.Right),
		Scroll: decodeScroll(f.ScrollUp, f.ScrollDown),
	}
}

// Axis recenters, clamps and applies the deadzone to one raw reading.
// Each axis is zeroed independently.
func (m Mapper) Axis(raw int32) int {
	v := int64(raw) - int64(m.Center)
	limit := int64(m.Limit)
	v = max(-limit, min(v, limit))
	if v > -int64(m.Deadzone) && v < int64(m.Deadzone) {
		return 0
	}
	return int(v)
}

// Right wins when both flags are set.
func decodeClick(left, right int32) Click {
	switch {
	case right == 1:
		return ClickRight
	case left == 1:
		return ClickLeft
	default:
		return ClickNone
	}
}

// Both flags set cancel out.
func decodeScroll(up, down int32) int {
	switch {
	case up == 1 && down != 1:
		return 1
	case down == 1 && up != 1:
		return -1
	default:
		return 0
	}
}

// scale divides v by s truncating toward zero; a zero divisor yields 0.
func scale(v, s int) int {
	if s == 0 {
		return 0
	}
	return v / s
}
