//go:build !windows

package util

// IsRunFromGUI reports whether the process was started from a file manager
// with a console of its own. Only Windows does that.
func IsRunFromGUI() bool {
	return false
}
