// Package util holds host platform helpers.
package util

import (
	"bufio"
	"fmt"
	"io"
)

// PauseBeforeExit prompts on out and waits for a line on in.
func PauseBeforeExit(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "Press Enter to exit...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}
