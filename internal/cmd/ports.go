package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/joymouse/joymouse/transport"
)

// Ports lists the serial ports present on this host.
type Ports struct{}

// Run is called by Kong when the ports command is executed.
func (p *Ports) Run(logger *slog.Logger) error {
	ports, err := transport.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		logger.Warn("No serial ports found")
		return nil
	}
	return printPorts(os.Stdout, ports)
}

func printPorts(w io.Writer, ports []string) error {
	for _, p := range ports {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// choosePort picks the transmitter port when none was configured.
// A single port is used as is; several ports need an interactive choice.
func choosePort(ports []string, interactive bool, in io.Reader, out io.Writer) (string, error) {
	switch {
	case len(ports) == 0:
		return "", errors.New("no serial ports found; connect the transmitter or pass --port")
	case len(ports) == 1:
		return ports[0], nil
	case !interactive:
		return "", fmt.Errorf("several serial ports found (%s); pass --port", strings.Join(ports, ", "))
	}

	for i, p := range ports {
		fmt.Fprintf(out, "  %d) %s\n", i+1, p)
	}
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "Select the transmitter port [1-%d]: ", len(ports))
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("read selection: %w", err)
			}
			return "", errors.New("no port selected")
		}
		answer := strings.TrimSpace(sc.Text())
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(ports) {
			return ports[n-1], nil
		}
		for _, p := range ports {
			if p == answer {
				return p, nil
			}
		}
		fmt.Fprintf(out, "Invalid choice %q\n", answer)
	}
}
