package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joymouse/joymouse/frame"
	"github.com/joymouse/joymouse/internal/log"
	"github.com/joymouse/joymouse/mapper"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestChoosePort(t *testing.T) {
	tests := []struct {
		name        string
		ports       []string
		interactive bool
		input       string
		want        string
		wantErr     string
	}{
		{name: "none", wantErr: "no serial ports found"},
		{name: "single", ports: []string{"/dev/ttyACM0"}, want: "/dev/ttyACM0"},
		{name: "several non interactive", ports: []string{"/dev/ttyACM0", "/dev/ttyUSB0"},
			wantErr: "several serial ports found (/dev/ttyACM0, /dev/ttyUSB0); pass --port"},
		{name: "by number", ports: []string{"/dev/ttyACM0", "/dev/ttyUSB0"}, interactive: true, input: "2\n", want: "/dev/ttyUSB0"},
		{name: "by name", ports: []string{"COM3", "COM4"}, interactive: true, input: "COM3\n", want: "COM3"},
		{name: "retry after invalid", ports: []string{"COM3", "COM4"}, interactive: true, input: "9\nx\n1\n", want: "COM3"},
		{name: "eof", ports: []string{"COM3", "COM4"}, interactive: true, input: "", wantErr: "no port selected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := choosePort(tt.ports, tt.interactive, strings.NewReader(tt.input), &out)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChoosePortPrompt(t *testing.T) {
	var out bytes.Buffer
	_, err := choosePort([]string{"COM3", "COM4"}, true, strings.NewReader("nope\n2\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "  1) COM3\n  2) COM4\n"+
		"Select the transmitter port [1-2]: Invalid choice \"nope\"\n"+
		"Select the transmitter port [1-2]: ", out.String())
}

func TestPrintPorts(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printPorts(&out, []string{"COM1", "COM2"}))
	assert.Equal(t, "COM1\nCOM2\n", out.String())
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "continue-on-pointer-error", flagKey("ContinueOnPointerError", "-"))
	assert.Equal(t, "click_hold", flagKey("ClickHold", "_"))
	assert.Equal(t, "port", flagKey("Port", "-"))
	assert.Equal(t, "device-id", flagKey("DeviceID", "-"))
}

func TestTemplate(t *testing.T) {
	root, err := Template("run", "json")
	require.NoError(t, err)
	assert.Equal(t, int64(115200), root["baud"])
	assert.Equal(t, "virtual", root["pointer"])
	assert.Equal(t, int64(40), root["deadzone"])
	assert.Equal(t, false, root["continue_on_pointer_error"])
	viiper, ok := root["viiper"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "localhost:3242", viiper["addr"])
	assert.Equal(t, "20ms", viiper["click_hold"])

	root, err = Template("simulate", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "20ms", root["interval"])
	assert.Equal(t, int64(0), root["click-every"])

	_, err = Template("server", "json")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(dir, "sub", "run."+format)
			require.NoError(t, (&ConfigInit{Command: "run", Format: format, Output: dest}).Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			got := map[string]any{}
			switch format {
			case "json":
				require.NoError(t, json.Unmarshal(data, &got))
			case "yaml":
				require.NoError(t, yaml.Unmarshal(data, &got))
			case "toml":
				tree, err := toml.LoadBytes(data)
				require.NoError(t, err)
				got = tree.ToMap()
			}
			assert.Contains(t, got, "viiper")
			assert.Contains(t, got, "port")

			err = (&ConfigInit{Command: "run", Format: format, Output: dest}).Run()
			assert.EqualError(t, err, "destination exists; use --force to overwrite")
			assert.NoError(t, (&ConfigInit{Command: "run", Format: format, Output: dest, Force: true}).Run())
		})
	}

	err := (&ConfigInit{Command: "run", Format: "ini"}).Run()
	assert.EqualError(t, err, "unsupported format: ini")
}

func TestSimulateFrameAt(t *testing.T) {
	s := &Simulate{Radius: 300, Period: 4, Sensitivity: 2, ClickEvery: 3, ScrollEvery: 2}

	f0 := s.FrameAt(0)
	assert.Equal(t, frame.Frame{RawX: 812, RawY: 512, Sensitivity: 2}, f0)

	f1 := s.FrameAt(1)
	assert.Equal(t, int32(512), f1.RawX)
	assert.Equal(t, int32(812), f1.RawY)
	assert.Equal(t, int32(1), f1.ScrollUp)

	f2 := s.FrameAt(2)
	assert.Equal(t, int32(212), f2.RawX)
	assert.Equal(t, int32(1), f2.Left)

	f3 := s.FrameAt(3)
	assert.Equal(t, int32(1), f3.ScrollDown)
	assert.Equal(t, int32(0), f3.ScrollUp)
}

func TestSimulateClampsRadius(t *testing.T) {
	s := &Simulate{Radius: 2000, Period: 2, Sensitivity: 1}
	assert.Equal(t, int32(1023), s.FrameAt(0).RawX)
	assert.Equal(t, int32(0), s.FrameAt(1).RawX)
}

func TestSimulateEmitDecodes(t *testing.T) {
	s := &Simulate{Radius: 300, Period: 8, Sensitivity: 3, ClickEvery: 2, Count: 8}
	var out, raw bytes.Buffer
	n, err := s.Emit(context.Background(), &out, log.NewRaw(&raw))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	recs := strings.Split(strings.TrimSuffix(out.String(), "\r"), "\r")
	require.Len(t, recs, 8)
	for i, rec := range recs {
		f, err := frame.Decode([]byte(rec))
		require.NoError(t, err, rec)
		assert.Equal(t, s.FrameAt(i), f)
	}
	first, _ := frame.Decode([]byte(recs[0]))
	assert.Equal(t, mapper.MouseCommand{DX: 100}, mapper.Map(first))
	assert.Equal(t, 8, strings.Count(raw.String(), " TX "))
}

func TestSimulateEmitStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Simulate{Period: 10, Interval: time.Millisecond}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	n, err := s.Emit(ctx, io.Discard, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Positive(t, n)
}

func TestSimulateEmitBadPeriod(t *testing.T) {
	_, err := (&Simulate{}).Emit(context.Background(), io.Discard, nil)
	assert.EqualError(t, err, "period must be positive, got 0")
}

func writeReplay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunReplayDryRun(t *testing.T) {
	path := writeReplay(t, "1 0 700 300 2 1 0\rgarbage\r0 0 512 512 1 0 0\r")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := &Run{Replay: path, Pointer: PointerDryRun, Deadzone: 40}
	require.NoError(t, r.Start(context.Background(), logger, log.NewRaw(nil)))

	out := buf.String()
	assert.Contains(t, out, "msg=move x=94 y=-106 dx=94 dy=-106")
	assert.Contains(t, out, "msg=click button=left")
	assert.Contains(t, out, "msg=scroll delta=1")
	assert.Contains(t, out, "stats.records=3")
	assert.Contains(t, out, "stats.rejected.invalid_number=1")
}

func TestRunDeadzoneOverride(t *testing.T) {
	path := writeReplay(t, "0 0 600 512 1 0 0\r")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := &Run{Replay: path, Pointer: PointerDryRun, Deadzone: 100}
	require.NoError(t, r.Start(context.Background(), logger, nil))
	assert.Contains(t, buf.String(), "msg=move x=0 y=0 dx=0 dy=0")
}

func TestRunErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := (&Run{Deadzone: -1}).Start(context.Background(), logger, nil)
	assert.EqualError(t, err, "deadzone must not be negative, got -1")

	err = (&Run{Replay: filepath.Join(t.TempDir(), "missing"), Pointer: PointerDryRun}).Start(context.Background(), logger, nil)
	assert.ErrorContains(t, err, "open replay")

	path := writeReplay(t, "")
	err = (&Run{Replay: path, Pointer: "trackball"}).Start(context.Background(), logger, nil)
	assert.EqualError(t, err, `unknown pointer "trackball"`)
}
