package transport_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joymouse/joymouse/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r transport.RecordReader) []string {
	t.Helper()
	var out []string
	for {
		rec, err := r.ReadRecord()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, string(rec))
	}
}

func TestReaderSplitsRecords(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		expected []string
	}

	testCases := []testCase{
		{
			name:     "two records",
			input:    "0 0 512 512 2 0 0\r1 0 700 300 2 1 0\r",
			expected: []string{"0 0 512 512 2 0 0", "1 0 700 300 2 1 0"},
		},
		{
			name:     "newline stays in record",
			input:    "0 0 512 512 2 0 0\r\n1 0 1 1 1 0 0\r",
			expected: []string{"0 0 512 512 2 0 0", "\n1 0 1 1 1 0 0"},
		},
		{
			name:     "empty records",
			input:    "\r\r",
			expected: []string{"", ""},
		},
		{
			name:     "trailing partial",
			input:    "0 0 512 512 2 0 0\r0 0 5",
			expected: []string{"0 0 512 512 2 0 0", "0 0 5"},
		},
		{
			name:     "empty stream",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := readAll(t, transport.NewReader(strings.NewReader(tc.input)))
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReaderRecordsAreOwned(t *testing.T) {
	r := transport.NewReader(bytes.NewReader([]byte("aaaa\rbbbb\r")))
	first, err := r.ReadRecord()
	require.NoError(t, err)
	second, err := r.ReadRecord()
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(first))
	assert.Equal(t, "bbbb", string(second))
}

func TestReaderPropagatesErrors(t *testing.T) {
	boom := errors.New("port gone")
	r := transport.NewReader(io.MultiReader(strings.NewReader("1 2"), &failingReader{err: boom}))
	_, err := r.ReadRecord()
	assert.ErrorIs(t, err, boom)
}

type failingReader struct{ err error }

func (f *failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 0 512 512 2 0 0\r1 1 1 1 1 1 1\r"), 0o644))

	rp, err := transport.OpenReplay(path)
	require.NoError(t, err)
	defer rp.Close()
	assert.Equal(t, []string{"0 0 512 512 2 0 0", "1 1 1 1 1 1 1"}, readAll(t, rp))

	_, err = transport.OpenReplay(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestOpenSerialRejectsEmptyName(t *testing.T) {
	_, err := transport.OpenSerial("", transport.DefaultBaud)
	assert.EqualError(t, err, "serial port name is empty")
}
