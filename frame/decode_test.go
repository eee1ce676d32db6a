package frame_test

import (
	"errors"
	"testing"

	"github.com/joymouse/joymouse/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name      string
		raw       []byte
		expected  frame.Frame
		wantKind  frame.Kind
		wantErrIs error
	}

	testCases := []testCase{
		{
			name:     "rest position",
			raw:      []byte("0 0 512 512 2 0 0"),
			expected: frame.Frame{RawX: 512, RawY: 512, Sensitivity: 2},
		},
		{
			name: "all fields populated",
			raw:  []byte("1 0 700 300 2 1 0"),
			expected: frame.Frame{
				Left: 1, RawX: 700, RawY: 300, Sensitivity: 2, ScrollUp: 1,
			},
		},
		{
			name:     "terminator left in place",
			raw:      []byte("0 1 0 1023 4 0 1\r"),
			expected: frame.Frame{Right: 1, RawY: 1023, Sensitivity: 4, ScrollDown: 1},
		},
		{
			name:     "mixed whitespace runs",
			raw:      []byte("  0\t0   512 \n512 1  0 0  "),
			expected: frame.Frame{RawX: 512, RawY: 512, Sensitivity: 1},
		},
		{
			name:     "signed values",
			raw:      []byte("-1 +1 -2000 2000 -3 0 0"),
			expected: frame.Frame{Left: -1, Right: 1, RawX: -2000, RawY: 2000, Sensitivity: -3},
		},
		{
			name:     "int32 bounds",
			raw:      []byte("0 0 2147483647 -2147483648 1 0 0"),
			expected: frame.Frame{RawX: 2147483647, RawY: -2147483648, Sensitivity: 1},
		},
		{
			name:      "invalid utf8",
			raw:       []byte{'0', ' ', 0xff, 0xfe, ' ', '1'},
			wantKind:  frame.KindInvalidEncoding,
			wantErrIs: frame.ErrInvalidEncoding,
		},
		{
			name:      "non numeric token",
			raw:       []byte("0 0 abc 512 2 0 0"),
			wantKind:  frame.KindInvalidNumber,
			wantErrIs: frame.ErrInvalidNumber,
		},
		{
			name:      "bad token beats bad count",
			raw:       []byte("1 2 abc"),
			wantKind:  frame.KindInvalidNumber,
			wantErrIs: frame.ErrInvalidNumber,
		},
		{
			name:      "overflowing token",
			raw:       []byte("0 0 2147483648 512 2 0 0"),
			wantKind:  frame.KindInvalidNumber,
			wantErrIs: frame.ErrInvalidNumber,
		},
		{
			name:      "decimal token",
			raw:       []byte("0 0 512.5 512 2 0 0"),
			wantKind:  frame.KindInvalidNumber,
			wantErrIs: frame.ErrInvalidNumber,
		},
		{
			name:      "six tokens",
			raw:       []byte("0 0 512 512 2 0"),
			wantKind:  frame.KindWrongFieldCount,
			wantErrIs: frame.ErrWrongFieldCount,
		},
		{
			name:      "eight tokens",
			raw:       []byte("0 0 512 512 2 0 0 0"),
			wantKind:  frame.KindWrongFieldCount,
			wantErrIs: frame.ErrWrongFieldCount,
		},
		{
			name:      "empty record",
			raw:       []byte{},
			wantKind:  frame.KindWrongFieldCount,
			wantErrIs: frame.ErrWrongFieldCount,
		},
		{
			name:      "whitespace only",
			raw:       []byte(" \t\r"),
			wantKind:  frame.KindWrongFieldCount,
			wantErrIs: frame.ErrWrongFieldCount,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := frame.Decode(tc.raw)
			if tc.wantErrIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErrIs)
				assert.Equal(t, tc.wantKind, frame.KindOf(err))
				assert.Equal(t, frame.Frame{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDecodeErrorDetails(t *testing.T) {
	_, err := frame.Decode([]byte("0 0 512 512 2 0"))
	var de *frame.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 6, de.Count)
	assert.Equal(t, "wrong number of fields: expected 7, got 6", err.Error())

	_, err = frame.Decode([]byte("0 0 x 512 2 0 0"))
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "x", de.Token)
	assert.Contains(t, err.Error(), `"x"`)

	assert.Equal(t, frame.Kind(0), frame.KindOf(errors.New("other")))
	assert.Equal(t, "invalid_number", frame.KindInvalidNumber.String())
}

func TestEncodeRoundTrip(t *testing.T) {
	f := frame.Frame{Left: 1, RawX: 700, RawY: 300, Sensitivity: 2, ScrollUp: 1}
	wire := frame.Encode(f)
	assert.Equal(t, "1 0 700 300 2 1 0\r", string(wire))

	got, err := frame.Decode(wire[:len(wire)-1])
	require.NoError(t, err)
	assert.Equal(t, f, got)
}
