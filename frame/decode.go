package frame

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decode parses one record (without terminator) into a Frame.
//
// Every token is parsed before the count is checked, so a record with a bad
// token is reported as KindInvalidNumber regardless of its length.
// The returned error is always a *DecodeError.
func Decode(raw []byte) (Frame, error) {
	if !utf8.Valid(raw) {
		return Frame{}, &DecodeError{Kind: KindInvalidEncoding}
	}

	tokens := strings.Fields(string(raw))
	values := make([]int32, 0, FieldCount)
	for _, tok := range tokens {
		n, err := strconv.ParseInt(tok, 10, 32)
		if err != nil {
			return Frame{}, &DecodeError{Kind: KindInvalidNumber, Token: tok}
		}
		values = append(values, int32(n))
	}
	if len(values) != FieldCount {
		return Frame{}, &DecodeError{Kind: KindWrongFieldCount, Count: len(values)}
	}

	return Frame{
		Left:        values[0],
		Right:       values[1],
		RawX:        values[2],
		RawY:        values[3],
		Sensitivity: values[4],
		ScrollUp:    values[5],
		ScrollDown:  values[6],
	}, nil
}
