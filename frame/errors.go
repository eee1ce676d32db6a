package frame

import (
	"errors"
	"fmt"
)

// Kind classifies why a record was rejected.
type Kind uint8

const (
	KindInvalidEncoding Kind = iota + 1
	KindInvalidNumber
	KindWrongFieldCount
)

func (k Kind) String() string {
	switch k {
	case KindInvalidEncoding:
		return "invalid_encoding"
	case KindInvalidNumber:
		return "invalid_number"
	case KindWrongFieldCount:
		return "wrong_field_count"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Sentinels matched with errors.Is against a *DecodeError.
var (
	ErrInvalidEncoding = errors.New("record is not valid UTF-8")
	ErrInvalidNumber   = errors.New("token is not a 32-bit integer")
	ErrWrongFieldCount = errors.New("wrong number of fields")
)

// DecodeError describes a rejected record. The record must be skipped as a whole.
type DecodeError struct {
	Kind Kind
	// Token is the offending token for KindInvalidNumber.
	Token string
	// Count is the number of tokens seen for KindWrongFieldCount.
	Count int
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case KindInvalidNumber:
		return fmt.Sprintf("%v: %q", ErrInvalidNumber, e.Token)
	case KindWrongFieldCount:
		return fmt.Sprintf("%v: expected %d, got %d", ErrWrongFieldCount, FieldCount, e.Count)
	case KindInvalidEncoding:
		return ErrInvalidEncoding.Error()
	default:
		return "invalid record: " + e.Kind.String()
	}
}

func (e *DecodeError) Unwrap() error {
	switch e.Kind {
	case KindInvalidEncoding:
		return ErrInvalidEncoding
	case KindInvalidNumber:
		return ErrInvalidNumber
	case KindWrongFieldCount:
		return ErrWrongFieldCount
	default:
		return nil
	}
}

// KindOf returns the rejection kind of err, or 0 if err is not a decode rejection.
func KindOf(err error) Kind {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}
