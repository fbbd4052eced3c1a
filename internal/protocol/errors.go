package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated         = errors.New("protocol: truncated data")
	ErrInvalidLength     = errors.New("protocol: invalid length")
	ErrInvalidSize       = errors.New("protocol: rmc size does not match payload")
	ErrDuplicateMethod   = errors.New("protocol: duplicate method id")
	ErrDuplicateProtocol = errors.New("protocol: duplicate protocol id")
)

// TruncatedError reports a read that ran past the end of the buffer.
type TruncatedError struct {
	Offset int
	Want   int
	Have   int
}

func (e TruncatedError) Error() string {
	return fmt.Sprintf("protocol: truncated data at offset %d: want %d bytes, have %d", e.Offset, e.Want, e.Have)
}

func (e TruncatedError) Unwrap() error {
	return ErrTruncated
}
