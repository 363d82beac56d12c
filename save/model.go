package save

import (
	"errors"
	"fmt"
)

var (
	ErrLengthMismatch   = errors.New("content length mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrCanceled         = errors.New("save canceled")
)

type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
