package parse

import (
	"errors"
	"fmt"
)

var ErrParse = errors.New("parse error")

// Input names which of the two session inputs failed to parse.
type Input string

const (
	BaseInput  Input = "base"
	PatchInput Input = "patch"
)

// Error is returned for any input that does not parse.  It matches ErrParse
// with errors.Is.
type Error struct {
	Input Input
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrParse, e.Input, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrParse
}
