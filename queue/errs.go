package queue

import "errors"

var (
	ErrIndex       = errors.New("no pending operation at index")
	ErrNoSelection = errors.New("no operation selected")
	ErrEmpty       = errors.New("no pending operations")
	ErrNoMatch     = errors.New("no pending operation matches")
)
