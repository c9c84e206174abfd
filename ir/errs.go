package ir

import "errors"

var (
	ErrTrailingData = errors.New("trailing data after json value")
	ErrNotArray     = errors.New("patch is not a json array")
)
