package journal

import "errors"

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrUnknownSection = errors.New("unknown section")
)
