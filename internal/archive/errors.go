package archive

import "errors"

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrClosed   = errors.New("archive closed")
)
