package httpmsg

import (
	"errors"
	"fmt"
)

// Parse failure causes. Match them with errors.Is.
var (
	ErrMissingMethod   = errors.New("missing request method")
	ErrMissingPath     = errors.New("missing request path")
	ErrMissingVersion  = errors.New("missing protocol version")
	ErrMalformedLine   = errors.New("malformed request line")
	ErrMissingHost     = errors.New("missing Host header")
	ErrInvalidPort     = errors.New("invalid port in Host header")
	ErrEmptyOriginPath = errors.New("empty path after removing host")
)

// ParseError reports why a chunk carrying a request line could not be parsed.
type ParseError struct {
	// Err is one of the Err* causes above.
	Err error

	// Offset is the byte offset in the chunk at which parsing stopped.
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse request at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(cause error, offset int) *ParseError {
	return &ParseError{Err: cause, Offset: offset}
}
