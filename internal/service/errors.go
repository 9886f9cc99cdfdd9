package service

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the actor lacks the capability for the write.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidRequest means the anti-forgery token was missing or did not
	// verify, or the input was malformed.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound means the referenced game or media does not exist.
	ErrNotFound = errors.New("not found")
	// ErrHostUnavailable wraps failures of the underlying store or media
	// backend.
	ErrHostUnavailable = errors.New("host unavailable")
)

func hostErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrHostUnavailable, err)
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, reason)
}
