package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// RemoteError is a failed call as reported by the server.
type RemoteError struct {
	Code    codes.Code
	Message string
	kind    error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.String()
}

func (e *RemoteError) Unwrap() error {
	return e.kind
}
