package qerr

import (
	"fmt"
	"net"
)

// A TransportError is a QUIC transport error, terminating the connection.
type TransportError struct {
	Remote       bool
	ErrorCode    TransportErrorCode
	ErrorMessage string
}

var _ error = &TransportError{}

func (e *TransportError) Error() string {
	str := e.ErrorCode.String()
	if e.Remote {
		str += " (remote)"
	}
	if e.ErrorMessage == "" {
		return str
	}
	return str + ": " + e.ErrorMessage
}

func (e *TransportError) Is(target error) bool {
	_, ok := target.(*TransportError)
	if ok {
		return true
	}
	return target == net.ErrClosed
}

func (e *TransportError) Unwrap() error { return e.ErrorCode }

var _ error = TransportErrorCode(0)

func (e TransportErrorCode) Error() string { return e.String() }

// NewLocalTransportError constructs a locally-detected transport error.
func NewLocalTransportError(code TransportErrorCode, format string, args ...any) *TransportError {
	return &TransportError{
		ErrorCode:    code,
		ErrorMessage: fmt.Sprintf(format, args...),
	}
}
