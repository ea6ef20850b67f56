package cdc

import (
	"errors"
	"fmt"
)

// ErrTimeout indicates that no data moved within the configured
// timeout window. The stream position is undefined afterwards and the
// connection must not be reused.
var ErrTimeout = errors.New("request timed out")

// ErrClosed indicates an operation on a connection that has already
// been closed.
var ErrClosed = errors.New("connection is closed")

// AddressError indicates that the configured server address is
// malformed or could not be resolved.
type AddressError struct {
	Address string
	Reason  error
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid address %q: %v", e.Address, e.Reason)
}

func (e *AddressError) Unwrap() error { return e.Reason }

// SocketError indicates a failure to establish the underlying TCP
// connection.
type SocketError struct {
	Reason error
}

func (e *SocketError) Error() string {
	return fmt.Sprintf("failed to connect: %v", e.Reason)
}

func (e *SocketError) Unwrap() error { return e.Reason }

// IOError is a fatal read or write failure. The connection is left at
// an undefined position in the byte stream and must not be reused.
type IOError struct {
	Op     string
	Reason error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Reason)
}

func (e *IOError) Unwrap() error { return e.Reason }

// AuthenticationError reports a non-OK server response to the
// authentication token. Response holds the verbatim server reply.
type AuthenticationError struct {
	Response string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Response
}

// RegistrationError reports a non-OK server response to the REGISTER
// message. Response holds the verbatim server reply.
type RegistrationError struct {
	Response string
}

func (e *RegistrationError) Error() string {
	return "registration failed: " + e.Response
}

// ServerError reports an in-band error line: a stream message whose
// content begins with the literal "ERR" prefix. Message holds the
// whole line.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "server responded with an error: " + e.Message
}

// DecodeError reports a line that could not be parsed as JSON, or a
// data event missing a field declared by the active schema. A decode
// error does not poison the connection; subsequent reads may still
// succeed.
type DecodeError struct {
	Field   string // The missing field name, when that is the cause.
	Message string
}

func (e *DecodeError) Error() string { return e.Message }
