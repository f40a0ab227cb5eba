package transport

import (
	"fmt"

	"github.com/openshift/syslog-client/src/config"
	"github.com/pkg/errors"
)

var (
	ErrSessionClosed  = errors.New("syslog session was disconnected")
	ErrIdleTimeout    = errors.New("socket timeout")
	ErrTooManyPending = errors.New("too many sends waiting for a syslog connection")
)

// ConnectionError is a failed handshake or a broken or idle stream.
type ConnectionError struct {
	Address   string
	Transport config.Transport
	Err       error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("syslog connection to %s over %s failed: %s", e.Address, e.Transport, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Cause() error {
	return e.Err
}

// SendError is a failed write of a single frame. The frame is never resent.
type SendError struct {
	Address   string
	Transport config.Transport
	Err       error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed sending syslog frame to %s over %s: %s", e.Address, e.Transport, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

func (e *SendError) Cause() error {
	return e.Err
}
