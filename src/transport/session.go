package transport

import (
	"context"
	"net"
	"time"

	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/sirupsen/logrus"
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

//go:generate mockgen -source=session.go -package=transport -destination=mock_session.go
type Session interface {
	// Connect resolves once the session can send, callers arriving while a
	// connection attempt is in flight share its outcome.
	Connect(ctx context.Context) error
	// Send connects first when needed, then writes one frame.
	Send(ctx context.Context, frame string) error
	// Disconnect releases the connection, calling it again is a no-op.
	Disconnect() error
	State() State
	IsConnected() bool
}

// Dialer opens stream connections, *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// PacketListener opens datagram sockets, *net.ListenConfig satisfies it.
type PacketListener interface {
	ListenPacket(ctx context.Context, network, address string) (net.PacketConn, error)
}

func NewSession(options config.ClientOptions, tcpOptions config.TCPOptions, notifier events.Notifier, log logrus.FieldLogger) Session {
	options = options.WithDefaults()
	if options.Transport == config.TransportUDP {
		return NewUDPSession(options, &net.ListenConfig{}, notifier, log)
	}
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}
	if tcpOptions.IdleTimeoutEnabled() {
		dialer.Timeout = tcpOptions.Timeout
	}
	return NewTCPSession(options, tcpOptions, dialer, notifier, log)
}

func discardNotifier(notifier events.Notifier) events.Notifier {
	if notifier == nil {
		return events.NotifierFunc(func(events.Event) {})
	}
	return notifier
}
