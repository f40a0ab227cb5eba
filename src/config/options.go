package config

import (
	"net"
	"strconv"
	"time"
)

type Transport string

const (
	TransportTCP Transport = "tcp"
	TransportUDP Transport = "udp"
)

const (
	DefaultHostname          = "127.0.0.1"
	DefaultPort              = 514
	DefaultTransport         = TransportTCP
	DefaultTimeout           = 5000 * time.Millisecond
	DefaultReconnectInterval = 3000 * time.Millisecond
)

// ClientOptions names the collector. Zero values mean the defaults above.
type ClientOptions struct {
	Hostname  string    `envconfig:"HOSTNAME" yaml:"hostname"`
	Port      int       `envconfig:"PORT" yaml:"port"`
	Transport Transport `envconfig:"TRANSPORT" yaml:"transport"`
}

// TCPOptions only apply to the stream transport.
type TCPOptions struct {
	// Idle time after which the connection is torn down, negative disables it
	Timeout           time.Duration `envconfig:"TIMEOUT" yaml:"timeout"`
	Reconnect         bool          `envconfig:"RECONNECT" yaml:"reconnect"`
	ReconnectInterval time.Duration `envconfig:"RECONNECT_INTERVAL" yaml:"reconnectInterval"`
	// 0 keeps retrying forever
	MaxReconnectAttempts int `envconfig:"MAX_RECONNECT_ATTEMPTS" yaml:"maxReconnectAttempts"`
	// Callers allowed to wait for a connection at once, 0 is unbounded
	MaxPendingSends int `envconfig:"MAX_PENDING_SENDS" yaml:"maxPendingSends"`
}

var DefaultClientOptions = ClientOptions{
	Hostname:  DefaultHostname,
	Port:      DefaultPort,
	Transport: DefaultTransport,
}

var DefaultTCPOptions = TCPOptions{
	Timeout:           DefaultTimeout,
	Reconnect:         false,
	ReconnectInterval: DefaultReconnectInterval,
}

func (o ClientOptions) WithDefaults() ClientOptions {
	if o.Hostname == "" {
		o.Hostname = DefaultClientOptions.Hostname
	}
	if o.Port == 0 {
		o.Port = DefaultClientOptions.Port
	}
	if o.Transport == "" {
		o.Transport = DefaultClientOptions.Transport
	}
	return o
}

func (o ClientOptions) Address() string {
	return net.JoinHostPort(o.Hostname, strconv.Itoa(o.Port))
}

// MergeTCPOptions lays the caller's options over DefaultTCPOptions field by field.
func MergeTCPOptions(explicit *TCPOptions) TCPOptions {
	merged := DefaultTCPOptions
	if explicit == nil {
		return merged
	}
	if explicit.Timeout != 0 {
		merged.Timeout = explicit.Timeout
	}
	if explicit.ReconnectInterval > 0 {
		merged.ReconnectInterval = explicit.ReconnectInterval
	}
	merged.Reconnect = explicit.Reconnect
	merged.MaxReconnectAttempts = explicit.MaxReconnectAttempts
	merged.MaxPendingSends = explicit.MaxPendingSends
	return merged
}

func (o TCPOptions) IdleTimeoutEnabled() bool {
	return o.Timeout > 0
}
