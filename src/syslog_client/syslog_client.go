package syslog_client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/openshift/syslog-client/src/formatter"
	"github.com/openshift/syslog-client/src/identity"
	"github.com/openshift/syslog-client/src/transport"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=syslog_client.go -package=syslog_client -destination=mock_syslog_client.go
type SyslogClient interface {
	Connect(ctx context.Context) error
	// Log formats message with the default identity, overridden per call, and sends it.
	Log(ctx context.Context, message string, overrides ...identity.Override) error
	Disconnect() error
	// Subscribe registers a handler for connect, disconnect and error events.
	Subscribe(handler events.Handler) uuid.UUID
	Unsubscribe(id uuid.UUID)
	State() transport.State
}

type syslogClient struct {
	session    transport.Session
	identity   identity.Identity
	env        identity.Environment
	now        func() time.Time
	dispatcher *events.Dispatcher
}

// NewSyslogClient lays the given options over the defaults. A nil identity
// means USER/INFORMATIONAL with the process supplying app name, hostname and pid.
func NewSyslogClient(options config.ClientOptions, defaultIdentity *identity.Identity, tcpOptions *config.TCPOptions,
	logger logrus.FieldLogger) SyslogClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	options = options.WithDefaults()
	merged := config.MergeTCPOptions(tcpOptions)
	return newSyslogClient(defaultIdentity, identity.NewProcessEnvironment(), time.Now,
		func(notifier events.Notifier) transport.Session {
			return transport.NewSession(options, merged, notifier, logger)
		})
}

func newSyslogClient(defaultIdentity *identity.Identity, env identity.Environment, now func() time.Time,
	newSession func(events.Notifier) transport.Session) *syslogClient {
	id := identity.DefaultIdentity()
	if defaultIdentity != nil {
		id = *defaultIdentity
	}
	c := &syslogClient{
		identity:   id,
		env:        env,
		now:        now,
		dispatcher: events.NewDispatcher(),
	}
	c.session = newSession(events.NotifierFunc(c.dispatcher.Notify))
	return c
}

func (c *syslogClient) Connect(ctx context.Context) error {
	return c.session.Connect(ctx)
}

func (c *syslogClient) Log(ctx context.Context, message string, overrides ...identity.Override) error {
	id := identity.Resolve(c.identity, identity.Apply(overrides...), c.env)
	return c.session.Send(ctx, formatter.Format(id, message, c.now()))
}

func (c *syslogClient) Disconnect() error {
	return c.session.Disconnect()
}

func (c *syslogClient) Subscribe(handler events.Handler) uuid.UUID {
	return c.dispatcher.Subscribe(handler)
}

func (c *syslogClient) Unsubscribe(id uuid.UUID) {
	c.dispatcher.Unsubscribe(id)
}

func (c *syslogClient) State() transport.State {
	return c.session.State()
}
