package transport

import (
	"context"
	"net"
	"sync"

	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// UDPSession sends every frame as one datagram from an unconnected socket.
// There is no handshake, the socket is ready as soon as it exists.
type UDPSession struct {
	address  string
	listener PacketListener
	notifier events.Notifier
	log      logrus.FieldLogger
	resolve  func(network, address string) (*net.UDPAddr, error)

	mu   sync.Mutex
	conn net.PacketConn
	// resolved once per socket
	addr *net.UDPAddr
}

func NewUDPSession(options config.ClientOptions, listener PacketListener, notifier events.Notifier, log logrus.FieldLogger) *UDPSession {
	return &UDPSession{
		address:  options.Address(),
		listener: listener,
		notifier: discardNotifier(notifier),
		log:      log.WithFields(logrus.Fields{"address": options.Address(), "transport": config.TransportUDP}),
		resolve:  net.ResolveUDPAddr,
	}
}

func (s *UDPSession) Connect(ctx context.Context) error {
	_, _, err := s.connection(ctx)
	return err
}

func (s *UDPSession) Send(ctx context.Context, frame string) error {
	conn, addr, err := s.connection(ctx)
	if err != nil {
		return err
	}
	deadline, _ := ctx.Deadline()
	_ = conn.SetWriteDeadline(deadline)
	if _, err = conn.WriteTo([]byte(frame), addr); err != nil {
		sendErr := &SendError{Address: s.address, Transport: config.TransportUDP, Err: err}
		s.log.WithError(err).Warn("Failed sending syslog datagram")
		s.notifier.Notify(events.Error(sendErr))
		return sendErr
	}
	return nil
}

func (s *UDPSession) Disconnect() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.addr = nil
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	err := conn.Close()
	s.log.Debug("Disconnected")
	s.notifier.Notify(events.Disconnect())
	return ignoreClosed(err)
}

func (s *UDPSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return StateConnected
	}
	return StateDisconnected
}

func (s *UDPSession) IsConnected() bool {
	return s.State() == StateConnected
}

func (s *UDPSession) connection(ctx context.Context) (net.PacketConn, *net.UDPAddr, error) {
	s.mu.Lock()
	if s.conn != nil {
		conn, addr := s.conn, s.addr
		s.mu.Unlock()
		return conn, addr, nil
	}
	addr, err := s.resolve("udp", s.address)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, s.connectionFailed(errors.Wrapf(err, "failed resolving %s", s.address))
	}
	conn, err := s.listener.ListenPacket(ctx, "udp", ":0")
	if err != nil {
		s.mu.Unlock()
		return nil, nil, s.connectionFailed(err)
	}
	s.conn, s.addr = conn, addr
	s.mu.Unlock()

	s.log.Debug("Connected")
	s.notifier.Notify(events.Connect())
	return conn, addr, nil
}

func (s *UDPSession) connectionFailed(err error) error {
	connErr := &ConnectionError{Address: s.address, Transport: config.TransportUDP, Err: err}
	s.log.WithError(err).Warn("Failed opening udp socket")
	s.notifier.Notify(events.Error(connErr))
	return connErr
}
