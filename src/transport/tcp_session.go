package transport

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// time given to the collector to close its side after we half-close ours
const halfCloseGrace = 2 * time.Second

// connectCycle is one logical connection request, possibly spanning several
// dial attempts when reconnect is enabled. Everyone waiting gets its outcome.
type connectCycle struct {
	done chan struct{}
	err  error
}

func newConnectCycle() *connectCycle {
	return &connectCycle{done: make(chan struct{})}
}

func (c *connectCycle) complete(err error) {
	c.err = err
	close(c.done)
}

// TCPSession sends newline delimited frames over a single stream connection
// and optionally reconnects it when it fails.
type TCPSession struct {
	address  string
	options  config.TCPOptions
	dialer   Dialer
	notifier events.Notifier
	log      logrus.FieldLogger
	pending  *semaphore.Weighted
	writeMu  sync.Mutex

	mu           sync.Mutex
	conn         net.Conn
	state        State
	reconnecting bool
	cycle        *connectCycle
	timer        *time.Timer
	dialCancel   context.CancelFunc
	backoff      backoff.BackOff
	// bumped by Disconnect so that stale dials and timers drop their result
	epoch uint64

	lastActivity atomic.Int64
}

func NewTCPSession(options config.ClientOptions, tcpOptions config.TCPOptions, dialer Dialer,
	notifier events.Notifier, log logrus.FieldLogger) *TCPSession {
	interval := tcpOptions.ReconnectInterval
	if interval <= 0 {
		interval = config.DefaultReconnectInterval
	}
	var b backoff.BackOff = backoff.NewConstantBackOff(interval)
	if tcpOptions.MaxReconnectAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(tcpOptions.MaxReconnectAttempts))
	}
	s := &TCPSession{
		address:  options.Address(),
		options:  tcpOptions,
		dialer:   dialer,
		notifier: discardNotifier(notifier),
		log:      log.WithFields(logrus.Fields{"address": options.Address(), "transport": config.TransportTCP}),
		state:    StateDisconnected,
		backoff:  b,
	}
	if tcpOptions.MaxPendingSends > 0 {
		s.pending = semaphore.NewWeighted(int64(tcpOptions.MaxPendingSends))
	}
	return s
}

func (s *TCPSession) Connect(ctx context.Context) error {
	_, err := s.connection(ctx)
	return err
}

func (s *TCPSession) Send(ctx context.Context, frame string) error {
	conn, err := s.connection(ctx)
	if err != nil {
		return err
	}
	if err = s.write(ctx, conn, frame); err != nil {
		sendErr := &SendError{Address: s.address, Transport: config.TransportTCP, Err: err}
		s.log.WithError(err).Warn("Failed writing syslog frame")
		s.notifier.Notify(events.Error(sendErr))
		s.handleClose(conn)
		return sendErr
	}
	s.touch()
	return nil
}

// write holds writeMu so the deadline set for a frame is the one its write runs under.
func (s *TCPSession) write(ctx context.Context, conn net.Conn, frame string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	deadline, _ := ctx.Deadline()
	_ = conn.SetWriteDeadline(deadline)
	_, err := io.WriteString(conn, frame+"\n")
	return err
}

func (s *TCPSession) Disconnect() error {
	s.mu.Lock()
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.reconnecting = false
	if s.dialCancel != nil {
		s.dialCancel()
		s.dialCancel = nil
	}
	cycle := s.cycle
	s.cycle = nil
	conn := s.conn
	s.conn = nil
	s.state = StateDisconnected
	var err error
	if conn != nil {
		err = halfClose(conn)
		_ = conn.SetReadDeadline(time.Now().Add(halfCloseGrace))
	}
	s.mu.Unlock()

	if cycle != nil {
		cycle.complete(ErrSessionClosed)
	}
	if conn != nil {
		s.log.Debug("Disconnected")
		s.notifier.Notify(events.Disconnect())
	}
	return err
}

func (s *TCPSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *TCPSession) IsConnected() bool {
	return s.State() == StateConnected
}

// connection returns the live connection, joining or starting a connect cycle when there is none.
func (s *TCPSession) connection(ctx context.Context) (net.Conn, error) {
	for {
		s.mu.Lock()
		if s.conn != nil {
			conn := s.conn
			s.mu.Unlock()
			return conn, nil
		}
		cycle := s.beginCycleLocked()
		s.mu.Unlock()

		if err := s.await(ctx, cycle); err != nil {
			return nil, err
		}
	}
}

func (s *TCPSession) beginCycleLocked() *connectCycle {
	if s.cycle != nil {
		return s.cycle
	}
	s.cycle = newConnectCycle()
	// a pending reconnect timer dials for this cycle when it fires
	if !s.reconnecting && s.dialCancel == nil {
		s.backoff.Reset()
		s.dialLocked()
	}
	return s.cycle
}

func (s *TCPSession) await(ctx context.Context, cycle *connectCycle) error {
	if s.pending != nil {
		if !s.pending.TryAcquire(1) {
			return ErrTooManyPending
		}
		defer s.pending.Release(1)
	}
	select {
	case <-cycle.done:
		return cycle.err
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "stopped waiting for syslog connection to %s", s.address)
	}
}

func (s *TCPSession) dialLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.dialCancel = cancel
	s.state = StateConnecting
	go s.dial(ctx, cancel, s.epoch)
}

func (s *TCPSession) dial(ctx context.Context, cancel context.CancelFunc, epoch uint64) {
	defer cancel()
	s.log.Debug("Connecting")
	conn, err := s.dialer.DialContext(ctx, "tcp", s.address)

	s.mu.Lock()
	if epoch != s.epoch {
		s.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	s.dialCancel = nil
	if err != nil {
		connErr := &ConnectionError{Address: s.address, Transport: config.TransportTCP, Err: err}
		s.state = StateDisconnected
		var failed *connectCycle
		if !s.scheduleReconnectLocked() {
			failed = s.cycle
			s.cycle = nil
		}
		s.mu.Unlock()

		s.log.WithError(err).Warn("Failed connecting to syslog collector")
		s.notifier.Notify(events.Error(connErr))
		if failed != nil {
			failed.complete(connErr)
		}
		return
	}
	s.conn = conn
	s.state = StateConnected
	s.backoff.Reset()
	s.touch()
	cycle := s.cycle
	s.cycle = nil
	s.mu.Unlock()

	s.log.Debug("Connected")
	s.notifier.Notify(events.Connect())
	if cycle != nil {
		cycle.complete(nil)
	}
	go s.watch(conn)
}

// scheduleReconnectLocked reports whether a retry is pending after the call.
func (s *TCPSession) scheduleReconnectLocked() bool {
	if !s.options.Reconnect {
		return false
	}
	if s.reconnecting {
		return true
	}
	delay := s.backoff.NextBackOff()
	if delay == backoff.Stop {
		s.log.Warnf("Giving up after %d reconnect attempts", s.options.MaxReconnectAttempts)
		return false
	}
	s.reconnecting = true
	s.state = StateReconnecting
	epoch := s.epoch
	s.timer = time.AfterFunc(delay, func() { s.retry(epoch) })
	s.log.Debugf("Reconnecting in %s", delay)
	return true
}

func (s *TCPSession) retry(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || !s.reconnecting {
		return
	}
	s.reconnecting = false
	s.timer = nil
	if s.conn != nil || s.dialCancel != nil {
		return
	}
	if s.cycle == nil {
		s.cycle = newConnectCycle()
	}
	s.dialLocked()
}

// watch reads until the connection ends. Reads only detect a closed or idle
// connection, anything the collector sends is discarded.
func (s *TCPSession) watch(conn net.Conn) {
	buf := make([]byte, 1024)
	for {
		s.armIdleDeadline(conn)
		_, err := conn.Read(buf)
		if err == nil {
			s.touch()
			continue
		}
		if s.isCurrent(conn) {
			var netErr net.Error
			switch {
			case errors.As(err, &netErr) && netErr.Timeout():
				if !s.idle() {
					continue
				}
				s.log.Warnf("Connection idle for %s, closing it", s.options.Timeout)
				s.notifier.Notify(events.Error(&ConnectionError{Address: s.address, Transport: config.TransportTCP, Err: ErrIdleTimeout}))
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			default:
				s.notifier.Notify(events.Error(&ConnectionError{Address: s.address, Transport: config.TransportTCP, Err: err}))
			}
		}
		s.handleClose(conn)
		return
	}
}

// handleClose closes conn. Whoever first finds it current reports the disconnect
// and applies the reconnect policy, so the watcher stays quiet after a failed write.
func (s *TCPSession) handleClose(conn net.Conn) {
	s.mu.Lock()
	current := s.conn == conn
	if current {
		s.conn = nil
		s.state = StateDisconnected
		s.scheduleReconnectLocked()
	}
	s.mu.Unlock()

	_ = conn.Close()
	if !current {
		// superseded or explicitly disconnected
		return
	}
	s.log.Debug("Connection closed")
	s.notifier.Notify(events.Disconnect())
}

func (s *TCPSession) armIdleDeadline(conn net.Conn) {
	if !s.options.IdleTimeoutEnabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == conn {
		_ = conn.SetReadDeadline(s.lastActive().Add(s.options.Timeout))
	}
}

func (s *TCPSession) isCurrent(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn == conn
}

func (s *TCPSession) touch() {
	s.lastActivity.Store(time.Now().UnixNano())
}

func (s *TCPSession) lastActive() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

func (s *TCPSession) idle() bool {
	return time.Since(s.lastActive()) >= s.options.Timeout
}

// halfClose shuts down the write side so the collector reads everything we sent.
func halfClose(conn net.Conn) error {
	cw, ok := conn.(interface{ CloseWrite() error })
	if !ok {
		return ignoreClosed(conn.Close())
	}
	if err := cw.CloseWrite(); err != nil {
		_ = conn.Close()
		return ignoreClosed(err)
	}
	return nil
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return errors.Wrap(err, "failed closing syslog connection")
}
