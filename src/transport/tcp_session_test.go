package transport

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/pkg/errors"
	gomock "go.uber.org/mock/gomock"
	"golang.org/x/net/nettest"
)

// collector accepts stream connections on a loopback port.
type collector struct {
	listener net.Listener
	conns    chan net.Conn
}

func newCollector() *collector {
	l, err := nettest.NewLocalListener("tcp")
	Expect(err).NotTo(HaveOccurred())
	c := &collector{listener: l, conns: make(chan net.Conn, 10)}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			c.conns <- conn
		}
	}()
	return c
}

func (c *collector) options() config.ClientOptions {
	addr := c.listener.Addr().(*net.TCPAddr)
	return config.ClientOptions{Hostname: addr.IP.String(), Port: addr.Port, Transport: config.TransportTCP}
}

func (c *collector) accept() net.Conn {
	var conn net.Conn
	Eventually(c.conns, 2*time.Second).Should(Receive(&conn))
	return conn
}

func (c *collector) close() {
	_ = c.listener.Close()
	for {
		select {
		case conn := <-c.conns:
			_ = conn.Close()
		default:
			return
		}
	}
}

var _ = Describe("TCPSession over a loopback collector", func() {
	var (
		server  *collector
		rec     *recorder
		session *TCPSession
		peers   []net.Conn
	)

	newSession := func(tcpOptions config.TCPOptions) *TCPSession {
		return NewTCPSession(server.options(), tcpOptions, &net.Dialer{}, rec, quietLogger())
	}

	accept := func() *bufio.Reader {
		conn := server.accept()
		peers = append(peers, conn)
		return bufio.NewReader(conn)
	}

	BeforeEach(func() {
		server = newCollector()
		rec = &recorder{}
		peers = nil
	})

	AfterEach(func() {
		if session != nil {
			_ = session.Disconnect()
		}
		for _, p := range peers {
			_ = p.Close()
		}
		server.close()
	})

	It("connects lazily on send and terminates frames with a newline", func() {
		session = newSession(config.TCPOptions{Timeout: -1})
		Expect(session.State()).To(Equal(StateDisconnected))

		Expect(session.Send(context.Background(), "Hello TCP")).To(Succeed())
		reader := accept()
		Expect(reader.ReadString('\n')).To(Equal("Hello TCP\n"))
		Expect(session.IsConnected()).To(BeTrue())
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventConnect}))
	})

	It("keeps frame order over one connection", func() {
		session = newSession(config.TCPOptions{Timeout: -1})
		Expect(session.Connect(context.Background())).To(Succeed())
		reader := accept()
		for _, frame := range []string{"one", "two", "three"} {
			Expect(session.Send(context.Background(), frame)).To(Succeed())
		}
		for _, frame := range []string{"one\n", "two\n", "three\n"} {
			Expect(reader.ReadString('\n')).To(Equal(frame))
		}
	})

	It("half-closes on disconnect and only reports it once", func() {
		session = newSession(config.TCPOptions{Timeout: -1})
		Expect(session.Send(context.Background(), "bye")).To(Succeed())
		reader := accept()
		Expect(reader.ReadString('\n')).To(Equal("bye\n"))

		Expect(session.Disconnect()).To(Succeed())
		_, err := reader.ReadString('\n')
		Expect(err).To(Equal(io.EOF))
		Expect(session.Disconnect()).To(Succeed())

		Expect(session.State()).To(Equal(StateDisconnected))
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventConnect, events.EventDisconnect}))
	})

	It("reports a collector side close and reconnects on the next send", func() {
		session = newSession(config.TCPOptions{Timeout: -1})
		Expect(session.Connect(context.Background())).To(Succeed())
		first := server.accept()
		Expect(first.Close()).To(Succeed())

		Eventually(session.State).Should(Equal(StateDisconnected))
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventConnect, events.EventDisconnect}))

		Expect(session.Send(context.Background(), "again")).To(Succeed())
		reader := accept()
		Expect(reader.ReadString('\n')).To(Equal("again\n"))
		Expect(rec.Count(events.EventConnect)).To(Equal(2))
	})

	It("reconnects on its own when enabled", func() {
		session = newSession(config.TCPOptions{Timeout: -1, Reconnect: true, ReconnectInterval: 50 * time.Millisecond})
		Expect(session.Connect(context.Background())).To(Succeed())
		first := server.accept()
		Expect(first.Close()).To(Succeed())

		accept()
		Eventually(func() int { return rec.Count(events.EventConnect) }, 2*time.Second).Should(Equal(2))
		Expect(rec.Count(events.EventDisconnect)).To(Equal(1))
		Expect(session.IsConnected()).To(BeTrue())
	})

	It("tears an idle connection down", func() {
		session = newSession(config.TCPOptions{Timeout: 100 * time.Millisecond})
		Expect(session.Connect(context.Background())).To(Succeed())
		reader := accept()

		Eventually(rec.Errors, 2*time.Second).Should(ContainElement(MatchError(ErrIdleTimeout)))
		Eventually(func() int { return rec.Count(events.EventDisconnect) }).Should(Equal(1))
		Expect(session.State()).To(Equal(StateDisconnected))
		_, err := reader.ReadString('\n')
		Expect(err).To(Equal(io.EOF))
	})

	It("keeps a busy connection past the idle timeout", func() {
		session = newSession(config.TCPOptions{Timeout: 200 * time.Millisecond})
		Expect(session.Connect(context.Background())).To(Succeed())
		reader := accept()
		for i := 0; i < 5; i++ {
			time.Sleep(80 * time.Millisecond)
			Expect(session.Send(context.Background(), "tick")).To(Succeed())
			Expect(reader.ReadString('\n')).To(Equal("tick\n"))
		}
		Expect(rec.Errors()).To(BeEmpty())
	})
})

var _ = Describe("TCPSession with a scripted dialer", func() {
	var (
		ctrl    *gomock.Controller
		dialer  *MockDialer
		rec     *recorder
		session *TCPSession
		peers   []net.Conn
		options = config.ClientOptions{Hostname: "collector.example", Port: 6514, Transport: config.TransportTCP}
		refused = errors.New("connection refused")
	)

	pipe := func() net.Conn {
		client, server := net.Pipe()
		peers = append(peers, server)
		return client
	}

	blockUntilCancelled := func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		dialer = NewMockDialer(ctrl)
		rec = &recorder{}
		peers = nil
	})

	AfterEach(func() {
		_ = session.Disconnect()
		for _, p := range peers {
			_ = p.Close()
		}
		ctrl.Finish()
	})

	It("fails the connect without retrying when reconnect is off", func() {
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", "collector.example:6514").Return(nil, refused).Times(1)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1}, dialer, rec, quietLogger())

		err := session.Connect(context.Background())
		var connErr *ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(connErr.Err).To(Equal(refused))
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventError}))
		Expect(session.State()).To(Equal(StateDisconnected))
	})

	It("shares one connect cycle between concurrent callers", func() {
		gomock.InOrder(
			dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).Return(nil, refused),
			dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).Return(pipe(), nil),
		)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1, Reconnect: true, ReconnectInterval: 50 * time.Millisecond},
			dialer, rec, quietLogger())

		var wg sync.WaitGroup
		errs := make(chan error, 5)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				errs <- session.Connect(context.Background())
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventError, events.EventConnect}))
		Expect(session.State()).To(Equal(StateConnected))
	})

	It("gives up after the configured number of reconnect attempts", func() {
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).Return(nil, refused).Times(3)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1, Reconnect: true, ReconnectInterval: 10 * time.Millisecond,
			MaxReconnectAttempts: 2}, dialer, rec, quietLogger())

		err := session.Connect(context.Background())
		var connErr *ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(rec.Count(events.EventError)).To(Equal(3))
		Expect(session.State()).To(Equal(StateDisconnected))
	})

	It("stops a pending reconnect on disconnect", func() {
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).Return(nil, refused).Times(1)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1, Reconnect: true, ReconnectInterval: time.Hour},
			dialer, rec, quietLogger())

		errCh := make(chan error, 1)
		go func() { errCh <- session.Connect(context.Background()) }()
		Eventually(session.State).Should(Equal(StateReconnecting))

		Expect(session.Disconnect()).To(Succeed())
		Eventually(errCh).Should(Receive(MatchError(ErrSessionClosed)))
		Expect(session.State()).To(Equal(StateDisconnected))
		Expect(rec.Count(events.EventDisconnect)).To(BeZero())
	})

	It("stops waiting when the caller's context ends", func() {
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).DoAndReturn(blockUntilCancelled).Times(1)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1}, dialer, rec, quietLogger())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		err := session.Send(ctx, "late")
		Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
		Expect(session.State()).To(Equal(StateConnecting))
	})

	It("rejects callers beyond the pending limit", func() {
		dialed := make(chan struct{})
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).DoAndReturn(
			func(ctx context.Context, network, address string) (net.Conn, error) {
				close(dialed)
				return blockUntilCancelled(ctx, network, address)
			}).Times(1)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1, MaxPendingSends: 1}, dialer, rec, quietLogger())

		errCh := make(chan error, 1)
		go func() { errCh <- session.Send(context.Background(), "first") }()
		Eventually(dialed).Should(BeClosed())
		time.Sleep(50 * time.Millisecond)

		Expect(session.Send(context.Background(), "second")).To(MatchError(ErrTooManyPending))
		Expect(session.Disconnect()).To(Succeed())
		Eventually(errCh).Should(Receive(MatchError(ErrSessionClosed)))
	})

	It("reports a failed write and drops the connection", func() {
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).Return(&failingConn{Conn: pipe()}, nil).Times(1)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1}, dialer, rec, quietLogger())

		err := session.Send(context.Background(), "lost")
		var sendErr *SendError
		Expect(errors.As(err, &sendErr)).To(BeTrue())
		Expect(sendErr.Address).To(Equal("collector.example:6514"))

		Eventually(rec.Types).Should(Equal([]events.EventType{events.EventConnect, events.EventError, events.EventDisconnect}))
		Consistently(func() int { return rec.Count(events.EventError) }, 300*time.Millisecond).Should(Equal(1))
		Expect(rec.Count(events.EventDisconnect)).To(Equal(1))
		Expect(session.State()).To(Equal(StateDisconnected))
	})

	It("writes every frame under its own caller's deadline", func() {
		client, server := net.Pipe()
		go func() { _, _ = io.Copy(io.Discard, server) }()
		conn := &deadlineConn{Conn: client}
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", gomock.Any()).Return(conn, nil).Times(1)
		session = NewTCPSession(options, config.TCPOptions{Timeout: -1}, dialer, rec, quietLogger())
		defer server.Close()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(timed bool) {
				defer GinkgoRecover()
				defer wg.Done()
				ctx, frame := context.Background(), "open"
				if timed {
					var cancel context.CancelFunc
					ctx, cancel = context.WithTimeout(ctx, time.Minute)
					defer cancel()
					frame = "timed"
				}
				Expect(session.Send(ctx, frame)).To(Succeed())
			}(i%2 == 0)
		}
		wg.Wait()

		writes := conn.Writes()
		Expect(writes).To(HaveLen(20))
		for _, w := range writes {
			if w.frame == "timed\n" {
				Expect(w.deadline.IsZero()).To(BeFalse())
			} else {
				Expect(w.frame).To(Equal("open\n"))
				Expect(w.deadline.IsZero()).To(BeTrue())
			}
		}
		Expect(session.Disconnect()).To(Succeed())
	})
})
