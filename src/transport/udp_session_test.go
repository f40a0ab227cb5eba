package transport

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/openshift/syslog-client/src/config"
	"github.com/openshift/syslog-client/src/events"
	"github.com/pkg/errors"
	gomock "go.uber.org/mock/gomock"
	"golang.org/x/net/nettest"
)

var _ = Describe("UDPSession", func() {
	var (
		rec     *recorder
		server  net.PacketConn
		session *UDPSession
		options config.ClientOptions
	)

	receive := func() string {
		buf := make([]byte, 2048)
		Expect(server.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		n, _, err := server.ReadFrom(buf)
		Expect(err).NotTo(HaveOccurred())
		return string(buf[:n])
	}

	BeforeEach(func() {
		var err error
		server, err = nettest.NewLocalPacketListener("udp")
		Expect(err).NotTo(HaveOccurred())
		addr := server.LocalAddr().(*net.UDPAddr)
		options = config.ClientOptions{Hostname: addr.IP.String(), Port: addr.Port, Transport: config.TransportUDP}
		rec = &recorder{}
		session = NewUDPSession(options, &net.ListenConfig{}, rec, quietLogger())
	})

	AfterEach(func() {
		_ = session.Disconnect()
		_ = server.Close()
	})

	It("sends one datagram per frame without a terminator", func() {
		Expect(session.Send(context.Background(), "Hello UDP")).To(Succeed())
		Expect(receive()).To(Equal("Hello UDP"))
		Expect(session.Send(context.Background(), "second")).To(Succeed())
		Expect(receive()).To(Equal("second"))
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventConnect}))
	})

	It("is connected once the socket exists", func() {
		Expect(session.IsConnected()).To(BeFalse())
		Expect(session.Connect(context.Background())).To(Succeed())
		Expect(session.State()).To(Equal(StateConnected))
		Expect(session.Connect(context.Background())).To(Succeed())
		Expect(rec.Count(events.EventConnect)).To(Equal(1))
	})

	It("closes the socket once", func() {
		Expect(session.Connect(context.Background())).To(Succeed())
		Expect(session.Disconnect()).To(Succeed())
		Expect(session.Disconnect()).To(Succeed())
		Expect(session.State()).To(Equal(StateDisconnected))
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventConnect, events.EventDisconnect}))
	})

	It("does not report a disconnect when nothing was open", func() {
		Expect(session.Disconnect()).To(Succeed())
		Expect(rec.Types()).To(BeEmpty())
	})

	It("opens a new socket after a disconnect", func() {
		Expect(session.Send(context.Background(), "before")).To(Succeed())
		Expect(receive()).To(Equal("before"))
		Expect(session.Disconnect()).To(Succeed())
		Expect(session.Send(context.Background(), "after")).To(Succeed())
		Expect(receive()).To(Equal("after"))
		Expect(rec.Count(events.EventConnect)).To(Equal(2))
	})

	It("resolves the collector once per socket", func() {
		resolves := 0
		session.resolve = func(network, address string) (*net.UDPAddr, error) {
			resolves++
			return net.ResolveUDPAddr(network, address)
		}
		for _, frame := range []string{"one", "two", "three"} {
			Expect(session.Send(context.Background(), frame)).To(Succeed())
			Expect(receive()).To(Equal(frame))
		}
		Expect(resolves).To(Equal(1))

		Expect(session.Disconnect()).To(Succeed())
		Expect(session.Send(context.Background(), "four")).To(Succeed())
		Expect(receive()).To(Equal("four"))
		Expect(resolves).To(Equal(2))
	})

	It("reports a collector that does not resolve", func() {
		cause := errors.New("no such host")
		session.resolve = func(string, string) (*net.UDPAddr, error) { return nil, cause }

		err := session.Send(context.Background(), "dropped")
		var connErr *ConnectionError
		Expect(errors.As(err, &connErr)).To(BeTrue())
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(rec.Types()).To(Equal([]events.EventType{events.EventError}))
		Expect(session.IsConnected()).To(BeFalse())
	})

	Context("when the socket cannot be opened", func() {
		var ctrl *gomock.Controller

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
		})

		AfterEach(func() {
			ctrl.Finish()
		})

		It("returns a connection error and reports it", func() {
			listener := NewMockPacketListener(ctrl)
			cause := errors.New("too many open files")
			listener.EXPECT().ListenPacket(gomock.Any(), "udp", ":0").Return(nil, cause).Times(1)
			session = NewUDPSession(options, listener, rec, quietLogger())

			err := session.Send(context.Background(), "dropped")
			var connErr *ConnectionError
			Expect(errors.As(err, &connErr)).To(BeTrue())
			Expect(connErr.Transport).To(Equal(config.TransportUDP))
			Expect(rec.Errors()).To(ConsistOf(MatchError(cause)))
			Expect(session.IsConnected()).To(BeFalse())
		})
	})
})

var _ = Describe("NewSession", func() {
	It("picks the datagram session for udp", func() {
		s := NewSession(config.ClientOptions{Transport: config.TransportUDP}, config.DefaultTCPOptions, nil, quietLogger())
		Expect(s).To(BeAssignableToTypeOf(&UDPSession{}))
	})

	It("falls back to the stream session", func() {
		s := NewSession(config.ClientOptions{Transport: "sctp"}, config.DefaultTCPOptions, nil, quietLogger())
		Expect(s).To(BeAssignableToTypeOf(&TCPSession{}))
		Expect(s.State()).To(Equal(StateDisconnected))
	})
})

var _ = Describe("State", func() {
	It("names every state", func() {
		Expect(StateDisconnected.String()).To(Equal("disconnected"))
		Expect(StateConnecting.String()).To(Equal("connecting"))
		Expect(StateConnected.String()).To(Equal("connected"))
		Expect(StateReconnecting.String()).To(Equal("reconnecting"))
	})
})
