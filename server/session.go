package server

import (
	"bufio"
	"net"
	"sync"

	"github.com/corkboard-im/corkboard/log"
	"github.com/corkboard-im/corkboard/proto"
)

const (
	// Connected, no username yet.
	SESSION_OPEN = uint8(iota)
	// Username set by the first successful join.
	SESSION_JOINED
	SESSION_CLOSED
)

// Transport carries whole frames over one client connection. A transport is
// owned exclusively by its session's reader/writer pair and never shared
// between workers.
type Transport interface {
	ReadFrame() (*proto.Frame, error)
	WriteFrame(*proto.Frame) error
	Close() error
	RemoteAddr() string
}

// TCPTransport frames a raw stream socket.
type TCPTransport struct {
	conn net.Conn
	br   *bufio.Reader
}

func NewTCPTransport(conn net.Conn) *TCPTransport {
	return &TCPTransport{
		conn: conn,
		br:   bufio.NewReader(conn),
	}
}

func (t *TCPTransport) ReadFrame() (*proto.Frame, error) {
	return proto.ReadFrame(t.br)
}

func (t *TCPTransport) WriteFrame(f *proto.Frame) error {
	return proto.WriteFrame(t.conn, f)
}

func (t *TCPTransport) Close() error {
	return t.conn.Close()
}

func (t *TCPTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

// Session is the per-connection state machine. The reader worker feeds
// frames to the dispatcher; the writer worker drains the outbound queue so
// fan-out never blocks on a slow socket.
type Session struct {
	key       string
	transport Transport

	out       chan *proto.Frame
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	username string
	state    uint8

	log *log.Logger
}

func NewSession(key string, t Transport, queueSize uint) *Session {
	if queueSize < 1 {
		queueSize = 1
	}
	s := &Session{
		key:       key,
		transport: t,
		out:       make(chan *proto.Frame, queueSize),
		done:      make(chan struct{}),
		log:       log.NewLogger(),
	}
	s.log.Fields["entity"] = "session"
	s.log.Fields["key"] = key
	go s.writeLoop()
	return s
}

func (s *Session) Key() string {
	return s.key
}

func (s *Session) RemoteAddr() string {
	return s.transport.RemoteAddr()
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// SetUsername records the identity of the first successful join. Later
// joins keep the established name.
func (s *Session) SetUsername(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SESSION_OPEN {
		s.username = username
		s.state = SESSION_JOINED
	}
}

func (s *Session) State() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Push queues one outbound frame without blocking. A session that cannot
// drain its queue is closed rather than letting it stall fan-out for the
// whole group.
func (s *Session) Push(f *proto.Frame) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.out <- f:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		s.log.Warn("Outbound queue overflow, closing session.")
		s.Close()
		return ErrQueueOverflow
	}
}

func (s *Session) PushUnit(u proto.ProtocolUnit) error {
	f, err := proto.MarshalFrame(u)
	if err != nil {
		return err
	}
	return s.Push(f)
}

// PushError answers the requester with an Error event. Best effort.
func (s *Session) PushError(message string) {
	if err := s.PushUnit(&proto.ErrorEvent{Message: message}); err != nil {
		s.log.Debug("Error event dropped: " + err.Error())
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case f := <-s.out:
			if err := s.transport.WriteFrame(f); err != nil {
				s.log.Info2("Write failure: " + err.Error())
				s.Close()
				return
			}
		case <-s.done:
			// Flush whatever was queued before the close.
			for {
				select {
				case f := <-s.out:
					if s.transport.WriteFrame(f) != nil {
						return
					}
				default:
					return
				}
			}
		}
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.state = SESSION_CLOSED
		s.mu.Unlock()
		close(s.done)
		s.transport.Close()
	})
}

func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
