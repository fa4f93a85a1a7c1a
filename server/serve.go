package server

import (
	"io"
	"net"
	"net/http"
	"sort"
	"sync"

	guuid "github.com/satori/go.uuid"

	"github.com/corkboard-im/corkboard/log"
)

type ServerConfig struct {
	// Endpoint serving the wire protocol.
	Endpoint string

	// Endpoint serving the management API and the websocket transport.
	// Empty disables the HTTP side.
	APIEndpoint string

	PublicGroupID   string
	PublicGroupName string

	// Named groups created at start, keyed by group id.
	Groups map[string]string

	// Number of recent posts replayed to a joining session.
	HistoryReplay int

	// Per-session outbound frame queue size.
	QueueSize uint
}

const (
	DEFAULT_PUBLIC_GROUP_ID   = "public"
	DEFAULT_PUBLIC_GROUP_NAME = "Public group for all users."
	DEFAULT_HISTORY_REPLAY    = 2
	DEFAULT_QUEUE_SIZE        = 64
)

type Server struct {
	config     ServerConfig
	registry   *Registry
	hub        *Hub
	dispatcher *Dispatcher

	listener net.Listener
	httpSrv  *http.Server

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once

	log *log.Logger
}

func NewServer(config ServerConfig) *Server {
	if config.PublicGroupID == "" {
		config.PublicGroupID = DEFAULT_PUBLIC_GROUP_ID
	}
	if config.PublicGroupName == "" {
		config.PublicGroupName = DEFAULT_PUBLIC_GROUP_NAME
	}
	if config.QueueSize == 0 {
		config.QueueSize = DEFAULT_QUEUE_SIZE
	}

	registry := NewRegistry(config.PublicGroupID, config.PublicGroupName)
	seeds := make([]string, 0, len(config.Groups))
	for id := range config.Groups {
		seeds = append(seeds, id)
	}
	sort.Strings(seeds)
	for _, id := range seeds {
		registry.CreateOrGet(id, config.Groups[id])
	}

	hub := NewHub()
	s := &Server{
		config:     config,
		registry:   registry,
		hub:        hub,
		dispatcher: NewDispatcher(registry, hub, config.HistoryReplay),
		stop:       make(chan struct{}),
		log:        log.NewLogger(),
	}
	s.log.Fields["entity"] = "server"
	return s
}

func (s *Server) Registry() *Registry {
	return s.registry
}

func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen binds the wire protocol endpoint without accepting yet, so callers
// can learn the bound address before Serve blocks.
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.config.Endpoint)
	if err != nil {
		return nil, err
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Serve runs the acceptor loop, one worker per connection.
func (s *Server) Serve() error {
	if s.listener == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
	}
	s.log.Infof0("Serving wire protocol at %v.", s.listener.Addr())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stop:
				return nil
			default:
				return err
			}
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.ServeTransport(NewTCPTransport(conn))
		}()
	}
}

// ServeTransport runs one session worker until the peer leaves or the
// transport fails. Cleanup runs before return, so no group ever keeps a
// member referencing a dead connection.
func (s *Server) ServeTransport(t Transport) {
	key := guuid.NewV4().String()
	sess := NewSession(key, t, s.config.QueueSize)
	s.hub.Register(sess)
	s.log.Infof1("Session %v connected from %v.", key, t.RemoteAddr())

	for {
		f, err := t.ReadFrame()
		if err != nil {
			if err != io.EOF {
				// Malformed framing or transport failure; either way
				// the stream cannot be trusted any further.
				s.log.Info2("Session " + key + " read failure: " + err.Error())
			}
			break
		}
		if err = s.dispatcher.Dispatch(sess, f); err != nil {
			break
		}
	}

	s.dispatcher.Disconnect(sess)
	s.log.Infof1("Session %v disconnected.", key)
}

// Shutdown stops accepting, closes every live session and waits for the
// workers to finish their cleanup. In-flight registry mutations complete;
// none is aborted midway.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	if s.listener != nil {
		s.listener.Close()
	}
	if s.httpSrv != nil {
		s.httpSrv.Close()
	}
	s.hub.Visit(func(key string, sess *Session) bool {
		sess.Close()
		return true
	})
	s.wg.Wait()
}
