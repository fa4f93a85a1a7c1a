package server

import (
	"net/http"

	ws "github.com/gorilla/websocket"

	"github.com/corkboard-im/corkboard/log"
	"github.com/corkboard-im/corkboard/proto"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WebsocketTransport carries frames as websocket binary messages, one frame
// per message. The websocket layer preserves message boundaries, so a
// malformed message is discarded without poisoning the stream.
type WebsocketTransport struct {
	conn *ws.Conn
	log  *log.Logger
}

func NewWebsocketTransport(conn *ws.Conn) *WebsocketTransport {
	t := &WebsocketTransport{
		conn: conn,
		log:  log.NewLogger(),
	}
	t.log.Fields["entity"] = "ws-transport"
	return t
}

func (t *WebsocketTransport) ReadFrame() (*proto.Frame, error) {
	for {
		msgType, dat, err := t.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType != ws.BinaryMessage {
			t.log.Info2("Non-binary websocket message ignored.")
			continue
		}
		f, err := proto.DecodeFrame(dat)
		if err != nil {
			t.log.Info2("Malformed frame discarded: " + err.Error())
			continue
		}
		return f, nil
	}
}

func (t *WebsocketTransport) WriteFrame(f *proto.Frame) error {
	buf, err := proto.EncodeFrame(f)
	if err != nil {
		return err
	}
	return t.conn.WriteMessage(ws.BinaryMessage, buf)
}

func (t *WebsocketTransport) Close() error {
	return t.conn.Close()
}

func (t *WebsocketTransport) RemoteAddr() string {
	return t.conn.RemoteAddr().String()
}

// WebsocketConnect upgrades an HTTP request and serves the wire protocol
// over it with the same session lifecycle as a TCP connection.
func (s *Server) WebsocketConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Websocket upgrade failure: " + err.Error())
		return
	}
	s.wg.Add(1)
	defer s.wg.Done()
	s.ServeTransport(NewWebsocketTransport(conn))
}
