// Package client is the protocol core of a corkboard client: it encodes
// user commands into wire frames and decodes inbound frames into typed
// events for the caller's renderer. Line editing, terminal output and
// reconnection policy belong to the caller.
package client

import (
	"bufio"
	"errors"
	"net"
	"sync"

	"github.com/corkboard-im/corkboard/proto"
)

var ErrNotConnected = errors.New("Not connected.")

type Options struct {
	// OnEvent receives every decoded server event, from a single
	// background goroutine.
	OnEvent func(proto.ProtocolUnit)

	// OnError receives the failure that ended the connection.
	OnError func(error)
}

type Client struct {
	conn net.Conn
	br   *bufio.Reader

	writeLock sync.Mutex

	onEvent func(proto.ProtocolUnit)
	onError func(error)

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a corkboard server and starts the background reader.
func Dial(endpoint string, options Options) (*Client, error) {
	conn, err := net.Dial("tcp", endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		conn:    conn,
		br:      bufio.NewReader(conn),
		onEvent: options.OnEvent,
		onError: options.OnError,
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Client) readLoop() {
	for {
		f, err := proto.ReadFrame(c.br)
		if err != nil {
			select {
			case <-c.done:
			default:
				if c.onError != nil {
					c.onError(err)
				}
			}
			c.Close()
			return
		}
		unit, err := proto.UnmarshalEvent(f)
		if err != nil {
			// Framing is intact; a single bad payload is dropped.
			if c.onError != nil {
				c.onError(err)
			}
			continue
		}
		if c.onEvent != nil {
			c.onEvent(unit)
		}
	}
}

func (c *Client) submit(u proto.ProtocolUnit) error {
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}
	f, err := proto.MarshalFrame(u)
	if err != nil {
		return err
	}
	c.writeLock.Lock()
	defer c.writeLock.Unlock()
	return proto.WriteFrame(c.conn, f)
}

func (c *Client) Join(username string) error {
	return c.submit(&proto.JoinRequest{Username: username})
}

func (c *Client) GroupJoin(groupID, username string) error {
	return c.submit(&proto.GroupJoinRequest{GroupID: groupID, Username: username})
}

func (c *Client) Post(subject, body string) error {
	return c.submit(&proto.PostRequest{Subject: subject, Body: body})
}

func (c *Client) GroupPost(groupID, subject, body string) error {
	return c.submit(&proto.GroupPostRequest{GroupID: groupID, Subject: subject, Body: body})
}

func (c *Client) Users() error {
	return c.submit(&proto.UsersRequest{})
}

func (c *Client) GroupUsers(groupID string) error {
	return c.submit(&proto.GroupUsersRequest{GroupID: groupID})
}

func (c *Client) Leave() error {
	return c.submit(&proto.LeaveRequest{})
}

func (c *Client) GroupLeave(groupID string) error {
	return c.submit(&proto.GroupLeaveRequest{GroupID: groupID})
}

func (c *Client) Message(postID string) error {
	return c.submit(&proto.MessageRequest{PostID: postID})
}

func (c *Client) GroupMessage(groupID, postID string) error {
	return c.submit(&proto.GroupMessageRequest{GroupID: groupID, PostID: postID})
}

func (c *Client) Groups() error {
	return c.submit(&proto.GroupsRequest{})
}

// Exit announces the voluntary departure and closes the transport. The
// server runs the same cleanup either way.
func (c *Client) Exit() error {
	err := c.submit(&proto.ExitRequest{})
	c.Close()
	return err
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}
