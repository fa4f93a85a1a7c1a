package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboard-im/corkboard/client"
	"github.com/corkboard-im/corkboard/proto"
)

func startTestServer(t *testing.T, config ServerConfig) (*Server, string) {
	t.Helper()
	config.Endpoint = "127.0.0.1:0"
	srv := NewServer(config)
	addr, err := srv.Listen()
	require.NoError(t, err)
	go srv.Serve()
	return srv, addr.String()
}

type eventSink struct {
	events chan proto.ProtocolUnit
	errs   chan error
}

func newEventSink() *eventSink {
	return &eventSink{
		events: make(chan proto.ProtocolUnit, 64),
		errs:   make(chan error, 8),
	}
}

func (sink *eventSink) options() client.Options {
	return client.Options{
		OnEvent: func(u proto.ProtocolUnit) { sink.events <- u },
		OnError: func(err error) { sink.errs <- err },
	}
}

func (sink *eventSink) next(t *testing.T) proto.ProtocolUnit {
	t.Helper()
	select {
	case u := <-sink.events:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("No event within deadline.")
		return nil
	}
}

func TestServerEndToEnd(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{
		Groups: map[string]string{"g1": "Group one"},
	})
	defer srv.Shutdown()

	aliceSink, bobSink := newEventSink(), newEventSink()
	alice, err := client.Dial(addr, aliceSink.options())
	require.NoError(t, err)
	defer alice.Close()
	bob, err := client.Dial(addr, bobSink.options())
	require.NoError(t, err)
	defer bob.Close()

	require.NoError(t, alice.Join("alice"))
	assert.Equal(t, &proto.JoinEvent{Username: "alice"}, aliceSink.next(t))

	require.NoError(t, bob.Join("bob"))
	assert.Equal(t, &proto.JoinEvent{Username: "bob"}, aliceSink.next(t))
	assert.Equal(t, &proto.JoinEvent{Username: "bob"}, bobSink.next(t))

	require.NoError(t, alice.Post("lunch", "noon at the corner"))
	for _, sink := range []*eventSink{aliceSink, bobSink} {
		post, ok := sink.next(t).(*proto.PostEvent)
		require.True(t, ok)
		assert.Equal(t, "1", post.PostID)
		assert.Equal(t, "alice", post.Sender)
		assert.Equal(t, "lunch", post.Subject)
	}

	require.NoError(t, bob.Message("1"))
	assert.Equal(t, &proto.MessageEvent{Body: "noon at the corner"}, bobSink.next(t))

	require.NoError(t, alice.Users())
	assert.Equal(t, &proto.UsersEvent{Usernames: []string{"alice", "bob"}}, aliceSink.next(t))

	require.NoError(t, alice.Groups())
	groups, ok := aliceSink.next(t).(*proto.GroupsEvent)
	require.True(t, ok)
	assert.Equal(t, []proto.GroupEntry{
		{ID: DEFAULT_PUBLIC_GROUP_ID, Name: DEFAULT_PUBLIC_GROUP_NAME},
		{ID: "g1", Name: "Group one"},
	}, groups.Groups)
}

func TestServerGroupFlow(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{})
	defer srv.Shutdown()

	sink := newEventSink()
	c, err := client.Dial(addr, sink.options())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.GroupJoin("hiking", "alice"))
	assert.Equal(t, &proto.GroupJoinEvent{
		Username: "alice", GroupID: "hiking", GroupName: "hiking",
	}, sink.next(t))

	require.NoError(t, c.GroupPost("hiking", "trailhead", "meet at nine"))
	post, ok := sink.next(t).(*proto.GroupPostEvent)
	require.True(t, ok)
	assert.Equal(t, "1", post.PostID)
	assert.Equal(t, "hiking", post.GroupID)

	require.NoError(t, c.GroupMessage("hiking", "1"))
	assert.Equal(t, &proto.MessageEvent{Body: "meet at nine"}, sink.next(t))

	require.NoError(t, c.GroupUsers("hiking"))
	assert.Equal(t, &proto.GroupUsersEvent{
		Usernames: []string{"alice"}, GroupID: "hiking", GroupName: "hiking",
	}, sink.next(t))

	require.NoError(t, c.GroupLeave("hiking"))
	assert.Equal(t, &proto.GroupLeaveEvent{
		Username: "alice", GroupID: "hiking", GroupName: "hiking",
	}, sink.next(t))
}

func TestServerExitNotifiesOthers(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{})
	defer srv.Shutdown()

	aliceSink, bobSink := newEventSink(), newEventSink()
	alice, err := client.Dial(addr, aliceSink.options())
	require.NoError(t, err)
	defer alice.Close()
	bob, err := client.Dial(addr, bobSink.options())
	require.NoError(t, err)

	require.NoError(t, alice.Join("alice"))
	aliceSink.next(t)
	require.NoError(t, bob.Join("bob"))
	aliceSink.next(t)
	bobSink.next(t)

	require.NoError(t, bob.Exit())
	assert.Equal(t, &proto.LeaveEvent{Username: "bob"}, aliceSink.next(t))

	deadline := time.After(2 * time.Second)
	for {
		users, err := srv.Registry().Users(srv.Registry().PublicID())
		require.NoError(t, err)
		if len(users) == 1 {
			assert.Equal(t, []string{"alice"}, users)
			break
		}
		select {
		case <-deadline:
			t.Fatal("Departed session still registered.")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestServerDroppedConnectionCleanup(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{})
	defer srv.Shutdown()

	aliceSink, bobSink := newEventSink(), newEventSink()
	alice, err := client.Dial(addr, aliceSink.options())
	require.NoError(t, err)
	defer alice.Close()
	bob, err := client.Dial(addr, bobSink.options())
	require.NoError(t, err)

	require.NoError(t, alice.Join("alice"))
	aliceSink.next(t)
	require.NoError(t, bob.Join("bob"))
	aliceSink.next(t)
	bobSink.next(t)

	// No Exit frame; the socket just goes away.
	bob.Close()
	assert.Equal(t, &proto.LeaveEvent{Username: "bob"}, aliceSink.next(t))
}

func TestServerMalformedFrameDropsConnection(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{})
	defer srv.Shutdown()

	aliceSink := newEventSink()
	alice, err := client.Dial(addr, aliceSink.options())
	require.NoError(t, err)
	defer alice.Close()

	require.NoError(t, alice.Join("alice"))
	aliceSink.next(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	join, err := proto.MarshalFrame(&proto.JoinRequest{Username: "bob"})
	require.NoError(t, err)
	require.NoError(t, proto.WriteFrame(conn, join))
	aliceSink.next(t)

	// Garbage where a frame header should be. Framing is unrecoverable,
	// so the whole connection goes.
	_, err = conn.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x00, 0x06})
	require.NoError(t, err)
	assert.Equal(t, &proto.LeaveEvent{Username: "bob"}, aliceSink.next(t))
}

func TestServerShutdownClosesSessions(t *testing.T) {
	srv, addr := startTestServer(t, ServerConfig{})

	sink := newEventSink()
	c, err := client.Dial(addr, sink.options())
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Join("alice"))
	sink.next(t)

	done := make(chan struct{})
	go func() {
		srv.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown did not finish.")
	}

	select {
	case <-sink.errs:
	case <-time.After(2 * time.Second):
		t.Fatal("Client never observed the shutdown.")
	}
}
