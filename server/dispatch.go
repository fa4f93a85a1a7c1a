package server

import (
	"strconv"
	"sync"

	"github.com/corkboard-im/corkboard/log"
	"github.com/corkboard-im/corkboard/proto"
)

const postDateLayout = "2006-01-02 15:04:05"

// Dispatcher routes decoded frames to registry mutations and fans the
// resulting events out to every session of the affected group.
type Dispatcher struct {
	reg    *Registry
	hub    *Hub
	replay int

	// mu serializes mutation plus fan-out, so every recipient sees events
	// in registry append order.
	mu sync.Mutex

	log *log.Logger
}

func NewDispatcher(reg *Registry, hub *Hub, replay int) *Dispatcher {
	d := &Dispatcher{
		reg:    reg,
		hub:    hub,
		replay: replay,
		log:    log.NewLogger(),
	}
	d.log.Fields["entity"] = "dispatcher"
	return d
}

// Dispatch handles one inbound frame. A request the session may not issue
// is answered with an Error event to that session only; no other session is
// affected. The returned error is non-nil only when the session is done.
func (d *Dispatcher) Dispatch(s *Session, f *proto.Frame) error {
	d.log.DebugLazy(func() string {
		return "Dispatch " + proto.OpCodeName(f.OpCode) + " from " + s.Key()
	})
	switch f.OpCode {
	case proto.OP_JOIN:
		req := &proto.JoinRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.join(s, d.reg.PublicID(), req.Username, true)
	case proto.OP_GROUP_JOIN:
		req := &proto.GroupJoinRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.join(s, req.GroupID, req.Username, false)
	case proto.OP_POST:
		req := &proto.PostRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.post(s, d.reg.PublicID(), req.Subject, req.Body, true)
	case proto.OP_GROUP_POST:
		req := &proto.GroupPostRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.post(s, req.GroupID, req.Subject, req.Body, false)
	case proto.OP_USERS:
		d.users(s, d.reg.PublicID(), true)
	case proto.OP_GROUP_USERS:
		req := &proto.GroupUsersRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.users(s, req.GroupID, false)
	case proto.OP_LEAVE:
		d.leave(s, d.reg.PublicID(), true)
	case proto.OP_GROUP_LEAVE:
		req := &proto.GroupLeaveRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.leave(s, req.GroupID, false)
	case proto.OP_MESSAGE:
		req := &proto.MessageRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.message(s, d.reg.PublicID(), req.PostID)
	case proto.OP_GROUP_MESSAGE:
		req := &proto.GroupMessageRequest{}
		if err := req.Unmarshal(f.Payload); err != nil {
			s.PushError("Malformed request.")
			return nil
		}
		d.message(s, req.GroupID, req.PostID)
	case proto.OP_GROUPS:
		d.groups(s)
	case proto.OP_EXIT:
		d.Disconnect(s)
		return ErrSessionClosed
	default:
		s.PushError("Unknown opcode.")
	}
	return nil
}

// broadcast pushes the event to every current member of the group. Callers
// hold d.mu; session queues are non-blocking, so holding the lock across
// delivery is what guarantees per-recipient ordering.
func (d *Dispatcher) broadcast(groupID string, u proto.ProtocolUnit) {
	f, err := proto.MarshalFrame(u)
	if err != nil {
		d.log.Error("Broadcast marshal failure: " + err.Error())
		return
	}
	keys, err := d.reg.MemberKeys(groupID)
	if err != nil {
		return
	}
	for _, key := range keys {
		if s := d.hub.Route(key); s != nil {
			s.Push(f)
		}
	}
}

func (d *Dispatcher) join(s *Session, groupID, username string, public bool) {
	d.mu.Lock()
	_, err := d.reg.Join(groupID, s.Key(), username)
	if err != nil {
		d.mu.Unlock()
		s.PushError(err.Error())
		return
	}
	s.SetUsername(username)
	info, _ := d.reg.Get(groupID)
	if public {
		d.broadcast(groupID, &proto.JoinEvent{Username: username})
	} else {
		d.broadcast(groupID, &proto.GroupJoinEvent{
			Username:  username,
			GroupID:   info.ID,
			GroupName: info.Name,
		})
	}
	// History replay goes to the joining session only, still under the
	// lock so a concurrent post cannot outrun it.
	if d.replay > 0 {
		posts, _ := d.reg.Messages(groupID, d.replay)
		for idx := range posts {
			s.PushUnit(postEvent(&posts[idx], info, public))
		}
	}
	d.mu.Unlock()
}

func (d *Dispatcher) leave(s *Session, groupID string, public bool) {
	d.mu.Lock()
	username, err := d.reg.Leave(groupID, s.Key())
	if err != nil {
		d.mu.Unlock()
		s.PushError(err.Error())
		return
	}
	info, _ := d.reg.Get(groupID)
	var unit proto.ProtocolUnit
	if public {
		unit = &proto.LeaveEvent{Username: username}
	} else {
		unit = &proto.GroupLeaveEvent{
			Username:  username,
			GroupID:   info.ID,
			GroupName: info.Name,
		}
	}
	d.broadcast(groupID, unit)
	// The leaver is no longer in the member set; confirm to it directly.
	s.PushUnit(unit)
	d.mu.Unlock()
}

func (d *Dispatcher) post(s *Session, groupID, subject, body string, public bool) {
	d.mu.Lock()
	p, err := d.reg.Post(groupID, s.Key(), subject, body)
	if err != nil {
		d.mu.Unlock()
		s.PushError(err.Error())
		return
	}
	info, _ := d.reg.Get(groupID)
	d.broadcast(groupID, postEvent(&p, info, public))
	d.mu.Unlock()
}

func (d *Dispatcher) users(s *Session, groupID string, public bool) {
	info, err := d.reg.Get(groupID)
	if err != nil {
		s.PushError(err.Error())
		return
	}
	if !d.reg.IsMember(groupID, s.Key()) {
		s.PushError(ErrNotMember.Error())
		return
	}
	names, err := d.reg.Users(groupID)
	if err != nil {
		s.PushError(err.Error())
		return
	}
	if public {
		s.PushUnit(&proto.UsersEvent{Usernames: names})
	} else {
		s.PushUnit(&proto.GroupUsersEvent{
			Usernames: names,
			GroupID:   info.ID,
			GroupName: info.Name,
		})
	}
}

func (d *Dispatcher) message(s *Session, groupID, postID string) {
	if _, err := d.reg.Get(groupID); err != nil {
		s.PushError(err.Error())
		return
	}
	if !d.reg.IsMember(groupID, s.Key()) {
		s.PushError(ErrNotMember.Error())
		return
	}
	seq, err := strconv.Atoi(postID)
	if err != nil {
		s.PushError(ErrPostNotFound.Error())
		return
	}
	p, err := d.reg.GetPost(groupID, seq)
	if err != nil {
		s.PushError(err.Error())
		return
	}
	s.PushUnit(&proto.MessageEvent{Body: p.Body})
}

func (d *Dispatcher) groups(s *Session) {
	infos := d.reg.Groups()
	entries := make([]proto.GroupEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, proto.GroupEntry{ID: info.ID, Name: info.Name})
	}
	s.PushUnit(&proto.GroupsEvent{Groups: entries})
}

// Disconnect runs the registry cleanup for a session leaving for any
// reason: client Exit, transport failure or server shutdown. Every group
// the session was a member of is notified before the worker exits.
func (d *Dispatcher) Disconnect(s *Session) {
	d.mu.Lock()
	departures := d.reg.LeaveAll(s.Key())
	for _, dep := range departures {
		var unit proto.ProtocolUnit
		if dep.IsPublic {
			unit = &proto.LeaveEvent{Username: dep.Username}
		} else {
			unit = &proto.GroupLeaveEvent{
				Username:  dep.Username,
				GroupID:   dep.GroupID,
				GroupName: dep.GroupName,
			}
		}
		d.broadcast(dep.GroupID, unit)
	}
	d.mu.Unlock()
	d.hub.Remove(s.Key())
	s.Close()
}

func postEvent(p *Post, info GroupInfo, public bool) proto.ProtocolUnit {
	if public {
		return &proto.PostEvent{
			PostID:  strconv.Itoa(p.ID),
			Sender:  p.Sender,
			Date:    p.Date.Format(postDateLayout),
			Subject: p.Subject,
		}
	}
	return &proto.GroupPostEvent{
		PostID:    strconv.Itoa(p.ID),
		Sender:    p.Sender,
		Date:      p.Date.Format(postDateLayout),
		Subject:   p.Subject,
		GroupID:   info.ID,
		GroupName: info.Name,
	}
}
