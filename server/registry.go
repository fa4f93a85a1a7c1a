package server

import (
	"sync"
	"time"

	"github.com/corkboard-im/corkboard/log"
)

// Registry is the single owner of all group and post state. Every mutation
// goes through its API under one lock; dispatch and session code hold group
// ids only and never touch member sets or logs directly.
type Registry struct {
	mu       sync.Mutex
	groups   map[string]*group
	order    []string
	publicID string
	log      *log.Logger
}

func NewRegistry(publicID, publicName string) *Registry {
	r := &Registry{
		groups:   make(map[string]*group),
		publicID: publicID,
		log:      log.NewLogger(),
	}
	r.log.Fields["entity"] = "registry"
	r.createOrGet(publicID, publicName)
	return r
}

func (r *Registry) PublicID() string {
	return r.publicID
}

// createOrGet creates a group on first reference. Callers hold r.mu, except
// during construction.
func (r *Registry) createOrGet(id, name string) *group {
	g, ok := r.groups[id]
	if ok {
		return g
	}
	g = &group{id: id, name: name}
	r.groups[id] = g
	r.order = append(r.order, id)
	return g
}

// CreateOrGet creates a group on first reference, idempotent thereafter.
func (r *Registry) CreateOrGet(id, name string) GroupInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createOrGet(id, name).info()
}

func (r *Registry) Get(id string) (GroupInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return GroupInfo{}, ErrGroupNotFound
	}
	return g.info(), nil
}

// Join adds the session to the group, creating an unseen group on first
// join. It returns the updated member list for broadcast.
func (r *Registry) Join(id, key, username string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		g = r.createOrGet(id, id)
	}
	if g.memberIndex(key) >= 0 {
		return nil, ErrAlreadyMember
	}
	g.members = append(g.members, member{key: key, username: username})
	r.log.Infof2("Session %v joined group %v as %v.", key, id, username)
	return g.usernames(), nil
}

// Leave removes the session's membership. Groups are retained when they
// empty out so their logs stay addressable; only the process end discards
// them.
func (r *Registry) Leave(id, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return "", ErrGroupNotFound
	}
	idx := g.memberIndex(key)
	if idx < 0 {
		return "", ErrNotMember
	}
	username := g.members[idx].username
	g.members = append(g.members[:idx], g.members[idx+1:]...)
	r.log.Infof2("Session %v left group %v.", key, id)
	return username, nil
}

// Departure records one membership removed by LeaveAll.
type Departure struct {
	GroupID   string
	GroupName string
	Username  string
	IsPublic  bool
}

// LeaveAll removes the session from every group it is a member of, for
// disconnect cleanup. Departures come back in group creation order.
func (r *Registry) LeaveAll(key string) []Departure {
	r.mu.Lock()
	defer r.mu.Unlock()
	var departures []Departure
	for _, id := range r.order {
		g := r.groups[id]
		idx := g.memberIndex(key)
		if idx < 0 {
			continue
		}
		departures = append(departures, Departure{
			GroupID:   g.id,
			GroupName: g.name,
			Username:  g.members[idx].username,
			IsPublic:  g.id == r.publicID,
		})
		g.members = append(g.members[:idx], g.members[idx+1:]...)
	}
	return departures
}

// Post appends to the group log and assigns the next sequence id for that
// group. The sender is resolved from the session's membership.
func (r *Registry) Post(id, key, subject, body string) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return Post{}, ErrGroupNotFound
	}
	idx := g.memberIndex(key)
	if idx < 0 {
		return Post{}, ErrNotMember
	}
	p := Post{
		ID:      len(g.log) + 1,
		Sender:  g.members[idx].username,
		Subject: subject,
		Body:    body,
		Date:    time.Now(),
	}
	g.log = append(g.log, p)
	return p, nil
}

func (r *Registry) IsMember(id, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return false
	}
	return g.memberIndex(key) >= 0
}

// Users returns member usernames in join order.
func (r *Registry) Users(id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g.usernames(), nil
}

// MemberKeys returns member session keys in join order, for fan-out.
func (r *Registry) MemberKeys(id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return g.memberKeys(), nil
}

// Groups returns all groups in creation order.
func (r *Registry) Groups() []GroupInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	infos := make([]GroupInfo, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, r.groups[id].info())
	}
	return infos
}

// Messages returns the last n posts in chronological order. n is clamped to
// the log length; n <= 0 yields an empty slice.
func (r *Registry) Messages(id string, n int) ([]Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	if n < 0 {
		n = 0
	}
	if n > len(g.log) {
		n = len(g.log)
	}
	posts := make([]Post, n)
	copy(posts, g.log[len(g.log)-n:])
	return posts, nil
}

// GetPost looks a post up by its group-scoped sequence id.
func (r *Registry) GetPost(id string, postID int) (Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return Post{}, ErrGroupNotFound
	}
	if postID < 1 || postID > len(g.log) {
		return Post{}, ErrPostNotFound
	}
	return g.log[postID-1], nil
}
