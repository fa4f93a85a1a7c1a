package server

import "time"

// Post is immutable once appended to a group log.
type Post struct {
	ID      int
	Sender  string
	Subject string
	Body    string
	Date    time.Time
}

type GroupInfo struct {
	ID   string
	Name string
}

type member struct {
	key      string
	username string
}

// group state is owned by the Registry and only touched under its lock.
type group struct {
	id      string
	name    string
	members []member
	log     []Post
}

func (g *group) info() GroupInfo {
	return GroupInfo{ID: g.id, Name: g.name}
}

func (g *group) memberIndex(key string) int {
	for idx := range g.members {
		if g.members[idx].key == key {
			return idx
		}
	}
	return -1
}

// usernames snapshots the member names in join order.
func (g *group) usernames() []string {
	names := make([]string, 0, len(g.members))
	for idx := range g.members {
		names = append(names, g.members[idx].username)
	}
	return names
}

func (g *group) memberKeys() []string {
	keys := make([]string, 0, len(g.members))
	for idx := range g.members {
		keys = append(keys, g.members[idx].key)
	}
	return keys
}
