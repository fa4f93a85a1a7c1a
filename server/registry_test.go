package server

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return NewRegistry(DEFAULT_PUBLIC_GROUP_ID, DEFAULT_PUBLIC_GROUP_NAME)
}

func TestRegistryPublicGroupExists(t *testing.T) {
	reg := newTestRegistry()
	info, err := reg.Get(reg.PublicID())
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_PUBLIC_GROUP_ID, info.ID)
	assert.Equal(t, DEFAULT_PUBLIC_GROUP_NAME, info.Name)
}

func TestRegistryJoinOrder(t *testing.T) {
	reg := newTestRegistry()
	for i, name := range []string{"alice", "bob", "carol"} {
		users, err := reg.Join(reg.PublicID(), "k"+strconv.Itoa(i), name)
		require.NoError(t, err)
		assert.Equal(t, i+1, len(users))
	}
	users, err := reg.Users(reg.PublicID())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, users)
}

func TestRegistryJoinTwice(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	_, err = reg.Join(reg.PublicID(), "k1", "alice")
	assert.Equal(t, ErrAlreadyMember, err)
}

func TestRegistryJoinCreatesGroup(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join("hiking", "k1", "alice")
	require.NoError(t, err)
	info, err := reg.Get("hiking")
	require.NoError(t, err)
	assert.Equal(t, "hiking", info.ID)
	assert.Equal(t, "hiking", info.Name)
}

func TestRegistryDuplicateUsernames(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	_, err = reg.Join(reg.PublicID(), "k2", "alice")
	require.NoError(t, err)
	users, err := reg.Users(reg.PublicID())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "alice"}, users)
}

func TestRegistryLeave(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	username, err := reg.Leave(reg.PublicID(), "k1")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = reg.Leave(reg.PublicID(), "k1")
	assert.Equal(t, ErrNotMember, err)
	_, err = reg.Leave("missing", "k1")
	assert.Equal(t, ErrGroupNotFound, err)
}

func TestRegistryEmptyGroupRetained(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join("hiking", "k1", "alice")
	require.NoError(t, err)
	_, err = reg.Post("hiking", "k1", "trailhead", "meet at nine")
	require.NoError(t, err)
	_, err = reg.Leave("hiking", "k1")
	require.NoError(t, err)

	posts, err := reg.Messages("hiking", 10)
	require.NoError(t, err)
	require.Equal(t, 1, len(posts))
	assert.Equal(t, "trailhead", posts[0].Subject)
}

func TestRegistryLeaveAll(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	_, err = reg.Join("hiking", "k1", "alice")
	require.NoError(t, err)
	_, err = reg.Join("hiking", "k2", "bob")
	require.NoError(t, err)

	departures := reg.LeaveAll("k1")
	require.Equal(t, 2, len(departures))
	assert.Equal(t, reg.PublicID(), departures[0].GroupID)
	assert.True(t, departures[0].IsPublic)
	assert.Equal(t, "hiking", departures[1].GroupID)
	assert.False(t, departures[1].IsPublic)

	users, err := reg.Users("hiking")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, users)
	assert.Empty(t, reg.LeaveAll("k1"))
}

func TestRegistryPostSequence(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	for i := 1; i <= 3; i++ {
		p, err := reg.Post(reg.PublicID(), "k1", "s"+strconv.Itoa(i), "b")
		require.NoError(t, err)
		assert.Equal(t, i, p.ID)
		assert.Equal(t, "alice", p.Sender)
	}
}

func TestRegistryPostRequiresMembership(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Post(reg.PublicID(), "k1", "s", "b")
	assert.Equal(t, ErrNotMember, err)
	_, err = reg.Post("missing", "k1", "s", "b")
	assert.Equal(t, ErrGroupNotFound, err)
}

func TestRegistryPostIDsScopedPerGroup(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	_, err = reg.Join("hiking", "k1", "alice")
	require.NoError(t, err)

	p, err := reg.Post(reg.PublicID(), "k1", "s", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	p, err = reg.Post("hiking", "k1", "s", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
}

func TestRegistryConcurrentPosts(t *testing.T) {
	reg := newTestRegistry()
	workers, each := 8, 50
	for i := 0; i < workers; i++ {
		_, err := reg.Join(reg.PublicID(), "k"+strconv.Itoa(i), "u"+strconv.Itoa(i))
		require.NoError(t, err)
	}
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			for j := 0; j < each; j++ {
				_, err := reg.Post(reg.PublicID(), key, "s", "b")
				assert.NoError(t, err)
			}
		}("k" + strconv.Itoa(i))
	}
	wg.Wait()

	posts, err := reg.Messages(reg.PublicID(), workers*each)
	require.NoError(t, err)
	require.Equal(t, workers*each, len(posts))
	for i, p := range posts {
		assert.Equal(t, i+1, p.ID)
	}
}

func TestRegistryConcurrentJoinLeave(t *testing.T) {
	reg := newTestRegistry()
	workers := 16
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := reg.Join("hiking", key, "u")
				assert.NoError(t, err)
				_, err = reg.Leave("hiking", key)
				assert.NoError(t, err)
			}
		}("k" + strconv.Itoa(i))
	}
	wg.Wait()
	users, err := reg.Users("hiking")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRegistryMessagesClamp(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = reg.Post(reg.PublicID(), "k1", "s"+strconv.Itoa(i), "b")
		require.NoError(t, err)
	}

	posts, err := reg.Messages(reg.PublicID(), 2)
	require.NoError(t, err)
	require.Equal(t, 2, len(posts))
	assert.Equal(t, 4, posts[0].ID)
	assert.Equal(t, 5, posts[1].ID)

	posts, err = reg.Messages(reg.PublicID(), 100)
	require.NoError(t, err)
	assert.Equal(t, 5, len(posts))

	posts, err = reg.Messages(reg.PublicID(), 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestRegistryGetPost(t *testing.T) {
	reg := newTestRegistry()
	_, err := reg.Join(reg.PublicID(), "k1", "alice")
	require.NoError(t, err)
	want, err := reg.Post(reg.PublicID(), "k1", "subject", "body text")
	require.NoError(t, err)

	got, err := reg.GetPost(reg.PublicID(), 1)
	require.NoError(t, err)
	assert.Equal(t, want.Body, got.Body)

	_, err = reg.GetPost(reg.PublicID(), 0)
	assert.Equal(t, ErrPostNotFound, err)
	_, err = reg.GetPost(reg.PublicID(), 2)
	assert.Equal(t, ErrPostNotFound, err)
	_, err = reg.GetPost("missing", 1)
	assert.Equal(t, ErrGroupNotFound, err)
}

func TestRegistryGroupsOrder(t *testing.T) {
	reg := newTestRegistry()
	reg.CreateOrGet("g1", "Group one")
	reg.CreateOrGet("g2", "Group two")
	reg.CreateOrGet("g1", "renamed")

	infos := reg.Groups()
	require.Equal(t, 3, len(infos))
	assert.Equal(t, reg.PublicID(), infos[0].ID)
	assert.Equal(t, GroupInfo{ID: "g1", Name: "Group one"}, infos[1])
	assert.Equal(t, GroupInfo{ID: "g2", Name: "Group two"}, infos[2])
}
