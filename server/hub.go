package server

import (
	"sync"
	"sync/atomic"
)

// Hub tracks live sessions by connection key.
type Hub struct {
	keyConn   sync.Map
	connCount int32
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) Register(s *Session) {
	h.keyConn.Store(s.Key(), s)
	atomic.AddInt32(&h.connCount, 1)
}

func (h *Hub) Remove(key string) {
	if _, ok := h.keyConn.Load(key); !ok {
		return
	}
	h.keyConn.Delete(key)
	atomic.AddInt32(&h.connCount, -1)
}

// Route returns the session related to key, nil when unknown.
func (h *Hub) Route(key string) *Session {
	raw, ok := h.keyConn.Load(key)
	if !ok {
		return nil
	}
	s, ok := raw.(*Session)
	if !ok {
		return nil
	}
	return s
}

func (h *Hub) Visit(fn func(key string, s *Session) bool) {
	h.keyConn.Range(func(k, v interface{}) bool {
		key, ok := k.(string)
		if !ok {
			h.keyConn.Delete(k)
			return true
		}
		s, ok := v.(*Session)
		if !ok || s == nil {
			h.keyConn.Delete(k)
			return true
		}
		return fn(key, s)
	})
}

// Count returns the live session count.
func (h *Hub) Count() uint32 {
	cnt := atomic.LoadInt32(&h.connCount)
	if cnt < 0 {
		return 0
	}
	return uint32(cnt)
}
