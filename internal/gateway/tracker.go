package gateway

import (
	"sync"
	"time"

	"github.com/lsta/pai/internal/connection"
)

// Tracker 登记当前会话，供 API 与健康检查读取
// 断开后保留最后一个会话，快照仍可查询
type Tracker struct {
	mu       sync.RWMutex
	session  *Session
	breaker  *connection.Breaker
	active   bool
	since    time.Time
	sessions int
}

func NewTracker() *Tracker { return &Tracker{} }

// Set 登记新会话
func (t *Tracker) Set(s *Session, b *connection.Breaker) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = s
	t.breaker = b
	t.active = true
	t.since = time.Now()
	t.sessions++
}

// Release 会话结束；只处理仍是当前会话的情况
func (t *Tracker) Release(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == s {
		t.active = false
		t.breaker = nil
	}
}

// Current 当前会话，没有时返回 nil
func (t *Tracker) Current() *Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.session
}

// Snapshot 最近一个会话的快照
func (t *Tracker) Snapshot() (Snapshot, bool) {
	t.mu.RLock()
	s, active := t.session, t.active
	t.mu.RUnlock()
	if s == nil {
		return Snapshot{}, false
	}
	snap := s.Snapshot()
	snap.Connected = snap.Connected && active
	return snap, true
}

// Connected 当前会话已握手
func (t *Tracker) Connected() bool {
	t.mu.RLock()
	s, active := t.session, t.active
	t.mu.RUnlock()
	return active && s != nil && s.Connected()
}

// Breaker 当前链路熔断器，没有时返回 nil
func (t *Tracker) Breaker() *connection.Breaker {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.breaker
}

// Sessions 累计建立的会话数
func (t *Tracker) Sessions() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessions
}
