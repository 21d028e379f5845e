package memshop

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/pkg/storectx"
)

// Session store limits used when no option overrides them.
const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Sessions keeps one storectx.MemorySession per visitor id. Sessions idle
// longer than the TTL are dropped, and the least recently used session is
// dropped when the store is full.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	max      int
	now      func() time.Time
	onExpire []func(id string)
}

type sessionEntry struct {
	session  *storectx.MemorySession
	lastSeen time.Time
}

// SessionOption configures a Sessions store.
type SessionOption func(*Sessions)

// WithTTL sets how long an idle session survives. Zero or less keeps the
// default.
func WithTTL(ttl time.Duration) SessionOption {
	return func(s *Sessions) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) SessionOption {
	return func(s *Sessions) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessions returns an empty session store.
func NewSessions(options ...SessionOption) *Sessions {
	s := &Sessions{
		sessions: make(map[string]*sessionEntry),
		ttl:      DefaultSessionTTL,
		max:      DefaultMaxSessions,
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// OnExpire registers fn to run with the id of every dropped session, after
// the store lock is released. Shop.Forget is the usual hook.
func (s *Sessions) OnExpire(fn func(id string)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = append(s.onExpire, fn)
}

// Open returns the session for id. An empty, unknown or expired id starts a
// new session under a freshly minted id, so visitors cannot choose their
// own. The returned id must be handed back to the visitor.
func (s *Sessions) Open(id string) (string, *storectx.MemorySession) {
	s.mu.Lock()
	now := s.now()
	expired := s.sweep(now)

	id = strings.TrimSpace(id)
	if entry, ok := s.sessions[id]; ok && id != "" {
		entry.lastSeen = now
		hooks := s.onExpire
		s.mu.Unlock()
		notify(hooks, expired)
		return id, entry.session
	}

	if len(s.sessions) >= s.max {
		if oldest := s.oldest(); oldest != "" {
			delete(s.sessions, oldest)
			expired = append(expired, oldest)
		}
	}

	id = uuid.NewString()
	entry := &sessionEntry{session: storectx.NewMemorySession(), lastSeen: now}
	s.sessions[id] = entry
	hooks := s.onExpire
	s.mu.Unlock()

	notify(hooks, expired)
	return id, entry.session
}

// Sweep drops every session idle longer than the TTL and returns how many
// were dropped.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	expired := s.sweep(s.now())
	hooks := s.onExpire
	s.mu.Unlock()

	notify(hooks, expired)
	return len(expired)
}

// Len returns the number of open sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) sweep(now time.Time) []string {
	var expired []string
	for id, entry := range s.sessions {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.sessions, id)
			expired = append(expired, id)
		}
	}
	return expired
}

func (s *Sessions) oldest() string {
	var (
		oldestID   string
		oldestSeen time.Time
	)
	for id, entry := range s.sessions {
		if oldestID == "" || entry.lastSeen.Before(oldestSeen) {
			oldestID, oldestSeen = id, entry.lastSeen
		}
	}
	return oldestID
}

func notify(hooks []func(string), ids []string) {
	for _, id := range ids {
		for _, fn := range hooks {
			fn(id)
		}
	}
}
