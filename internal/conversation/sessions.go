package conversation

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session owns the context of one conversation. Lock it for the whole turn.
type Session struct {
	mu  sync.Mutex
	id  string
	ctx Context

	// guarded by Sessions.mu
	refs  int
	ended bool
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Context returns the current context. Call with the session locked.
func (s *Session) Context() Context { return s.ctx }

// Sessions is a bounded registry of live sessions. Idle sessions expire after the TTL.
// A session held between Acquire and Release is never replaced, even if the cache
// evicts it, so turns of one id always share one lock.
type Sessions struct {
	mu       sync.Mutex
	cache    *expirable.LRU[string, *Session]
	inFlight map[string]*Session
	maxTurns int
}

// NewSessions creates a registry holding at most size sessions.
func NewSessions(size int, ttl time.Duration, maxTurns int) *Sessions {
	if size <= 0 {
		size = 1000
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		cache:    expirable.NewLRU[string, *Session](size, nil, ttl),
		inFlight: make(map[string]*Session),
		maxTurns: maxTurns,
	}
}

// Acquire returns the session for id, creating an empty one when needed.
// Every Acquire must be paired with Release.
func (s *Sessions) Acquire(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.inFlight[id]
	if !ok {
		if sess, ok = s.cache.Get(id); !ok {
			sess = &Session{id: id, ctx: New(id, s.maxTurns)}
			s.cache.Add(id, sess)
		}
		s.inFlight[id] = sess
	}
	sess.refs++
	return sess
}

// Release drops the hold taken by Acquire.
func (s *Sessions) Release(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.refs--
	if sess.refs <= 0 && s.inFlight[sess.id] == sess {
		delete(s.inFlight, sess.id)
	}
}

// Commit stores the context produced by a turn and refreshes the session's expiry.
// A session ended while the turn ran stays ended. Call with the session locked.
func (s *Sessions) Commit(sess *Session, c Context) {
	sess.ctx = c

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.ended {
		return
	}
	if cur, ok := s.cache.Peek(sess.id); ok && cur != sess {
		return
	}
	s.cache.Add(sess.id, sess)
}

// Peek returns the context of a live session without creating one.
func (s *Sessions) Peek(id string) (Context, bool) {
	s.mu.Lock()
	sess, ok := s.cache.Peek(id)
	s.mu.Unlock()
	if !ok {
		return Context{}, false
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.ctx, true
}

// End drops a session. It reports whether the session existed. A turn still running
// on it finishes, but its result is not kept.
func (s *Sessions) End(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed := s.cache.Remove(id)
	if sess, ok := s.inFlight[id]; ok {
		sess.ended = true
		delete(s.inFlight, id)
		existed = true
	}
	return existed
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	return s.cache.Len()
}
