package main

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/heartcheck/internal/assessment"
)

const sessionCookie = "heartcheck_session"

// session pairs a workflow with the lock that serializes its transitions.
type session struct {
	mu       sync.Mutex
	workflow *assessment.Workflow
	lastSeen time.Time
}

// sessionStore keeps one isolated workflow per browser session in memory. Idle
// sessions are dropped after ttl; nothing is persisted.
type sessionStore struct {
	mu          sync.Mutex
	ttl         time.Duration
	sessions    map[string]*session
	lastSweep   time.Time
	newWorkflow func() *assessment.Workflow
	now         func() time.Time
}

func newSessionStore(ttl time.Duration, newWorkflow func() *assessment.Workflow) *sessionStore {
	return &sessionStore{
		ttl:         ttl,
		sessions:    make(map[string]*session),
		newWorkflow: newWorkflow,
		now:         time.Now,
	}
}

// lookup returns the live session for id. Expired sessions are treated as absent.
func (s *sessionStore) lookup(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if now.Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// start registers a new session with a fresh workflow.
func (s *sessionStore) start() (string, *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	id := uuid.NewString()
	sess := &session{workflow: s.newWorkflow(), lastSeen: now}
	s.sessions[id] = sess
	return id, sess
}

// sweepLocked drops idle sessions, at most once per ttl.
func (s *sessionStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
