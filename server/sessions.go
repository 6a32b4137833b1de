package server

import (
	"sync"
	"time"

	"prompt_page_studio/composer"
	"prompt_page_studio/idgen"
	"prompt_page_studio/metrics"
)

type session struct {
	engine   *composer.Engine
	lastUsed time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	metrics  *metrics.Registry
	now      func() time.Time
}

func newStore(m *metrics.Registry) *sessionStore {
	return &sessionStore{sessions: make(map[string]*session), metrics: m, now: time.Now}
}

func (s *sessionStore) add(e *composer.Engine) (string, error) {
	id, err := idgen.GenerateWithPrefix(idgen.PrefixSession)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{engine: e, lastUsed: s.now()}
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return id, nil
}

func (s *sessionStore) get(id string) (*composer.Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastUsed = s.now()
	return sess.engine, true
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return ok
}

// sweep drops sessions idle for longer than ttl and returns how many went.
func (s *sessionStore) sweep(now time.Time, ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > ttl {
			delete(s.sessions, id)
			n++
		}
	}
	s.metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return n
}
