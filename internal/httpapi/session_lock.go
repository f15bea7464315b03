package httpapi

import (
	"context"
	"sync"
)

// sessionLocks serializes requests per session id; entries are dropped when idle.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	held    chan struct{}
	waiters int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock waits until the session is free or ctx is done, and returns the
// unlock func.
func (s *sessionLocks) lock(ctx context.Context, sessionID string) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{held: make(chan struct{}, 1)}
		s.locks[sessionID] = l
	}
	l.waiters++
	s.mu.Unlock()

	select {
	case l.held <- struct{}{}:
		return func() {
			<-l.held
			s.release(sessionID, l)
		}, nil
	case <-ctx.Done():
		s.release(sessionID, l)
		return nil, ctx.Err()
	}
}

func (s *sessionLocks) release(sessionID string, l *sessionLock) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.waiters--
	if l.waiters == 0 {
		delete(s.locks, sessionID)
	}
}

func (s *sessionLocks) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
