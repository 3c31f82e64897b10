// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store owns the live sessions. Sessions idle for longer than the idle
// timeout are closed by Sweep.
type Store struct {
	cfg  Config
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty store. idle <= 0 disables expiry.
func NewStore(cfg Config, idle time.Duration) *Store {
	return &Store{
		cfg:      cfg,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Config returns the configuration new sessions are created with.
func (st *Store) Config() Config { return st.cfg }

// Create starts a new Idle session.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.cfg, st.now())
	st.mu.Lock()
	st.sessions[s.id] = s
	st.mu.Unlock()
	slog.Info("session created", "session_id", s.id)
	return s
}

// Get returns the session and marks it used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(st.now())
	return s, nil
}

// Close closes and forgets the session.
func (st *Store) Close(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep closes sessions idle past the timeout and returns how many it closed.
func (st *Store) Sweep() int {
	if st.idle <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.idle)

	var expired []*Session
	st.mu.Lock()
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Close()
		slog.Info("session expired", "session_id", s.id)
	}
	return len(expired)
}

// CloseAll closes every session, for shutdown.
func (st *Store) CloseAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("idle sessions swept", "count", n)
			}
		}
	}
}
