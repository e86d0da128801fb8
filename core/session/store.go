package session

import (
	"encoding/json"
	"sync"

	"github.com/sisyaclass/analytics-console/core"
)

// StorageKey is the fixed key the serialized session is stored under.
const StorageKey = "auth-storage"

// snapshotVersion is bumped whenever the persisted schema changes;
// snapshots with an unknown version are discarded on restore.
const snapshotVersion = 1

type snapshot struct {
	Version int     `json:"version"`
	Session Session `json:"session"`
}

// StateStore persists serialized session state across restarts of a single
// console session. Implementations live in storage/state.
type StateStore interface {
	LoadState(key string) ([]byte, error) // nil, nil when absent
	SaveState(key string, data []byte) error
	ClearState(key string) error
}

// Store is the single shared mutable cell holding the authenticated session.
// All mutations notify subscribers synchronously before returning.
type Store struct {
	mu    sync.RWMutex
	state Session
	subs  map[int]func(Session)
	next  int

	states StateStore // optional
	logger core.Logger
}

// NewStore returns a Store restored from states, or a logged-out Store when
// states is nil or holds no (or a corrupt) snapshot.
func NewStore(states StateStore, logger core.Logger) *Store {
	s := &Store{
		subs:   make(map[int]func(Session)),
		states: states,
		logger: logger,
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	if s.states == nil {
		return
	}
	data, err := s.states.LoadState(StorageKey)
	if err != nil {
		s.warn("session: loading snapshot", err)
		return
	}
	if data == nil {
		return
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Version != snapshotVersion {
		return // corrupt or unknown schema; default to logged out
	}
	snap.Session.Authenticated = snap.Session.Token != ""
	s.state = snap.Session
}

// Login unconditionally overwrites the current session state.
// Token format is not checked locally; trust is delegated to the upstream
// and its 401 responses.
func (s *Store) Login(token, role string, user Identity, perms PermissionFlags) {
	s.mutate(Session{
		Token:         token,
		Role:          role,
		User:          user,
		Permissions:   perms,
		Authenticated: token != "",
	})
}

// Logout clears the session. Idempotent.
func (s *Store) Logout() {
	s.mutate(Session{})
}

func (s *Store) mutate(next Session) {
	s.mu.Lock()
	s.state = next
	subs := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.persist(next)
	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) persist(state Session) {
	if s.states == nil {
		return
	}
	var err error
	if state.Authenticated {
		var data []byte
		if data, err = json.Marshal(snapshot{Version: snapshotVersion, Session: state}); err == nil {
			err = s.states.SaveState(StorageKey, data)
		}
	} else {
		err = s.states.ClearState(StorageKey)
	}
	if err != nil {
		s.warn("session: persisting snapshot", err)
	}
}

func (s *Store) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

// State returns a copy of the current session.
func (s *Store) State() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called synchronously on every state change.
// The returned func unsubscribes it.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
