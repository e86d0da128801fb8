package echoapi

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/analytics"
	"github.com/sisyaclass/analytics-console/core/session"
	"github.com/sisyaclass/analytics-console/services/idle"
	"github.com/sisyaclass/analytics-console/services/sisya"
)

type (
	// consoleSession bundles everything owned by one signed-in console user:
	// the session cell, the token-bound upstream client, the attendance
	// orchestrator and the inactivity monitor. All of it dies together on
	// logout, idle expiry or an upstream 401.
	consoleSession struct {
		id       string
		store    *session.Store
		upstream Upstream
		orch     *analytics.Orchestrator
		idle     *idle.Monitor
	}

	// registry tracks live console sessions by id. A session that is not in
	// the registry is logged out no matter what tokens the caller presents.
	registry struct {
		mu       sync.Mutex
		sessions map[string]*consoleSession

		conf        *core.Config
		logger      core.Logger
		newUpstream UpstreamFactory
		newStates   StateFactory
	}
)

func newRegistry(conf *core.Config, logger core.Logger, newUpstream UpstreamFactory, newStates StateFactory) *registry {
	return &registry{
		sessions:    make(map[string]*consoleSession),
		conf:        conf,
		logger:      logger,
		newUpstream: newUpstream,
		newStates:   newStates,
	}
}

// start creates a console session from a successful upstream login.
func (r *registry) start(login sisya.Login) *consoleSession {
	cs := &consoleSession{id: uuid.New().String()}

	var states session.StateStore
	if r.newStates != nil {
		states = r.newStates(cs.id)
	}
	cs.store = session.NewStore(states, r.logger)

	// the upstream client reads the token off the live session and tears the
	// whole session down on any 401
	cs.upstream = r.newUpstream(
		func() string { return cs.store.State().Token },
		func() { r.end(cs.id) },
	)
	cs.orch = analytics.NewOrchestrator(cs.upstream)
	cs.idle = idle.NewMonitor(r.conf.Server.IdleTimeoutDelta, func() { r.end(cs.id) })

	cs.store.Login(login.Token, login.Role, login.User, login.Permissions)

	r.mu.Lock()
	r.sessions[cs.id] = cs
	r.mu.Unlock()
	return cs
}

// get returns the live session for id, or nil.
func (r *registry) get(id string) *consoleSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id]
}

// end logs the session out and removes it. Idempotent.
func (r *registry) end(id string) {
	r.mu.Lock()
	cs, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	cs.idle.Stop()
	cs.store.Logout()
}
