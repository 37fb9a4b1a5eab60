// Package runtime hosts the shared connection state of the room: the
// session registry, the live message store, the fan-out bus, and the
// per-connection coordinator that ties them to a transport.
package runtime

import (
	"sync"

	"chat-room/contract"
	"chat-room/errors"
)

// Session is the server-side state of one connected client.
// DisplayName never changes for the lifetime of the session; Outbound is
// the session's private delivery path.
type Session struct {
	ID          string
	DisplayName string
	Outbound    contract.EventSink
}

// Registry tracks every currently connected client. Delivery never
// iterates the registry; the fan-out bus owns that path, so no lock is
// ever held while writing to a client transport.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Session)}
}

// Register inserts a new session. A colliding session id should be
// unreachable given the generation scheme, but it is a defined error so a
// duplicate fails closed instead of silently replacing a live session.
func (r *Registry) Register(sessionID, displayName string, outbound contract.EventSink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; ok {
		return errors.ErrDuplicateSession
	}
	r.sessions[sessionID] = Session{ID: sessionID, DisplayName: displayName, Outbound: outbound}
	return nil
}

// DisplayName resolves the name registered for a session.
// Used for disconnect diagnostics only.
func (r *Registry) DisplayName(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	return session.DisplayName, ok
}

// Unregister removes a session. Removing an absent id is a no-op, which
// makes double-disconnect races harmless.
func (r *Registry) Unregister(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
}

// Count reports the number of live sessions, for diagnostics.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}
