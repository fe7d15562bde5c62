package domain

import "github.com/google/uuid"

type SessionID string

// NewSessionID is a tiny helper to avoid ad-hoc uuid calls in adapters.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// SessionEndpoint is the resolved (host, port) pair used to reach the
// engine's signaling/media backend. Port may be negative; the resolver
// passes whatever arithmetic produced through to the engine unchecked.
type SessionEndpoint struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}
