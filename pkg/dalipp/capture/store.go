// Package capture persists snapshot values so they can be replayed through
// the printers after the debugged process is gone.
package capture

import (
	"errors"
	"time"
)

// Store persists captured values grouped by session.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a captured value under (sessionID, name).
	// Overwrites an existing capture and moves it to the end of the session.
	Save(sessionID, name, typeName string, data []byte) error

	// Load retrieves a capture.
	// Returns ErrNotFound if it doesn't exist.
	Load(sessionID, name string) ([]byte, error)

	// List returns the captures of a session, ordered by sequence.
	// Returns an empty slice (not error) for an unknown session.
	List(sessionID string) ([]Info, error)

	// Sessions returns every session ID, oldest first.
	Sessions() ([]string, error)

	// Delete removes a capture. Returns nil if it doesn't exist.
	Delete(sessionID, name string) error

	// DeleteSession removes every capture of a session.
	DeleteSession(sessionID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a capture without loading its data.
type Info struct {
	SessionID string
	Name      string
	TypeName  string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for capture operations.
var (
	// ErrNotFound indicates a capture doesn't exist.
	ErrNotFound = errors.New("capture not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("capture store closed")
)
