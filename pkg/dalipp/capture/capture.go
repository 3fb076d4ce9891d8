package capture

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/dalipp/pkg/dalipp/snapshot"
)

// Version is the current capture format version.
// Increment when making breaking changes to the Capture structure.
const Version = 1

// Capture is the persisted form of one value: the snapshot document needed
// to rebuild it and the text it rendered to when it was captured.
type Capture struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	TypeName  string    `json:"type_name"`
	Timestamp time.Time `json:"timestamp"`

	// Document holds the value and the type declarations it refers to.
	Document snapshot.Document `json:"document"`

	// Rendered is the printer output at capture time, if any.
	Rendered string `json:"rendered,omitempty"`
}

// New creates a capture of the value named name in doc.
func New(sessionID string, doc snapshot.Document, name string) (*Capture, error) {
	only, err := doc.Only(name)
	if err != nil {
		return nil, err
	}
	return &Capture{
		Version:   Version,
		SessionID: sessionID,
		Name:      name,
		TypeName:  only.Values[0].Type,
		Timestamp: time.Now().UTC(),
		Document:  only,
	}, nil
}

// WithRendered records the rendered text of the value.
func (c *Capture) WithRendered(text string) *Capture {
	c.Rendered = text
	return c
}

// Marshal serializes a capture to JSON.
func (c *Capture) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal deserializes a capture from JSON.
func Unmarshal(data []byte) (*Capture, error) {
	var c Capture
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Version > Version {
		return nil, fmt.Errorf("capture version %d is newer than supported version %d", c.Version, Version)
	}
	return &c, nil
}

// Value rebuilds the captured value.
func (c *Capture) Value() (snapshot.NamedValue, error) {
	snap, err := snapshot.Build(c.Document)
	if err != nil {
		return snapshot.NamedValue{}, fmt.Errorf("rebuild %s: %w", c.Name, err)
	}
	return snap.Values[0], nil
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() string {
	return uuid.NewString()
}
