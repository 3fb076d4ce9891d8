package capture

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory capture store for tests and one-shot CLI runs.
// Data is lost when the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]map[string]storedCapture // sessionID -> name -> capture
	sessions []string
	closed   bool
}

type storedCapture struct {
	typeName  string
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]storedCapture),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(sessionID, name, typeName string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	session := m.data[sessionID]
	if session == nil {
		session = make(map[string]storedCapture)
		m.data[sessionID] = session
		m.sessions = append(m.sessions, sessionID)
	}

	seq := 1
	for _, c := range session {
		if c.sequence >= seq {
			seq = c.sequence + 1
		}
	}

	session[name] = storedCapture{
		typeName:  typeName,
		data:      slices.Clone(data),
		sequence:  seq,
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(sessionID, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	c, ok := m.data[sessionID][name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(c.data), nil
}

// List implements Store.
func (m *MemoryStore) List(sessionID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	session, ok := m.data[sessionID]
	if !ok {
		return nil, nil
	}

	infos := make([]Info, 0, len(session))
	for name, c := range session {
		infos = append(infos, Info{
			SessionID: sessionID,
			Name:      name,
			TypeName:  c.typeName,
			Sequence:  c.sequence,
			Timestamp: c.timestamp,
			Size:      int64(len(c.data)),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Sequence < infos[j].Sequence
	})
	return infos, nil
}

// Sessions implements Store.
func (m *MemoryStore) Sessions() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}
	return slices.Clone(m.sessions), nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(sessionID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if session, ok := m.data[sessionID]; ok {
		delete(session, name)
		if len(session) == 0 {
			m.dropSession(sessionID)
		}
	}
	return nil
}

// DeleteSession implements Store.
func (m *MemoryStore) DeleteSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.dropSession(sessionID)
	return nil
}

func (m *MemoryStore) dropSession(sessionID string) {
	delete(m.data, sessionID)
	m.sessions = slices.DeleteFunc(m.sessions, func(s string) bool { return s == sessionID })
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	m.sessions = nil
	return nil
}

// Len returns the number of captures across all sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, session := range m.data {
		count += len(session)
	}
	return count
}
