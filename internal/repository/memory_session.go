package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/port"
)

// memorySessionStore keeps encoded sessions, so callers never share slices or maps.
type memorySessionStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySessionStore() port.SessionStore {
	return &memorySessionStore{
		data: make(map[string][]byte),
	}
}

func (m *memorySessionStore) Get(_ context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, fmt.Errorf("sessionID is empty")
	}

	m.mu.RLock()
	data, ok := m.data[sessionID]
	m.mu.RUnlock()

	if !ok {
		return domain.Session{}, fmt.Errorf("session[%s]: %w", sessionID, domain.ErrNotFound)
	}

	return decodeSession(data)
}

func (m *memorySessionStore) Save(_ context.Context, session domain.Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	data, err := json.Marshal(mapSessionToRecord(session))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	m.mu.Lock()
	m.data[session.ID] = data
	m.mu.Unlock()

	return nil
}

func (m *memorySessionStore) Delete(_ context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, fmt.Errorf("sessionID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.data[sessionID]
	delete(m.data, sessionID)

	return ok, nil
}

func decodeSession(data []byte) (domain.Session, error) {
	var r sessionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.Session{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	s, err := mapSessionRecordToDomain(r)
	if err != nil {
		return domain.Session{}, fmt.Errorf("mapSessionRecordToDomain: %w", err)
	}

	return s, nil
}
