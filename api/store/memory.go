/* memory.go
 * Contains an in-process session store for local development and tests. Records do not survive a restart
 * Authors: AIRO Web Team
 */

package store

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// Ensure MemoryStore implements Interface
var _ Interface = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Load(ctx context.Context, sid string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[sid]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(record), nil
}

func (m *MemoryStore) Save(ctx context.Context, sid string, record Record) error {
	record.UpdatedAt = time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sid] = cloneRecord(record)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, sid string, token string, record Record) error {
	record.UpdatedAt = time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.records[sid]
	if !ok || current.Token != token {
		return ErrNotFound
	}
	m.records[sid] = cloneRecord(record)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sid)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Len returns the number of stored sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// cloneRecord copies the pointer fields so callers can't mutate stored state
func cloneRecord(r Record) Record {
	if r.User != nil {
		u := *r.User
		r.User = &u
	}
	if r.PendingGender != nil {
		p := *r.PendingGender
		r.PendingGender = &p
	}
	return r
}
