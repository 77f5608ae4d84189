package projects

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store with the same observable behaviour as
// the SQLite store. It backs tests and storeless local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
	feed    *feed
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		feed:    newFeed(),
	}
}

func (m *MemoryStore) Subscribe(fn func([]Record)) func() {
	unsubscribe := m.feed.subscribe(fn)
	fn(m.snapshot())
	return unsubscribe
}

func (m *MemoryStore) Create(_ context.Context, rec Record) (string, error) {
	handle := uuid.NewString()
	now := timestamp()

	m.mu.Lock()
	rec.Handle = handle
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.records[handle] = rec
	m.mu.Unlock()

	m.notify()
	return handle, nil
}

func (m *MemoryStore) Update(_ context.Context, handle string, rec Record) error {
	m.mu.Lock()
	current, ok := m.records[handle]
	if ok {
		rec.Handle = handle
		rec.CreatedAt = current.CreatedAt
		rec.UpdatedAt = timestamp()
		m.records[handle] = rec
	}
	m.mu.Unlock()

	// A vanished handle is not an error; the write is simply lost.
	m.notify()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, handle string) error {
	m.mu.Lock()
	delete(m.records, handle)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]Record, error) {
	return m.snapshot(), nil
}

func (m *MemoryStore) snapshot() []Record {
	m.mu.RLock()
	records := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec)
	}
	m.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].DisplayID != records[j].DisplayID {
			return records[i].DisplayID > records[j].DisplayID
		}
		return records[i].Handle < records[j].Handle
	})
	return records
}

func (m *MemoryStore) notify() {
	m.feed.publish(m.snapshot())
}

func timestamp() string {
	return time.Now().UTC().Format("2006-01-02 15:04:05")
}
