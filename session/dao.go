package session

import (
	"context"
	"fmt"
	"sync"
)

// DAO is the durable storage contract for session records.
type DAO interface {
	// Create stores a brand new record under its id.
	Create(ctx context.Context, record *Record) error

	// Read returns the record for id, failing with ErrUnknownSession
	// when absent.
	Read(ctx context.Context, id string) (*Record, error)

	// Update persists a mutated record.
	Update(ctx context.Context, record *Record) error

	// Delete removes the record for id. Deleting an absent id is not
	// an error.
	Delete(ctx context.Context, id string) error

	// ActiveSessions returns every stored record still valid.
	ActiveSessions(ctx context.Context) ([]*Record, error)
}

// MemoryDAO keeps records in process memory, for tests and single
// process deployments.
type MemoryDAO struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryDAO builds an empty in-memory DAO.
func NewMemoryDAO() *MemoryDAO {
	return &MemoryDAO{records: make(map[string]*Record)}
}

func (d *MemoryDAO) Create(_ context.Context, record *Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.records[record.ID()]; exists {
		return fmt.Errorf("session %q already exists", record.ID())
	}
	d.records[record.ID()] = record
	return nil
}

func (d *MemoryDAO) Read(_ context.Context, id string) (*Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	record, ok := d.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %q", ErrUnknownSession, id)
	}
	return record, nil
}

func (d *MemoryDAO) Update(_ context.Context, record *Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.records[record.ID()]; !ok {
		return fmt.Errorf("%w: id %q", ErrUnknownSession, record.ID())
	}
	d.records[record.ID()] = record
	return nil
}

func (d *MemoryDAO) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.records, id)
	return nil
}

func (d *MemoryDAO) ActiveSessions(_ context.Context) ([]*Record, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var active []*Record
	for _, record := range d.records {
		if record.Valid() {
			active = append(active, record)
		}
	}
	return active, nil
}
