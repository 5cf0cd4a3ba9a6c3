package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"
)

// Record is the stored state of one session. The manager assigns the
// id once at creation; after that the record moves through active,
// stopped or expired, and the terminal states are permanent. Records
// are safe for concurrent use; attribute writes are last-write-wins
// but the last-access timestamp never moves backward.
type Record struct {
	mu         sync.RWMutex
	id         string
	host       string
	started    time.Time
	lastAccess time.Time
	timeout    time.Duration
	stoppedAt  time.Time
	expired    bool
	attributes map[string]any
}

// NewRecord builds an active record. The manager stamps id, start and
// last-access before storing it.
func NewRecord(id, host string, timeout time.Duration) *Record {
	now := time.Now()
	return &Record{
		id:         id,
		host:       host,
		started:    now,
		lastAccess: now,
		timeout:    timeout,
		attributes: make(map[string]any),
	}
}

// ID returns the session id.
func (r *Record) ID() string { return r.id }

// Host returns the host the session was started from.
func (r *Record) Host() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.host
}

// StartTime returns the creation timestamp.
func (r *Record) StartTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started
}

// LastAccess returns the most recent access timestamp.
func (r *Record) LastAccess() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastAccess
}

// Timeout returns the idle timeout. Zero or less means no expiry.
func (r *Record) Timeout() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.timeout
}

// SetTimeout changes the idle timeout of a still-valid session.
func (r *Record) SetTimeout(d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateLocked(); err != nil {
		return err
	}
	r.timeout = d
	return nil
}

// Touch refreshes the last-access timestamp of a still-valid session.
func (r *Record) Touch() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateLocked(); err != nil {
		return err
	}
	r.touchLocked()
	return nil
}

func (r *Record) touchLocked() {
	if now := time.Now(); now.After(r.lastAccess) {
		r.lastAccess = now
	}
}

// Stop marks the session terminal. Stopping twice fails with the
// stopped error.
func (r *Record) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateLocked(); err != nil {
		return err
	}
	r.stoppedAt = time.Now()
	return nil
}

// Expire marks the session terminal due to idle timeout.
func (r *Record) Expire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = true
}

// Valid reports whether the session is neither stopped nor expired.
func (r *Record) Valid() bool { return r.Validate() == nil }

// Expired reports whether the record has already been marked expired,
// without triggering lazy detection.
func (r *Record) Expired() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.expired
}

// Validate returns the typed terminal error for a stopped or expired
// session, detecting idle timeout lazily. An explicit stop takes
// precedence over a concurrently elapsed timeout.
func (r *Record) Validate() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.validateLocked()
}

func (r *Record) validateLocked() error {
	if !r.stoppedAt.IsZero() {
		return fmt.Errorf("%w: id %q stopped at %s", ErrSessionStopped, r.id, r.stoppedAt.Format(time.RFC3339))
	}
	if r.expired {
		return fmt.Errorf("%w: id %q", ErrSessionExpired, r.id)
	}
	if r.timeout > 0 && time.Since(r.lastAccess) > r.timeout {
		r.expired = true
		return fmt.Errorf("%w: id %q idle past %s", ErrSessionExpired, r.id, r.timeout)
	}
	return nil
}

// Attribute returns the value stored under key, touching the session.
func (r *Record) Attribute(key string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateLocked(); err != nil {
		return nil, err
	}
	r.touchLocked()
	return r.attributes[key], nil
}

// SetAttribute stores value under key, touching the session.
func (r *Record) SetAttribute(key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateLocked(); err != nil {
		return err
	}
	r.touchLocked()
	r.attributes[key] = value
	return nil
}

// RemoveAttribute deletes key and returns its previous value, touching
// the session.
func (r *Record) RemoveAttribute(key string) (any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.validateLocked(); err != nil {
		return nil, err
	}
	r.touchLocked()
	previous := r.attributes[key]
	delete(r.attributes, key)
	return previous, nil
}

// Snapshot is an immutable read-only view of a record, handed to
// listeners so teardown hooks cannot mutate a session mid-flight.
type Snapshot struct {
	ID         string
	Host       string
	StartTime  time.Time
	LastAccess time.Time
	Timeout    time.Duration
	Attributes map[string]any
}

// Snapshot captures the record's current state, copying the attribute
// map.
func (r *Record) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{
		ID:         r.id,
		Host:       r.host,
		StartTime:  r.started,
		LastAccess: r.lastAccess,
		Timeout:    r.timeout,
		Attributes: maps.Clone(r.attributes),
	}
}

type wireRecord struct {
	ID         string         `json:"id"`
	Host       string         `json:"host,omitempty"`
	Started    time.Time      `json:"started"`
	LastAccess time.Time      `json:"last_access"`
	Timeout    time.Duration  `json:"timeout"`
	StoppedAt  *time.Time     `json:"stopped_at,omitempty"`
	Expired    bool           `json:"expired,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// MarshalJSON encodes the record for durable storage.
func (r *Record) MarshalJSON() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w := wireRecord{
		ID:         r.id,
		Host:       r.host,
		Started:    r.started,
		LastAccess: r.lastAccess,
		Timeout:    r.timeout,
		Expired:    r.expired,
		Attributes: r.attributes,
	}
	if !r.stoppedAt.IsZero() {
		w.StoppedAt = &r.stoppedAt
	}
	return json.Marshal(w)
}

// UnmarshalJSON restores a record from durable storage.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.id = w.ID
	r.host = w.Host
	r.started = w.Started
	r.lastAccess = w.LastAccess
	r.timeout = w.Timeout
	r.expired = w.Expired
	if w.StoppedAt != nil {
		r.stoppedAt = *w.StoppedAt
	} else {
		r.stoppedAt = time.Time{}
	}
	if w.Attributes == nil {
		w.Attributes = make(map[string]any)
	}
	r.attributes = w.Attributes
	return nil
}
