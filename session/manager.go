package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is the idle timeout applied when none is configured.
const DefaultTimeout = 30 * time.Minute

// ManagerConfig assembles a Manager.
type ManagerConfig struct {
	// DAO is the session store, typically a CachingDAO over a durable
	// one. Required.
	DAO DAO

	// IDGenerator mints session ids. Defaults to UUIDGenerator.
	IDGenerator IDGenerator

	// Timeout is the idle timeout for new sessions. Defaults to
	// DefaultTimeout; negative disables expiry.
	Timeout time.Duration

	// DeleteInvalid removes terminal records from storage instead of
	// keeping them. Kept records let later access report stopped or
	// expired rather than unknown.
	DeleteInvalid bool

	Listeners []Listener
	Logger    *zap.Logger
}

// Manager owns the session lifecycle: it creates records, detects
// expiry lazily on access, propagates every mutation to storage, and
// notifies listeners with immutable snapshots.
type Manager struct {
	dao           DAO
	idgen         IDGenerator
	timeout       time.Duration
	deleteInvalid bool
	listeners     []Listener
	logger        *zap.Logger
}

// NewManager builds a Manager, failing fast without a DAO.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.DAO == nil {
		return nil, errors.New("session manager needs a DAO")
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = UUIDGenerator{}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Manager{
		dao:           cfg.DAO,
		idgen:         cfg.IDGenerator,
		timeout:       cfg.Timeout,
		deleteInvalid: cfg.DeleteInvalid,
		listeners:     cfg.Listeners,
		logger:        cfg.Logger,
	}, nil
}

// AddListener registers a lifecycle listener. Not safe to call
// concurrently with session operations; register during setup.
func (m *Manager) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Start creates a session for host and returns its handle.
func (m *Manager) Start(ctx context.Context, host string) (*Handle, error) {
	record := NewRecord(m.idgen.Generate(), host, m.timeout)
	if err := m.dao.Create(ctx, record); err != nil {
		return nil, err
	}
	m.logger.Debug("session started", zap.String("id", record.ID()), zap.String("host", host))

	snapshot := record.Snapshot()
	for _, l := range m.listeners {
		l.OnStart(snapshot)
	}
	return &Handle{manager: m, id: record.ID()}, nil
}

// Get returns a handle for an existing, still-valid session.
func (m *Manager) Get(ctx context.Context, id string) (*Handle, error) {
	if _, err := m.resolve(ctx, id); err != nil {
		return nil, err
	}
	return &Handle{manager: m, id: id}, nil
}

// Stop marks the session terminal, persists the terminal state and
// notifies listeners with a snapshot taken before notification.
func (m *Manager) Stop(ctx context.Context, id string) error {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := record.Stop(); err != nil {
		return err
	}
	snapshot := record.Snapshot()
	if err := m.persistInvalid(ctx, record); err != nil {
		return err
	}
	m.logger.Debug("session stopped", zap.String("id", id))
	for _, l := range m.listeners {
		l.OnStop(snapshot)
	}
	return nil
}

// Touch refreshes the session's last-access time and writes it
// through.
func (m *Manager) Touch(ctx context.Context, id string) error {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := record.Touch(); err != nil {
		return err
	}
	return m.dao.Update(ctx, record)
}

// Attribute returns the attribute stored under key.
func (m *Manager) Attribute(ctx context.Context, id, key string) (any, error) {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	value, err := record.Attribute(key)
	if err != nil {
		return nil, err
	}
	return value, m.dao.Update(ctx, record)
}

// SetAttribute stores value under key and writes the session through.
func (m *Manager) SetAttribute(ctx context.Context, id, key string, value any) error {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := record.SetAttribute(key, value); err != nil {
		return err
	}
	return m.dao.Update(ctx, record)
}

// RemoveAttribute deletes key, returning its previous value, and
// writes the session through.
func (m *Manager) RemoveAttribute(ctx context.Context, id, key string) (any, error) {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	previous, err := record.RemoveAttribute(key)
	if err != nil {
		return nil, err
	}
	return previous, m.dao.Update(ctx, record)
}

// SetTimeout changes the session's idle timeout and writes it through.
func (m *Manager) SetTimeout(ctx context.Context, id string, timeout time.Duration) error {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return err
	}
	if err := record.SetTimeout(timeout); err != nil {
		return err
	}
	return m.dao.Update(ctx, record)
}

// Snapshot returns a read-only view of the session.
func (m *Manager) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	record, err := m.resolve(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return record.Snapshot(), nil
}

// ActiveSessions returns a snapshot of every valid session.
func (m *Manager) ActiveSessions(ctx context.Context) ([]Snapshot, error) {
	records, err := m.dao.ActiveSessions(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]Snapshot, 0, len(records))
	for _, record := range records {
		snapshots = append(snapshots, record.Snapshot())
	}
	return snapshots, nil
}

// resolve reads and validates the record for id. Expiry is detected
// here, lazily: the first access past the idle timeout marks the
// record terminal, persists that, and fires the expiration hooks.
func (m *Manager) resolve(ctx context.Context, id string) (*Record, error) {
	record, err := m.dao.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	expiredBefore := record.Expired()
	if err := record.Validate(); err != nil {
		if errors.Is(err, ErrSessionExpired) && !expiredBefore {
			snapshot := record.Snapshot()
			if persistErr := m.persistInvalid(ctx, record); persistErr != nil {
				m.logger.Warn("failed to persist expired session",
					zap.String("id", id), zap.Error(persistErr))
			}
			m.logger.Debug("session expired", zap.String("id", id))
			for _, l := range m.listeners {
				l.OnExpiration(snapshot)
			}
		}
		return nil, err
	}
	return record, nil
}

func (m *Manager) persistInvalid(ctx context.Context, record *Record) error {
	if m.deleteInvalid {
		return m.dao.Delete(ctx, record.ID())
	}
	if err := m.dao.Update(ctx, record); err != nil {
		return fmt.Errorf("persist terminal session %q: %w", record.ID(), err)
	}
	return nil
}

// Handle is the client-safe face of one session. It proxies by id so
// callers never hold the mutable record.
type Handle struct {
	manager *Manager
	id      string
}

// ID returns the session id.
func (h *Handle) ID() string { return h.id }

func (h *Handle) Touch(ctx context.Context) error { return h.manager.Touch(ctx, h.id) }
func (h *Handle) Stop(ctx context.Context) error  { return h.manager.Stop(ctx, h.id) }

func (h *Handle) Attribute(ctx context.Context, key string) (any, error) {
	return h.manager.Attribute(ctx, h.id, key)
}

func (h *Handle) SetAttribute(ctx context.Context, key string, value any) error {
	return h.manager.SetAttribute(ctx, h.id, key, value)
}

func (h *Handle) RemoveAttribute(ctx context.Context, key string) (any, error) {
	return h.manager.RemoveAttribute(ctx, h.id, key)
}

func (h *Handle) SetTimeout(ctx context.Context, timeout time.Duration) error {
	return h.manager.SetTimeout(ctx, h.id, timeout)
}

func (h *Handle) Snapshot(ctx context.Context) (Snapshot, error) {
	return h.manager.Snapshot(ctx, h.id)
}
