// Package session holds the per-visitor state of the dashboard: an upload
// intake plus its analysis coordinator. Nothing persists; a session dies
// with its TTL or the process, and a fresh session starts empty.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/your-org/aquavision/internal/analysis"
	"github.com/your-org/aquavision/internal/media"
)

// Session bundles the workflow components for one dashboard visitor.
type Session struct {
	ID          string
	Intake      *media.Intake
	Coordinator *analysis.Coordinator
	CreatedAt   time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen reports the most recent access to this session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Factory builds the workflow components for a new session.
type Factory func(id string) (*media.Intake, *analysis.Coordinator)

// Config tunes the manager's idle sweep.
type Config struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Manager tracks live sessions and sweeps the ones idle past the TTL.
type Manager struct {
	factory Factory
	cfg     Config
	logger  *zap.Logger
	onEvict func(*Session)

	mu       sync.Mutex
	sessions map[string]*Session

	done chan struct{}
	wg   sync.WaitGroup
}

// NewManager constructs a Manager and starts its sweep loop when both TTL
// and sweep interval are positive. onEvict, if non-nil, observes every
// swept session.
func NewManager(factory Factory, cfg Config, logger *zap.Logger, onEvict func(*Session)) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		factory:  factory,
		cfg:      cfg,
		logger:   logger,
		onEvict:  onEvict,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	if cfg.TTL > 0 && cfg.SweepInterval > 0 {
		m.wg.Add(1)
		go m.sweepLoop()
	}
	return m
}

// Create starts a fresh session with an empty intake and an Idle coordinator.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	intake, coordinator := m.factory(id)
	now := time.Now().UTC()
	s := &Session{
		ID:          id,
		Intake:      intake,
		Coordinator: coordinator,
		CreatedAt:   now,
		lastSeen:    now,
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session_id", id))
	return s
}

// Get looks up a session by ID and refreshes its idle clock.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		s.touch(time.Now().UTC())
	}
	return s, ok
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.sweep(time.Now().UTC())
		case <-m.done:
			return
		}
	}
}

// sweep evicts sessions idle past the TTL. Sessions with an analysis still
// in flight are skipped; the next pass catches them once they settle.
func (m *Manager) sweep(now time.Time) {
	cutoff := now.Add(-m.cfg.TTL)

	m.mu.Lock()
	var evicted []*Session
	for id, s := range m.sessions {
		if s.LastSeen().After(cutoff) {
			continue
		}
		if s.Coordinator.State() == analysis.StateAnalyzing {
			continue
		}
		delete(m.sessions, id)
		evicted = append(evicted, s)
	}
	m.mu.Unlock()

	for _, s := range evicted {
		m.logger.Info("session expired", zap.String("session_id", s.ID))
		if m.onEvict != nil {
			m.onEvict(s)
		}
	}
}

// Close stops the sweep loop.
func (m *Manager) Close() {
	close(m.done)
	m.wg.Wait()
}
