package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SessionLoadError reports why a learning session could not be created from
// its study set. The message is safe to show to the client.
type SessionLoadError struct {
	Message string
}

// Error implements the error interface for SessionLoadError.
func (e *SessionLoadError) Error() string {
	return fmt.Sprintf("session load failed: %s", e.Message)
}

// managedSession pairs a live session with its idle-expiry bookkeeping.
type managedSession struct {
	session    *session.Session
	ownerID    uuid.UUID
	lastAccess time.Time
}

// SessionManager hosts active learning sessions in memory, keyed by opaque
// nanoid session IDs. Idle sessions expire after the configured TTL; a
// background janitor sweeps them out. All session state lives here, nothing
// is persisted apart from the mastery writes the sessions themselves make.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession

	loader  *session.Loader
	mastery session.MasteryStore
	resets  session.ResetScheduler

	ttl             time.Duration
	completionDelay time.Duration

	logger *slog.Logger
	done   chan struct{}
	wg     sync.WaitGroup
}

// janitorInterval is how often the janitor sweeps for expired sessions.
const janitorInterval = time.Minute

// NewSessionManager creates a SessionManager.
func NewSessionManager(
	loader *session.Loader,
	mastery session.MasteryStore,
	resets session.ResetScheduler,
	cfg config.SessionConfig,
	logger *slog.Logger,
) *SessionManager {
	if loader == nil {
		// ALLOW-PANIC: Constructor enforces required dependency
		panic("loader cannot be nil")
	}
	if mastery == nil {
		// ALLOW-PANIC: Constructor enforces required dependency
		panic("mastery store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionManager{
		sessions:        make(map[string]*managedSession),
		loader:          loader,
		mastery:         mastery,
		resets:          resets,
		ttl:             time.Duration(cfg.TTLMinutes) * time.Minute,
		completionDelay: time.Duration(cfg.CompletionDelayMs) * time.Millisecond,
		logger:          logger.With(slog.String("component", "session_manager")),
		done:            make(chan struct{}),
	}
}

// Start launches the background janitor that expires idle sessions.
func (m *SessionManager) Start() {
	m.wg.Add(1)
	go m.janitor()
}

// Stop shuts down the janitor and drops all sessions.
func (m *SessionManager) Stop() {
	close(m.done)
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*managedSession)
}

// Create loads a study set and its cards and opens a new learning session
// over them. Private sets are only available to their owner; requesterID may
// be uuid.Nil for anonymous access to public sets.
// Returns the opaque session ID the client uses for all further calls.
func (m *SessionManager) Create(
	ctx context.Context,
	requesterID uuid.UUID,
	setID string,
) (string, *session.Session, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	result := m.loader.Load(ctx, setID)
	if result.Failed() {
		return "", nil, &SessionLoadError{Message: result.ErrMessage}
	}

	if result.StudySet != nil && !result.StudySet.IsPublic && result.StudySet.UserID != requesterID {
		return "", nil, ErrNotOwned
	}

	id, err := gonanoid.New()
	if err != nil {
		log.Error("failed to generate session id",
			slog.String("error", err.Error()))
		return "", nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	sess := session.New(
		result.Cards,
		result.StudySet,
		m.mastery,
		m.resets,
		session.Callbacks{},
		session.Options{CompletionDelay: m.completionDelay},
		m.logger,
	)

	m.mu.Lock()
	m.sessions[id] = &managedSession{
		session:    sess,
		ownerID:    requesterID,
		lastAccess: time.Now(),
	}
	count := len(m.sessions)
	m.mu.Unlock()

	log.Info("learning session created",
		slog.String("session_id", id),
		slog.String("set_id", setID),
		slog.Int("card_count", len(result.Cards)),
		slog.Int("active_sessions", count))

	return id, sess, nil
}

// Get retrieves an active session by its ID and refreshes its idle timer.
// Returns ErrSessionNotFound for unknown or expired IDs.
func (m *SessionManager) Get(id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ms, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	ms.lastAccess = time.Now()
	return ms.session, nil
}

// Remove drops a session. Removing an unknown ID is a no-op.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// ActiveCount reports the number of live sessions.
func (m *SessionManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// janitor periodically expires sessions idle past the TTL.
func (m *SessionManager) janitor() {
	defer m.wg.Done()

	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.expireIdle(time.Now())
		}
	}
}

// expireIdle removes sessions whose last access is older than the TTL.
func (m *SessionManager) expireIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, ms := range m.sessions {
		if now.Sub(ms.lastAccess) > m.ttl {
			delete(m.sessions, id)
			m.logger.Debug("expired idle session",
				slog.String("session_id", id))
		}
	}
}
