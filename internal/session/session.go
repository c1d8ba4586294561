package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Mode identifies which learning mode a session is in.
type Mode string

// Supported learning modes. ModeUnset means the learner has not picked a
// mode yet (or has returned to mode selection after completing a run).
const (
	ModeUnset Mode = ""
	ModeBasic Mode = "basic"
	ModeStudy Mode = "study"
)

// Valid reports whether m is a selectable learning mode.
func (m Mode) Valid() bool {
	return m == ModeBasic || m == ModeStudy
}

// MasteryStore persists a single card's mastery flag. Implementations must
// fail loudly (return an error) so the study controller can roll back its
// optimistic update, and must be safe to call repeatedly with the same value.
type MasteryStore interface {
	UpdateCardMastery(ctx context.Context, cardID uuid.UUID, mastered bool) error
}

// ResetScheduler schedules background mastery-reset writes for a batch of
// cards. Implementations must not block on the writes completing; individual
// failures are logged, never surfaced to the session.
type ResetScheduler interface {
	ScheduleMasteryReset(ctx context.Context, cardIDs []uuid.UUID)
}

// Callbacks are the hooks the presentation layer injects into a session.
// Any of them may be nil.
type Callbacks struct {
	// OnComplete fires when a traversal finishes (all cards viewed in basic
	// mode, all cards judged in study mode).
	OnComplete func()

	// CloseFlip resets the card-flip visual state. The engine does not own
	// flip state; it only triggers its reset on navigation.
	CloseFlip func()

	// ToggleFlip flips the current card face. Used by the keyboard binding.
	ToggleFlip func()
}

// Options tune session behavior.
type Options struct {
	// CompletionDelay is how long to wait before firing OnComplete, leaving
	// room for the flip animation to settle. Zero fires synchronously.
	CompletionDelay time.Duration
}

// Session holds the shared learning-session state and mediates which
// controller is active. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	// Canonical card list in original (position) order. Mastery flips mutate
	// the elements in place; the slice order never changes.
	cards    []*domain.Card
	studySet *domain.StudySet

	// Current working sequence: original order, a shuffle, or a filtered
	// subset of unmastered cards. Elements alias the canonical cards.
	display []*domain.Card
	index   int
	mode    Mode

	// Basic mode state.
	viewed   map[uuid.UUID]struct{}
	shuffled bool

	// Study mode state.
	reviewed int

	masteryStore   MasteryStore
	resetScheduler ResetScheduler
	callbacks      Callbacks
	opts           Options
	logger         *slog.Logger
}

// New creates a Session over the given cards and study set metadata.
// The cards slice is treated as the canonical order for the session's
// lifetime; callers must not reorder it afterwards.
func New(
	cards []*domain.Card,
	studySet *domain.StudySet,
	masteryStore MasteryStore,
	resetScheduler ResetScheduler,
	callbacks Callbacks,
	opts Options,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		cards:          cards,
		studySet:       studySet,
		viewed:         make(map[uuid.UUID]struct{}),
		masteryStore:   masteryStore,
		resetScheduler: resetScheduler,
		callbacks:      callbacks,
		opts:           opts,
		logger:         logger.With(slog.String("component", "session")),
	}
}

// ErrNoCards is returned when a mode is selected for a session with no cards.
// A session must never be active in a mode with an empty display sequence.
var ErrNoCards = fmt.Errorf("%w: study set has no cards", domain.ErrValidation)

// SelectMode enters the given learning mode: study mode shuffles the full
// canonical card list into the display sequence, basic mode uses the
// canonical order. The index resets to 0 and any open card flip is closed.
func (s *Session) SelectMode(mode Mode) error {
	if !mode.Valid() {
		return domain.ErrInvalidLearningMode
	}

	s.mu.Lock()
	if len(s.cards) == 0 {
		s.mu.Unlock()
		return ErrNoCards
	}

	switch mode {
	case ModeStudy:
		s.display = shuffleCopy(s.cards)
	default:
		s.display = append([]*domain.Card(nil), s.cards...)
	}

	s.mode = mode
	s.index = 0
	s.viewed = make(map[uuid.UUID]struct{})
	s.shuffled = false
	s.reviewed = 0
	s.mu.Unlock()

	s.closeFlip()
	return nil
}

// ClearMode returns the session to mode selection: mode goes back to unset,
// the display sequence is cleared, and the index resets.
func (s *Session) ClearMode() {
	s.mu.Lock()
	s.mode = ModeUnset
	s.display = nil
	s.index = 0
	s.viewed = make(map[uuid.UUID]struct{})
	s.reviewed = 0
	s.shuffled = false
	s.mu.Unlock()

	s.closeFlip()
}

// Mode returns the session's current learning mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// StudySet returns the set metadata the session was created with (may be nil).
func (s *Session) StudySet() *domain.StudySet {
	return s.studySet
}

// CurrentCard returns the card at the current index, or nil when the display
// sequence is empty.
func (s *Session) CurrentCard() *domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// Basic returns the basic mode controller bound to this session.
func (s *Session) Basic() *BasicController {
	return &BasicController{s: s}
}

// Study returns the study mode controller bound to this session.
func (s *Session) Study() *StudyController {
	return &StudyController{s: s}
}

// Key identifies a keyboard input the session understands.
type Key string

// Keyboard bindings: space flips the current card; the arrow keys map to
// prev/next in basic mode and mastery-false/mastery-true in study mode.
const (
	KeySpace      Key = "space"
	KeyArrowLeft  Key = "left"
	KeyArrowRight Key = "right"
)

// HandleKey dispatches a keyboard input to the active controller. This is an
// input-binding layer on top of the controllers, not a separate state
// machine; unknown keys and arrows outside an active mode are ignored.
func (s *Session) HandleKey(ctx context.Context, key Key) {
	switch key {
	case KeySpace:
		if s.callbacks.ToggleFlip != nil {
			s.callbacks.ToggleFlip()
		}
	case KeyArrowRight:
		switch s.Mode() {
		case ModeBasic:
			s.Basic().Next()
		case ModeStudy:
			s.Study().Mastery(ctx, true)
		}
	case KeyArrowLeft:
		switch s.Mode() {
		case ModeBasic:
			s.Basic().Prev()
		case ModeStudy:
			s.Study().Mastery(ctx, false)
		}
	}
}

// Snapshot is a point-in-time view of session state for the presentation
// layer.
type Snapshot struct {
	Mode          Mode         `json:"mode"`
	Index         int          `json:"index"`
	TotalCards    int          `json:"total_cards"`
	DisplayCards  int          `json:"display_cards"`
	ViewedCount   int          `json:"viewed_count"`
	ReviewedCount int          `json:"reviewed_count"`
	MasteredCount int          `json:"mastered_count"`
	IsShuffled    bool         `json:"is_shuffled"`
	CanGoNext     bool         `json:"can_go_next"`
	CanGoPrev     bool         `json:"can_go_prev"`
	CurrentCard   *domain.Card `json:"current_card,omitempty"`
}

// Snapshot returns a consistent view of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	mastered := lo.CountBy(s.cards, func(c *domain.Card) bool {
		return c.IsMastered
	})

	return Snapshot{
		Mode:          s.mode,
		Index:         s.index,
		TotalCards:    len(s.cards),
		DisplayCards:  len(s.display),
		ViewedCount:   len(s.viewed),
		ReviewedCount: s.reviewed,
		MasteredCount: mastered,
		IsShuffled:    s.shuffled,
		CanGoNext:     len(s.viewed) < len(s.display),
		CanGoPrev:     s.index > 0,
		CurrentCard:   s.currentLocked(),
	}
}

// currentLocked returns the card at the current index. Callers must hold mu.
func (s *Session) currentLocked() *domain.Card {
	if s.index < 0 || s.index >= len(s.display) {
		return nil
	}
	return s.display[s.index]
}

// closeFlip resets the flip visual state via the injected callback.
func (s *Session) closeFlip() {
	if s.callbacks.CloseFlip != nil {
		s.callbacks.CloseFlip()
	}
}

// scheduleCompletion fires the completion callback after the configured
// delay. A zero delay fires synchronously, which keeps tests deterministic.
func (s *Session) scheduleCompletion() {
	if s.callbacks.OnComplete == nil {
		return
	}
	if s.opts.CompletionDelay <= 0 {
		s.callbacks.OnComplete()
		return
	}
	time.AfterFunc(s.opts.CompletionDelay, s.callbacks.OnComplete)
}

// shuffleCopy returns a uniformly shuffled copy of cards, leaving the
// input untouched.
func shuffleCopy(cards []*domain.Card) []*domain.Card {
	return lo.Shuffle(append([]*domain.Card(nil), cards...))
}
