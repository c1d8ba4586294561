package session

import (
	"context"
	"log/slog"
	"sort"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// CardSource fetches a study set's cards.
type CardSource interface {
	GetCardsBySet(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error)
}

// StudySetSource fetches study set metadata.
type StudySetSource interface {
	GetStudySet(ctx context.Context, setID uuid.UUID) (*domain.StudySet, error)
}

// LoadResult is what a load produces. Failures surface as a human-readable
// message, never a Go error: a session over zero cards is a valid (if inert)
// session, and the presentation layer only needs something to display.
type LoadResult struct {
	Cards    []*domain.Card
	StudySet *domain.StudySet

	// ErrMessage is non-empty when loading failed. Cards is empty and
	// StudySet nil in that case.
	ErrMessage string
}

// Failed reports whether the load produced an error message.
func (r LoadResult) Failed() bool {
	return r.ErrMessage != ""
}

// Loader fetches a study set and its cards concurrently and normalizes the
// result into session-ready state.
type Loader struct {
	cards  CardSource
	sets   StudySetSource
	logger *slog.Logger
}

// NewLoader creates a Loader. Panics if either source is nil.
func NewLoader(cards CardSource, sets StudySetSource, logger *slog.Logger) *Loader {
	// ALLOW-PANIC: Constructor enforces non-nil dependencies.
	if cards == nil {
		panic("card source cannot be nil")
	}
	// ALLOW-PANIC: Constructor enforces non-nil dependencies.
	if sets == nil {
		panic("study set source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Loader{
		cards:  cards,
		sets:   sets,
		logger: logger.With(slog.String("component", "session_loader")),
	}
}

// Load fetches the study set and its cards in parallel. An empty setID
// resolves immediately to an empty result with no error message. Cards come
// back sorted by position, which is the canonical session order.
func (l *Loader) Load(ctx context.Context, setID string) LoadResult {
	if setID == "" {
		return LoadResult{Cards: []*domain.Card{}}
	}

	id, err := uuid.Parse(setID)
	if err != nil {
		l.logger.WarnContext(ctx, "rejected malformed study set id",
			slog.String("set_id", setID))
		return LoadResult{Cards: []*domain.Card{}, ErrMessage: "invalid study set id"}
	}

	type cardsResult struct {
		cards []*domain.Card
		err   error
	}
	type setResult struct {
		set *domain.StudySet
		err error
	}

	cardsCh := make(chan cardsResult, 1)
	setCh := make(chan setResult, 1)

	go func() {
		cards, err := l.cards.GetCardsBySet(ctx, id)
		cardsCh <- cardsResult{cards: cards, err: err}
	}()
	go func() {
		set, err := l.sets.GetStudySet(ctx, id)
		setCh <- setResult{set: set, err: err}
	}()

	cr := <-cardsCh
	sr := <-setCh

	if cr.err != nil || sr.err != nil {
		if cr.err != nil {
			l.logger.ErrorContext(ctx, "failed to load cards",
				slog.String("set_id", id.String()),
				slog.String("error", cr.err.Error()))
		}
		if sr.err != nil {
			l.logger.ErrorContext(ctx, "failed to load study set",
				slog.String("set_id", id.String()),
				slog.String("error", sr.err.Error()))
		}
		return LoadResult{Cards: []*domain.Card{}, ErrMessage: "unable to load study set data"}
	}

	return LoadResult{
		Cards:    normalizeCards(cr.cards),
		StudySet: sr.set,
	}
}

// normalizeCards drops nil entries, guarantees a non-nil slice, and sorts by
// position so the canonical order does not depend on the store's ordering.
func normalizeCards(cards []*domain.Card) []*domain.Card {
	out := make([]*domain.Card, 0, len(cards))
	for _, c := range cards {
		if c == nil {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}
