package service

import (
	"context"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
)

// sessionCardSource adapts a CardStore to the loader's card source.
type sessionCardSource struct {
	cards store.CardStore
}

var _ session.CardSource = (*sessionCardSource)(nil)

func (s *sessionCardSource) GetCardsBySet(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error) {
	return s.cards.GetBySetID(ctx, setID)
}

// sessionSetSource adapts a StudySetStore to the loader's study set source.
type sessionSetSource struct {
	sets store.StudySetStore
}

var _ session.StudySetSource = (*sessionSetSource)(nil)

func (s *sessionSetSource) GetStudySet(ctx context.Context, setID uuid.UUID) (*domain.StudySet, error) {
	return s.sets.GetByID(ctx, setID)
}

// NewSessionLoader builds a session loader over the persistence stores.
func NewSessionLoader(
	cards store.CardStore,
	sets store.StudySetStore,
	logger *slog.Logger,
) *session.Loader {
	return session.NewLoader(
		&sessionCardSource{cards: cards},
		&sessionSetSource{sets: sets},
		logger,
	)
}
