package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
)

// CardServiceError is a custom error type for card service errors.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
func NewCardServiceError(operation, message string, err error) *CardServiceError {
	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CardContent is the front/back text of a card to be created.
type CardContent struct {
	Front string
	Back  string
}

// CardService provides card operations. Writes that change the number of
// cards in a set run in a transaction together with the set's card count
// adjustment so the denormalized count never drifts.
type CardService interface {
	// AddCard appends a single card to the end of a study set.
	// Returns ErrNotOwned if the set belongs to another user.
	AddCard(ctx context.Context, userID, setID uuid.UUID, content CardContent) (*domain.Card, error)

	// AddCards appends multiple cards to the end of a study set atomically.
	// Returns ErrNotOwned if the set belongs to another user.
	AddCards(ctx context.Context, userID, setID uuid.UUID, contents []CardContent) ([]*domain.Card, error)

	// GetCard retrieves a card visible to the requester: cards follow their
	// set's visibility. requesterID may be uuid.Nil for anonymous access.
	GetCard(ctx context.Context, requesterID, cardID uuid.UUID) (*domain.Card, error)

	// ListCards retrieves all cards of a set visible to the requester,
	// ordered by position.
	ListCards(ctx context.Context, requesterID, setID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard modifies a card's front and back text.
	// Returns ErrNotOwned if the card's set belongs to another user.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, content CardContent) (*domain.Card, error)

	// UpdateMastery sets a card's mastery flag and stamps its review time.
	// Returns ErrNotOwned if the card's set belongs to another user.
	UpdateMastery(ctx context.Context, userID, cardID uuid.UUID, mastered bool) error

	// DeleteCard removes a card and decrements its set's card count.
	// Returns ErrNotOwned if the card's set belongs to another user.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// cardServiceImpl implements the CardService interface.
type cardServiceImpl struct {
	cards  store.CardStore
	sets   store.StudySetStore
	db     *sql.DB
	logger *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cards store.CardStore,
	sets store.StudySetStore,
	db *sql.DB,
	logger *slog.Logger,
) (CardService, error) {
	if cards == nil {
		return nil, fmt.Errorf("%w: card store cannot be nil", domain.ErrValidation)
	}
	if sets == nil {
		return nil, fmt.Errorf("%w: study set store cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cards:  cards,
		sets:   sets,
		db:     db,
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

// AddCard implements CardService.AddCard.
func (s *cardServiceImpl) AddCard(
	ctx context.Context,
	userID, setID uuid.UUID,
	content CardContent,
) (*domain.Card, error) {
	cards, err := s.AddCards(ctx, userID, setID, []CardContent{content})
	if err != nil {
		return nil, err
	}
	return cards[0], nil
}

// AddCards implements CardService.AddCards.
// New cards take positions at the end of the set, in input order.
func (s *cardServiceImpl) AddCards(
	ctx context.Context,
	userID, setID uuid.UUID,
	contents []CardContent,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(contents) == 0 {
		return []*domain.Card{}, nil
	}

	var created []*domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		txSets := s.sets.WithTx(tx)

		set, err := txSets.GetByID(ctx, setID)
		if err != nil {
			return err
		}
		if set.UserID != userID {
			return ErrNotOwned
		}

		newCards := make([]*domain.Card, 0, len(contents))
		for i, content := range contents {
			card, err := domain.NewCard(setID, content.Front, content.Back, set.CardCount+i)
			if err != nil {
				return err
			}
			newCards = append(newCards, card)
		}

		if err := txCards.CreateMultiple(ctx, newCards); err != nil {
			return NewCardServiceError("add_cards", "failed to save cards", err)
		}

		if err := txSets.AdjustCardCount(ctx, setID, len(newCards)); err != nil {
			return NewCardServiceError("add_cards", "failed to adjust card count", err)
		}

		created = newCards
		return nil
	})
	if err != nil {
		log.Error("failed to add cards",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()),
			slog.Int("card_count", len(contents)))
		return nil, err
	}

	log.Info("cards added to study set",
		slog.String("set_id", setID.String()),
		slog.Int("card_count", len(created)))
	return created, nil
}

// GetCard implements CardService.GetCard.
func (s *cardServiceImpl) GetCard(
	ctx context.Context,
	requesterID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.checkSetVisibility(ctx, requesterID, card.StudySetID); err != nil {
		return nil, err
	}

	return card, nil
}

// ListCards implements CardService.ListCards.
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	requesterID, setID uuid.UUID,
) ([]*domain.Card, error) {
	if err := s.checkSetVisibility(ctx, requesterID, setID); err != nil {
		return nil, err
	}
	return s.cards.GetBySetID(ctx, setID)
}

// UpdateCard implements CardService.UpdateCard.
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	content CardContent,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.getOwnedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := s.cards.UpdateContent(ctx, cardID, content.Front, content.Back); err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	if err := card.UpdateContent(content.Front, content.Back); err != nil {
		return nil, err
	}
	return card, nil
}

// UpdateMastery implements CardService.UpdateMastery.
func (s *cardServiceImpl) UpdateMastery(
	ctx context.Context,
	userID, cardID uuid.UUID,
	mastered bool,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwnedCard(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.cards.UpdateMastery(ctx, cardID, mastered); err != nil {
		log.Error("failed to update card mastery",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()),
			slog.Bool("mastered", mastered))
		return err
	}

	return nil
}

// DeleteCard implements CardService.DeleteCard.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cards.WithTx(tx)
		txSets := s.sets.WithTx(tx)

		card, err := txCards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		set, err := txSets.GetByID(ctx, card.StudySetID)
		if err != nil {
			return err
		}
		if set.UserID != userID {
			return ErrNotOwned
		}

		if err := txCards.Delete(ctx, cardID); err != nil {
			return NewCardServiceError("delete_card", "failed to delete card", err)
		}

		if err := txSets.AdjustCardCount(ctx, card.StudySetID, -1); err != nil {
			return NewCardServiceError("delete_card", "failed to adjust card count", err)
		}

		return nil
	})
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return err
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	return nil
}

// getOwnedCard loads a card and verifies its set belongs to the user.
func (s *cardServiceImpl) getOwnedCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	set, err := s.sets.GetByID(ctx, card.StudySetID)
	if err != nil {
		return nil, err
	}
	if set.UserID != userID {
		return nil, ErrNotOwned
	}

	return card, nil
}

// checkSetVisibility verifies the set is public or owned by the requester.
func (s *cardServiceImpl) checkSetVisibility(
	ctx context.Context,
	requesterID, setID uuid.UUID,
) error {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return err
	}
	if !set.IsPublic && set.UserID != requesterID {
		return ErrNotOwned
	}
	return nil
}
