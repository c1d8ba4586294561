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

// StudySetUpdate carries the mutable study set fields for UpdateSet.
// FolderID semantics: nil moves the set to unclassified, non-nil moves it
// into that folder.
type StudySetUpdate struct {
	Title       string
	Description string
	FolderID    *uuid.UUID
}

// StudySetService provides study set operations with ownership and
// visibility enforcement.
type StudySetService interface {
	// CreateSet creates an empty study set for the user. A non-nil folderID
	// places the set in that folder; the folder must belong to the same user.
	CreateSet(
		ctx context.Context,
		userID uuid.UUID,
		title, description string,
		folderID *uuid.UUID,
	) (*domain.StudySet, error)

	// CreateSetWithCards creates a study set together with its initial cards
	// in a single transaction. Either everything lands or nothing does,
	// including the set's card count.
	CreateSetWithCards(
		ctx context.Context,
		userID uuid.UUID,
		title, description string,
		folderID *uuid.UUID,
		cards []CardContent,
	) (*domain.StudySet, error)

	// GetSet retrieves a study set visible to the requester: public sets are
	// visible to everyone, private sets only to their owner. requesterID may
	// be uuid.Nil for anonymous access.
	// Returns ErrNotOwned for a private set the requester does not own.
	GetSet(ctx context.Context, requesterID, setID uuid.UUID) (*domain.StudySet, error)

	// ListMySets retrieves all study sets owned by the user, newest first.
	ListMySets(ctx context.Context, userID uuid.UUID) ([]*domain.StudySet, error)

	// ListSetsInFolder retrieves the user's study sets inside a folder,
	// newest first. A nil folderID lists the user's unclassified sets.
	ListSetsInFolder(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*domain.StudySet, error)

	// SearchPublicSets retrieves public study sets, newest first, optionally
	// filtered by a case-insensitive title substring.
	SearchPublicSets(ctx context.Context, query string, limit, offset int) ([]*domain.StudySet, error)

	// UpdateSet modifies a set's title, description, and folder.
	// Returns ErrNotOwned if the set belongs to another user.
	UpdateSet(ctx context.Context, userID, setID uuid.UUID, update StudySetUpdate) (*domain.StudySet, error)

	// SetVisibility flips a set between public and private.
	// Returns ErrNotOwned if the set belongs to another user.
	SetVisibility(ctx context.Context, userID, setID uuid.UUID, isPublic bool) error

	// DeleteSet removes a study set and all of its cards.
	// Returns ErrNotOwned if the set belongs to another user.
	DeleteSet(ctx context.Context, userID, setID uuid.UUID) error
}

// studySetServiceImpl implements the StudySetService interface.
type studySetServiceImpl struct {
	sets    store.StudySetStore
	cards   store.CardStore
	folders store.FolderStore
	db      *sql.DB
	logger  *slog.Logger
}

var _ StudySetService = (*studySetServiceImpl)(nil)

// NewStudySetService creates a new StudySetService.
// It returns an error if any of the required dependencies are nil.
func NewStudySetService(
	sets store.StudySetStore,
	cards store.CardStore,
	folders store.FolderStore,
	db *sql.DB,
	logger *slog.Logger,
) (StudySetService, error) {
	if sets == nil {
		return nil, fmt.Errorf("%w: study set store cannot be nil", domain.ErrValidation)
	}
	if cards == nil {
		return nil, fmt.Errorf("%w: card store cannot be nil", domain.ErrValidation)
	}
	if folders == nil {
		return nil, fmt.Errorf("%w: folder store cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studySetServiceImpl{
		sets:    sets,
		cards:   cards,
		folders: folders,
		db:      db,
		logger:  logger.With(slog.String("component", "studyset_service")),
	}, nil
}

// CreateSet implements StudySetService.CreateSet.
func (s *studySetServiceImpl) CreateSet(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
	folderID *uuid.UUID,
) (*domain.StudySet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := domain.NewStudySet(userID, title, description)
	if err != nil {
		return nil, err
	}

	if folderID != nil {
		if err := s.checkFolderOwnership(ctx, userID, *folderID); err != nil {
			return nil, err
		}
		set.FolderID = folderID
	}

	if err := s.sets.Create(ctx, set); err != nil {
		log.Error("failed to create study set",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create study set: %w", err)
	}

	log.Info("study set created",
		slog.String("set_id", set.ID.String()),
		slog.String("user_id", userID.String()))
	return set, nil
}

// CreateSetWithCards implements StudySetService.CreateSetWithCards.
func (s *studySetServiceImpl) CreateSetWithCards(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
	folderID *uuid.UUID,
	cards []CardContent,
) (*domain.StudySet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := domain.NewStudySet(userID, title, description)
	if err != nil {
		return nil, err
	}

	if folderID != nil {
		if err := s.checkFolderOwnership(ctx, userID, *folderID); err != nil {
			return nil, err
		}
		set.FolderID = folderID
	}

	newCards := make([]*domain.Card, 0, len(cards))
	for i, content := range cards {
		card, err := domain.NewCard(set.ID, content.Front, content.Back, i)
		if err != nil {
			return nil, err
		}
		newCards = append(newCards, card)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txSets := s.sets.WithTx(tx)
		txCards := s.cards.WithTx(tx)

		if err := txSets.Create(ctx, set); err != nil {
			return fmt.Errorf("failed to create study set: %w", err)
		}

		if len(newCards) == 0 {
			return nil
		}

		if err := txCards.CreateMultiple(ctx, newCards); err != nil {
			return fmt.Errorf("failed to create cards: %w", err)
		}

		if err := txSets.AdjustCardCount(ctx, set.ID, len(newCards)); err != nil {
			return fmt.Errorf("failed to adjust card count: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error("failed to create study set with cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("card_count", len(cards)))
		return nil, err
	}

	set.CardCount = len(newCards)

	log.Info("study set created with cards",
		slog.String("set_id", set.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(newCards)))
	return set, nil
}

// GetSet implements StudySetService.GetSet.
func (s *studySetServiceImpl) GetSet(
	ctx context.Context,
	requesterID, setID uuid.UUID,
) (*domain.StudySet, error) {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}

	if !set.IsPublic && set.UserID != requesterID {
		return nil, ErrNotOwned
	}

	return set, nil
}

// ListMySets implements StudySetService.ListMySets.
func (s *studySetServiceImpl) ListMySets(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.StudySet, error) {
	return s.sets.ListByUser(ctx, userID)
}

// ListSetsInFolder implements StudySetService.ListSetsInFolder.
func (s *studySetServiceImpl) ListSetsInFolder(
	ctx context.Context,
	userID uuid.UUID,
	folderID *uuid.UUID,
) ([]*domain.StudySet, error) {
	if folderID != nil {
		if err := s.checkFolderOwnership(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}
	return s.sets.ListByFolder(ctx, userID, folderID)
}

// SearchPublicSets implements StudySetService.SearchPublicSets.
func (s *studySetServiceImpl) SearchPublicSets(
	ctx context.Context,
	query string,
	limit, offset int,
) ([]*domain.StudySet, error) {
	return s.sets.ListPublic(ctx, query, limit, offset)
}

// UpdateSet implements StudySetService.UpdateSet.
func (s *studySetServiceImpl) UpdateSet(
	ctx context.Context,
	userID, setID uuid.UUID,
	update StudySetUpdate,
) (*domain.StudySet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := s.getOwnedSet(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	if update.FolderID != nil {
		if err := s.checkFolderOwnership(ctx, userID, *update.FolderID); err != nil {
			return nil, err
		}
	}

	set.Title = update.Title
	set.Description = update.Description
	set.FolderID = update.FolderID

	if err := set.Validate(); err != nil {
		return nil, err
	}

	if err := s.sets.Update(ctx, set); err != nil {
		log.Error("failed to update study set",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
		return nil, fmt.Errorf("failed to update study set: %w", err)
	}

	return set, nil
}

// SetVisibility implements StudySetService.SetVisibility.
func (s *studySetServiceImpl) SetVisibility(
	ctx context.Context,
	userID, setID uuid.UUID,
	isPublic bool,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	set, err := s.getOwnedSet(ctx, userID, setID)
	if err != nil {
		return err
	}

	if set.IsPublic == isPublic {
		return nil
	}

	set.IsPublic = isPublic
	if err := s.sets.Update(ctx, set); err != nil {
		log.Error("failed to update study set visibility",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
		return fmt.Errorf("failed to update study set visibility: %w", err)
	}

	log.Info("study set visibility changed",
		slog.String("set_id", setID.String()),
		slog.Bool("is_public", isPublic))
	return nil
}

// DeleteSet implements StudySetService.DeleteSet.
func (s *studySetServiceImpl) DeleteSet(ctx context.Context, userID, setID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwnedSet(ctx, userID, setID); err != nil {
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		// Cards go with the set via ON DELETE CASCADE.
		return s.sets.WithTx(tx).Delete(ctx, setID)
	})
	if err != nil {
		log.Error("failed to delete study set",
			slog.String("error", err.Error()),
			slog.String("set_id", setID.String()))
		return fmt.Errorf("failed to delete study set: %w", err)
	}

	log.Info("study set deleted",
		slog.String("set_id", setID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// getOwnedSet loads a set and verifies the user owns it.
func (s *studySetServiceImpl) getOwnedSet(
	ctx context.Context,
	userID, setID uuid.UUID,
) (*domain.StudySet, error) {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.UserID != userID {
		return nil, ErrNotOwned
	}
	return set, nil
}

// checkFolderOwnership verifies the folder exists and belongs to the user.
func (s *studySetServiceImpl) checkFolderOwnership(
	ctx context.Context,
	userID, folderID uuid.UUID,
) error {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return err
	}
	if folder.UserID != userID {
		return ErrNotOwned
	}
	return nil
}
