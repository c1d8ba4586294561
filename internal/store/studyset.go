package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// StudySetStore defines the interface for study set persistence.
type StudySetStore interface {
	// Create saves a new study set to the store.
	// Returns validation errors if the set data is invalid.
	Create(ctx context.Context, set *domain.StudySet) error

	// GetByID retrieves a study set by its unique ID.
	// Returns ErrStudySetNotFound if the set does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySet, error)

	// ListByUser retrieves all study sets owned by a user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySet, error)

	// ListByFolder retrieves a user's study sets inside a folder, newest
	// first. A nil folderID lists the user's unclassified sets.
	ListByFolder(ctx context.Context, userID uuid.UUID, folderID *uuid.UUID) ([]*domain.StudySet, error)

	// ListPublic retrieves public study sets, newest first, optionally
	// filtered by a case-insensitive title substring. limit and offset page
	// the result.
	ListPublic(ctx context.Context, query string, limit, offset int) ([]*domain.StudySet, error)

	// Update modifies a set's title, description, folder, and visibility.
	// Returns ErrStudySetNotFound if the set does not exist.
	Update(ctx context.Context, set *domain.StudySet) error

	// AdjustCardCount shifts the set's denormalized card count by delta.
	// Must run in the same transaction as the card write that caused the
	// shift; use WithTx.
	AdjustCardCount(ctx context.Context, id uuid.UUID, delta int) error

	// Delete removes a study set by its ID. The set's cards go with it via
	// ON DELETE CASCADE on the cards table.
	// Returns ErrStudySetNotFound if the set does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a StudySetStore bound to the given transaction.
	WithTx(tx *sql.Tx) StudySetStore
}
