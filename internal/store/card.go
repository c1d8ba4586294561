package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card to the store.
	// Returns validation errors if the card data is invalid.
	//
	// Creating a card changes the owning set's denormalized card count, so
	// this method should run inside a transaction together with
	// StudySetStore.AdjustCardCount. Use WithTx and store.RunInTransaction.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves multiple cards to the store.
	// MUST run within a transaction so a failure cannot leave a partial
	// import behind; use WithTx with store.RunInTransaction.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetBySetID retrieves all cards in a study set, ordered by position.
	// An existing set with no cards yields an empty slice, not an error.
	GetBySetID(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error)

	// UpdateContent modifies an existing card's front and back text.
	// Returns ErrCardNotFound if the card does not exist and validation
	// errors if either side is empty.
	UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error

	// UpdateMastery sets a card's mastery flag and stamps last_reviewed_at.
	// The write is idempotent: setting the flag to its current value
	// succeeds and still updates the review timestamp.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateMastery(ctx context.Context, id uuid.UUID, mastered bool) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	// Like Create, this changes the owning set's card count and should run
	// in a transaction with StudySetStore.AdjustCardCount.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction, so multiple
	// operations can run atomically. The transaction is created and managed
	// by the caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
