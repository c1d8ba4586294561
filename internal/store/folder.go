package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// FolderStore defines the interface for folder persistence.
type FolderStore interface {
	// Create saves a new folder to the store.
	// Returns validation errors if the folder data is invalid.
	Create(ctx context.Context, folder *domain.Folder) error

	// GetByID retrieves a folder by its unique ID.
	// Returns ErrFolderNotFound if the folder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error)

	// ListByUser retrieves all folders owned by a user, by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error)

	// Update renames a folder.
	// Returns ErrFolderNotFound if the folder does not exist.
	Update(ctx context.Context, folder *domain.Folder) error

	// Delete removes a folder by its ID. Study sets inside it are kept and
	// become unclassified (folder_id set to NULL by the schema).
	// Returns ErrFolderNotFound if the folder does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a FolderStore bound to the given transaction.
	WithTx(tx *sql.Tx) FolderStore
}
