package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
)

// PostgresFolderStore implements the store.FolderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFolderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFolderStore creates a new PostgreSQL implementation of the
// FolderStore interface. If logger is nil, a default logger will be used.
func NewPostgresFolderStore(db store.DBTX, logger *slog.Logger) *PostgresFolderStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependency.
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFolderStore{
		db:     db,
		logger: logger.With(slog.String("component", "folder_store")),
	}
}

// Ensure PostgresFolderStore implements store.FolderStore interface
var _ store.FolderStore = (*PostgresFolderStore)(nil)

// Create implements store.FolderStore.Create.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresFolderStore) Create(ctx context.Context, folder *domain.Folder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := folder.Validate(); err != nil {
		log.Warn("folder validation failed during create",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return err
	}

	query := `
		INSERT INTO folders (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, folder.UserID)
		}

		log.Error("failed to create folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return MapError(err)
	}

	log.Debug("folder created",
		slog.String("folder_id", folder.ID.String()),
		slog.String("user_id", folder.UserID.String()))
	return nil
}

// GetByID implements store.FolderStore.GetByID.
// Returns store.ErrFolderNotFound if the folder does not exist.
func (s *PostgresFolderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE id = $1
	`

	var folder domain.Folder
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("folder not found", slog.String("folder_id", id.String()))
			return nil, store.ErrFolderNotFound
		}
		log.Error("failed to get folder by ID",
			slog.String("error", err.Error()),
			slog.String("folder_id", id.String()))
		return nil, MapError(err)
	}

	return &folder, nil
}

// ListByUser implements store.FolderStore.ListByUser.
func (s *PostgresFolderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM folders
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query folders",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	folders := []*domain.Folder{}
	for rows.Next() {
		var folder domain.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.UserID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan folder row",
				slog.String("error", err.Error()))
			return nil, err
		}
		folders = append(folders, &folder)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning folder rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return folders, nil
}

// Update implements store.FolderStore.Update.
// Returns store.ErrFolderNotFound if the folder does not exist.
func (s *PostgresFolderStore) Update(ctx context.Context, folder *domain.Folder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := folder.Validate(); err != nil {
		log.Warn("folder validation failed during update",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return err
	}

	query := `
		UPDATE folders
		SET name = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, folder.Name, time.Now().UTC(), folder.ID)
	if err != nil {
		log.Error("failed to update folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folder.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "folder"); err != nil {
		log.Debug("folder not found for update",
			slog.String("folder_id", folder.ID.String()))
		return store.ErrFolderNotFound
	}

	return nil
}

// Delete implements store.FolderStore.Delete.
// Sets inside the folder survive; the schema nulls their folder_id.
// Returns store.ErrFolderNotFound if the folder does not exist.
func (s *PostgresFolderStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "folder"); err != nil {
		log.Debug("folder not found for delete",
			slog.String("folder_id", id.String()))
		return store.ErrFolderNotFound
	}

	log.Debug("folder deleted", slog.String("folder_id", id.String()))
	return nil
}

// WithTx implements store.FolderStore.WithTx.
func (s *PostgresFolderStore) WithTx(tx *sql.Tx) store.FolderStore {
	return &PostgresFolderStore{
		db:     tx,
		logger: s.logger,
	}
}
