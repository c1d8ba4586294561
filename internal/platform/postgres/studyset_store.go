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

// PostgresStudySetStore implements the store.StudySetStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStudySetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySetStore creates a new PostgreSQL implementation of the
// StudySetStore interface. If logger is nil, a default logger will be used.
func NewPostgresStudySetStore(db store.DBTX, logger *slog.Logger) *PostgresStudySetStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependency.
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudySetStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_set_store")),
	}
}

// Ensure PostgresStudySetStore implements store.StudySetStore interface
var _ store.StudySetStore = (*PostgresStudySetStore)(nil)

const studySetColumns = `id, user_id, folder_id, title, description, is_public, card_count, created_at, updated_at`

// Create implements store.StudySetStore.Create.
// Returns store.ErrInvalidEntity if the owner or folder does not exist.
func (s *PostgresStudySetStore) Create(ctx context.Context, set *domain.StudySet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("study set validation failed during create",
			slog.String("error", err.Error()),
			slog.String("study_set_id", set.ID.String()))
		return err
	}

	query := `
		INSERT INTO study_sets (id, user_id, folder_id, title, description, is_public, card_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		set.ID,
		set.UserID,
		set.FolderID,
		set.Title,
		set.Description,
		set.IsPublic,
		set.CardCount,
		set.CreatedAt,
		set.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during study set creation",
				slog.String("study_set_id", set.ID.String()),
				slog.String("user_id", set.UserID.String()))
			return fmt.Errorf("%w: referenced user or folder not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create study set",
			slog.String("error", err.Error()),
			slog.String("study_set_id", set.ID.String()))
		return MapError(err)
	}

	log.Info("study set created",
		slog.String("study_set_id", set.ID.String()),
		slog.String("user_id", set.UserID.String()))
	return nil
}

// GetByID implements store.StudySetStore.GetByID.
// Returns store.ErrStudySetNotFound if the set does not exist.
func (s *PostgresStudySetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + studySetColumns + ` FROM study_sets WHERE id = $1`

	set, err := scanStudySet(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("study set not found", slog.String("study_set_id", id.String()))
			return nil, store.ErrStudySetNotFound
		}
		log.Error("failed to get study set by ID",
			slog.String("error", err.Error()),
			slog.String("study_set_id", id.String()))
		return nil, MapError(err)
	}

	return set, nil
}

// ListByUser implements store.StudySetStore.ListByUser.
func (s *PostgresStudySetStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySet, error) {
	query := `
		SELECT ` + studySetColumns + `
		FROM study_sets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return s.queryStudySets(ctx, query, userID)
}

// ListByFolder implements store.StudySetStore.ListByFolder.
// A nil folderID lists the user's unclassified sets.
func (s *PostgresStudySetStore) ListByFolder(
	ctx context.Context,
	userID uuid.UUID,
	folderID *uuid.UUID,
) ([]*domain.StudySet, error) {
	if folderID == nil {
		query := `
			SELECT ` + studySetColumns + `
			FROM study_sets
			WHERE user_id = $1 AND folder_id IS NULL
			ORDER BY created_at DESC
		`
		return s.queryStudySets(ctx, query, userID)
	}

	query := `
		SELECT ` + studySetColumns + `
		FROM study_sets
		WHERE user_id = $1 AND folder_id = $2
		ORDER BY created_at DESC
	`
	return s.queryStudySets(ctx, query, userID, *folderID)
}

// ListPublic implements store.StudySetStore.ListPublic.
// An empty query lists all public sets; otherwise titles are matched
// case-insensitively on a substring.
func (s *PostgresStudySetStore) ListPublic(
	ctx context.Context,
	query string,
	limit, offset int,
) ([]*domain.StudySet, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	if query == "" {
		sqlQuery := `
			SELECT ` + studySetColumns + `
			FROM study_sets
			WHERE is_public = TRUE
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		return s.queryStudySets(ctx, sqlQuery, limit, offset)
	}

	sqlQuery := `
		SELECT ` + studySetColumns + `
		FROM study_sets
		WHERE is_public = TRUE AND title ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return s.queryStudySets(ctx, sqlQuery, query, limit, offset)
}

// Update implements store.StudySetStore.Update.
// Returns store.ErrStudySetNotFound if the set does not exist.
func (s *PostgresStudySetStore) Update(ctx context.Context, set *domain.StudySet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("study set validation failed during update",
			slog.String("error", err.Error()),
			slog.String("study_set_id", set.ID.String()))
		return err
	}

	query := `
		UPDATE study_sets
		SET folder_id = $1, title = $2, description = $3, is_public = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		set.FolderID,
		set.Title,
		set.Description,
		set.IsPublic,
		time.Now().UTC(),
		set.ID,
	)
	if err != nil {
		log.Error("failed to update study set",
			slog.String("error", err.Error()),
			slog.String("study_set_id", set.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "study set"); err != nil {
		log.Debug("study set not found for update",
			slog.String("study_set_id", set.ID.String()))
		return store.ErrStudySetNotFound
	}

	log.Debug("study set updated", slog.String("study_set_id", set.ID.String()))
	return nil
}

// AdjustCardCount implements store.StudySetStore.AdjustCardCount.
// Returns store.ErrStudySetNotFound if the set does not exist.
func (s *PostgresStudySetStore) AdjustCardCount(ctx context.Context, id uuid.UUID, delta int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE study_sets
		SET card_count = card_count + $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, delta, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to adjust card count",
			slog.String("error", err.Error()),
			slog.String("study_set_id", id.String()),
			slog.Int("delta", delta))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "study set"); err != nil {
		return store.ErrStudySetNotFound
	}

	return nil
}

// Delete implements store.StudySetStore.Delete.
// The set's cards are removed by ON DELETE CASCADE.
// Returns store.ErrStudySetNotFound if the set does not exist.
func (s *PostgresStudySetStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM study_sets WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete study set",
			slog.String("error", err.Error()),
			slog.String("study_set_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "study set"); err != nil {
		log.Debug("study set not found for delete",
			slog.String("study_set_id", id.String()))
		return store.ErrStudySetNotFound
	}

	log.Info("study set deleted", slog.String("study_set_id", id.String()))
	return nil
}

// WithTx implements store.StudySetStore.WithTx.
func (s *PostgresStudySetStore) WithTx(tx *sql.Tx) store.StudySetStore {
	return &PostgresStudySetStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresStudySetStore) queryStudySets(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.StudySet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query study sets",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	sets := []*domain.StudySet{}
	for rows.Next() {
		set, err := scanStudySet(rows)
		if err != nil {
			log.Error("failed to scan study set row",
				slog.String("error", err.Error()))
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning study set rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return sets, nil
}

func scanStudySet(row rowScanner) (*domain.StudySet, error) {
	var set domain.StudySet
	var folderID uuid.NullUUID

	err := row.Scan(
		&set.ID,
		&set.UserID,
		&folderID,
		&set.Title,
		&set.Description,
		&set.IsPublic,
		&set.CardCount,
		&set.CreatedAt,
		&set.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if folderID.Valid {
		id := folderID.UUID
		set.FolderID = &id
	}

	return &set, nil
}
