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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. The caller owns the connection or transaction.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforces non-nil dependency.
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, study_set_id, front, back, position, is_mastered, last_reviewed_at, created_at, updated_at`

// Create implements store.CardStore.Create.
// Returns store.ErrInvalidEntity if the study set does not exist.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (id, study_set_id, front, back, position, is_mastered, last_reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.StudySetID,
		card.Front,
		card.Back,
		card.Position,
		card.IsMastered,
		card.LastReviewedAt,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("card_id", card.ID.String()),
				slog.String("study_set_id", card.StudySetID.String()))
			return fmt.Errorf("%w: study set with ID %s not found",
				store.ErrInvalidEntity, card.StudySetID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("study_set_id", card.StudySetID.String()))
	return nil
}

// CreateMultiple implements store.CardStore.CreateMultiple.
// Run this inside a transaction; a mid-batch failure otherwise leaves a
// partial import behind.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
	}

	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to create card %s: %w", card.ID, err)
		}
	}

	log.Info("cards created",
		slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// GetBySetID implements store.CardStore.GetBySetID.
// Cards come back ordered by position so callers get the authoring order.
func (s *PostgresCardStore) GetBySetID(ctx context.Context, setID uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE study_set_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, setID)
	if err != nil {
		log.Error("failed to query cards by set",
			slog.String("error", err.Error()),
			slog.String("study_set_id", setID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()),
				slog.String("study_set_id", setID.String()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning card rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("cards retrieved for set",
		slog.String("study_set_id", setID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateContent implements store.CardStore.UpdateContent.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if front == "" {
		return domain.ErrCardFrontEmpty
	}
	if back == "" {
		return domain.ErrCardBackEmpty
	}

	query := `
		UPDATE cards
		SET front = $1, back = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, front, back, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update card content",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found for content update",
			slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Debug("card content updated", slog.String("card_id", id.String()))
	return nil
}

// UpdateMastery implements store.CardStore.UpdateMastery.
// The write is idempotent; repeating a judgment only moves last_reviewed_at.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) UpdateMastery(ctx context.Context, id uuid.UUID, mastered bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()
	query := `
		UPDATE cards
		SET is_mastered = $1, last_reviewed_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, mastered, now, now, id)
	if err != nil {
		log.Error("failed to update card mastery",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()),
			slog.Bool("mastered", mastered))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found for mastery update",
			slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Debug("card mastery updated",
		slog.String("card_id", id.String()),
		slog.Bool("mastered", mastered))
	return nil
}

// Delete implements store.CardStore.Delete.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		log.Debug("card not found for delete",
			slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Debug("card deleted", slog.String("card_id", id.String()))
	return nil
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.StudySetID,
		&card.Front,
		&card.Back,
		&card.Position,
		&card.IsMastered,
		&lastReviewedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		t := lastReviewedAt.Time
		card.LastReviewedAt = &t
	}

	return &card, nil
}
