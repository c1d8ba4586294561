package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CardMasteryStore is the slice of the card store a mastery reset needs.
type CardMasteryStore interface {
	UpdateMastery(ctx context.Context, id uuid.UUID, mastered bool) error
}

// MasteryResetPayload is the persisted payload of a mastery reset task.
type MasteryResetPayload struct {
	CardIDs []uuid.UUID `json:"card_ids"`
}

// MasteryResetTask clears the mastery flag on a batch of cards. The learner
// has already seen the reset applied locally, so individual write failures
// are collected and reported through the task status rather than surfaced
// to the session.
type MasteryResetTask struct {
	id        uuid.UUID
	payload   []byte
	cardIDs   []uuid.UUID
	cardStore CardMasteryStore
	logger    *slog.Logger
}

// Ensure MasteryResetTask implements the Task interface.
var _ Task = (*MasteryResetTask)(nil)

// NewMasteryResetTask creates a task that resets mastery on the given cards.
func NewMasteryResetTask(
	cardIDs []uuid.UUID,
	cardStore CardMasteryStore,
	logger *slog.Logger,
) (*MasteryResetTask, error) {
	if len(cardIDs) == 0 {
		return nil, errors.New("mastery reset requires at least one card ID")
	}
	if cardStore == nil {
		return nil, errors.New("card store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	payload, err := json.Marshal(MasteryResetPayload{CardIDs: cardIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mastery reset payload: %w", err)
	}

	return &MasteryResetTask{
		id:        uuid.New(),
		payload:   payload,
		cardIDs:   cardIDs,
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "mastery_reset_task")),
	}, nil
}

// ID returns the task's unique identifier.
func (t *MasteryResetTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *MasteryResetTask) Type() string {
	return TaskTypeMasteryReset
}

// Payload returns the task data as a byte slice.
func (t *MasteryResetTask) Payload() []byte {
	return t.payload
}

// Status returns the task's initial status. Later transitions live in the
// task store, not on the task value.
func (t *MasteryResetTask) Status() TaskStatus {
	return TaskStatusPending
}

// Execute clears the mastery flag on each card. Cards that no longer exist
// are skipped; other failures are joined into the returned error so the
// task is marked failed with the full picture.
func (t *MasteryResetTask) Execute(ctx context.Context) error {
	log := t.logger.With(slog.String("task_id", t.id.String()))
	log.Info("resetting mastery", slog.Int("card_count", len(t.cardIDs)))

	var errs []error
	for _, cardID := range t.cardIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := t.cardStore.UpdateMastery(ctx, cardID, false); err != nil {
			log.Warn("failed to reset card mastery",
				slog.String("card_id", cardID.String()),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("card %s: %w", cardID, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("mastery reset finished with %d failed writes: %w",
			len(errs), errors.Join(errs...))
	}

	log.Info("mastery reset complete", slog.Int("card_count", len(t.cardIDs)))
	return nil
}

// MasteryResetTaskFactory creates MasteryResetTask instances and rebuilds
// them from persisted payloads during recovery.
type MasteryResetTaskFactory struct {
	cardStore CardMasteryStore
	logger    *slog.Logger
}

// NewMasteryResetTaskFactory creates a new factory for MasteryResetTasks.
func NewMasteryResetTaskFactory(cardStore CardMasteryStore, logger *slog.Logger) *MasteryResetTaskFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &MasteryResetTaskFactory{
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "mastery_reset_task_factory")),
	}
}

// CreateTask creates a new MasteryResetTask for the given cards.
func (f *MasteryResetTaskFactory) CreateTask(cardIDs []uuid.UUID) (Task, error) {
	return NewMasteryResetTask(cardIDs, f.cardStore, f.logger)
}

// Reconstruct implements the Reconstructor contract for mastery reset rows.
// The persisted id is kept so status updates land on the original row.
func (f *MasteryResetTaskFactory) Reconstruct(id uuid.UUID, taskType string, payload []byte) (Task, error) {
	if taskType != TaskTypeMasteryReset {
		return nil, fmt.Errorf("unknown task type %q", taskType)
	}

	var p MasteryResetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mastery reset payload: %w", err)
	}

	t, err := NewMasteryResetTask(p.CardIDs, f.cardStore, f.logger)
	if err != nil {
		return nil, err
	}
	t.id = id
	return t, nil
}
