package service

import (
	"context"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/google/uuid"
)

// EventResetScheduler schedules mastery reset writes by emitting task request
// events. The actual store writes happen in the background task runner, so a
// session's reset returns immediately and a scheduling failure never reaches
// the learner. Failures are logged only.
type EventResetScheduler struct {
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ session.ResetScheduler = (*EventResetScheduler)(nil)

// NewEventResetScheduler creates an EventResetScheduler over the given emitter.
func NewEventResetScheduler(emitter events.EventEmitter, logger *slog.Logger) *EventResetScheduler {
	if emitter == nil {
		// ALLOW-PANIC: Constructor enforces required dependency
		panic("event emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventResetScheduler{
		emitter: emitter,
		logger:  logger.With(slog.String("component", "reset_scheduler")),
	}
}

// ScheduleMasteryReset implements session.ResetScheduler.
// The payload shape matches what the mastery reset task expects; the event
// keeps this package free of a direct task dependency.
func (s *EventResetScheduler) ScheduleMasteryReset(ctx context.Context, cardIDs []uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cardIDs) == 0 {
		return
	}

	event, err := events.NewTaskRequestEvent("mastery_reset", struct {
		CardIDs []uuid.UUID `json:"card_ids"`
	}{CardIDs: cardIDs})
	if err != nil {
		log.Error("failed to build mastery reset event",
			slog.String("error", err.Error()),
			slog.Int("card_count", len(cardIDs)))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit mastery reset event",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.Int("card_count", len(cardIDs)))
		return
	}

	log.Debug("mastery reset scheduled",
		slog.String("event_id", event.ID.String()),
		slog.Int("card_count", len(cardIDs)))
}
