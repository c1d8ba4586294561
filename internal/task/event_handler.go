package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/events"
)

// TaskFactoryEventHandler bridges task request events to the task runner:
// it turns a mastery reset event into a concrete task and submits it. This
// keeps services emitting plain events with no dependency on this package.
type TaskFactoryEventHandler struct {
	factory *MasteryResetTaskFactory
	runner  *TaskRunner
	logger  *slog.Logger
}

// Ensure TaskFactoryEventHandler implements events.EventHandler.
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)

// NewTaskFactoryEventHandler creates an event handler that builds tasks with
// the given factory and submits them to the runner.
func NewTaskFactoryEventHandler(
	factory *MasteryResetTaskFactory,
	runner *TaskRunner,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskFactoryEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With(slog.String("component", "task_factory_event_handler")),
	}
}

// HandleEvent processes a task request event. Events of other types are
// ignored so additional handlers can coexist on the same emitter.
func (h *TaskFactoryEventHandler) HandleEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if event.Type != TaskTypeMasteryReset {
		h.logger.Debug("ignoring event of unrelated type",
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type))
		return nil
	}

	var payload MasteryResetPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal task request payload",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to unmarshal task request payload: %w", err)
	}

	t, err := h.factory.CreateTask(payload.CardIDs)
	if err != nil {
		h.logger.Error("failed to create task from event",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			slog.String("event_id", event.ID.String()),
			slog.String("task_id", t.ID().String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task submitted from event",
		slog.String("event_id", event.ID.String()),
		slog.String("task_id", t.ID().String()),
		slog.Int("card_count", len(payload.CardIDs)))
	return nil
}
