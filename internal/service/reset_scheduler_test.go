package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEmitter struct {
	events []*events.TaskRequestEvent
	err    error
}

func (e *captureEmitter) EmitEvent(_ context.Context, event *events.TaskRequestEvent) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

func TestEventResetScheduler(t *testing.T) {
	t.Run("emits a mastery reset event", func(t *testing.T) {
		emitter := &captureEmitter{}
		scheduler := service.NewEventResetScheduler(emitter, testLogger())

		ids := []uuid.UUID{uuid.New(), uuid.New()}
		scheduler.ScheduleMasteryReset(context.Background(), ids)

		require.Len(t, emitter.events, 1)
		event := emitter.events[0]
		assert.Equal(t, "mastery_reset", event.Type)

		var payload struct {
			CardIDs []uuid.UUID `json:"card_ids"`
		}
		require.NoError(t, event.UnmarshalPayload(&payload))
		assert.Equal(t, ids, payload.CardIDs)
	})

	t.Run("empty batch emits nothing", func(t *testing.T) {
		emitter := &captureEmitter{}
		scheduler := service.NewEventResetScheduler(emitter, testLogger())

		scheduler.ScheduleMasteryReset(context.Background(), nil)
		assert.Empty(t, emitter.events)
	})

	t.Run("emit failure is swallowed", func(t *testing.T) {
		emitter := &captureEmitter{err: errors.New("bus is down")}
		scheduler := service.NewEventResetScheduler(emitter, testLogger())

		// Must not panic or surface the error.
		scheduler.ScheduleMasteryReset(context.Background(), []uuid.UUID{uuid.New()})
	})
}

func TestMasteryWriter(t *testing.T) {
	cards := newFakeCardStore()
	writer := service.NewMasteryWriter(cards)

	card, err := domain.NewCard(uuid.New(), "front", "back", 0)
	require.NoError(t, err)
	require.NoError(t, cards.Create(context.Background(), card))

	require.NoError(t, writer.UpdateCardMastery(context.Background(), card.ID, true))
	stored, err := cards.GetByID(context.Background(), card.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsMastered)
}
