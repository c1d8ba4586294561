package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFactoryEventHandler(t *testing.T) {
	t.Run("mastery reset event becomes an executed task", func(t *testing.T) {
		store := newMemoryTaskStore()
		cardStore := &fakeCardMasteryStore{}

		runner := task.NewTaskRunner(store, runnerConfig(), nil)
		require.NoError(t, runner.Start())
		defer runner.Stop()

		factory := task.NewMasteryResetTaskFactory(cardStore, nil)
		handler := task.NewTaskFactoryEventHandler(factory, runner, nil)

		ids := someCardIDs(3)
		event, err := events.NewTaskRequestEvent(
			task.TaskTypeMasteryReset,
			task.MasteryResetPayload{CardIDs: ids},
		)
		require.NoError(t, err)

		require.NoError(t, handler.HandleEvent(context.Background(), event))

		assert.Eventually(t, func() bool {
			cardStore.mu.Lock()
			defer cardStore.mu.Unlock()
			return len(cardStore.writes) == len(ids)
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("unrelated event types are ignored", func(t *testing.T) {
		store := newMemoryTaskStore()
		runner := task.NewTaskRunner(store, runnerConfig(), nil)
		factory := task.NewMasteryResetTaskFactory(&fakeCardMasteryStore{}, nil)
		handler := task.NewTaskFactoryEventHandler(factory, runner, nil)

		event, err := events.NewTaskRequestEvent("something_else", map[string]string{})
		require.NoError(t, err)

		assert.NoError(t, handler.HandleEvent(context.Background(), event))
		assert.Empty(t, store.saved)
	})

	t.Run("malformed payload fails", func(t *testing.T) {
		store := newMemoryTaskStore()
		runner := task.NewTaskRunner(store, runnerConfig(), nil)
		factory := task.NewMasteryResetTaskFactory(&fakeCardMasteryStore{}, nil)
		handler := task.NewTaskFactoryEventHandler(factory, runner, nil)

		event := &events.TaskRequestEvent{
			Type:    task.TaskTypeMasteryReset,
			Payload: []byte("not json"),
		}

		assert.Error(t, handler.HandleEvent(context.Background(), event))
	})
}
