package task_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTaskStore is an in-memory TaskStore for runner tests.
type memoryTaskStore struct {
	mu       sync.Mutex
	saved    map[uuid.UUID]task.Task
	statuses map[uuid.UUID]task.TaskStatus
	pending  []task.Task
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{
		saved:    make(map[uuid.UUID]task.Task),
		statuses: make(map[uuid.UUID]task.TaskStatus),
	}
}

func (s *memoryTaskStore) SaveTask(_ context.Context, t task.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved[t.ID()] = t
	s.statuses[t.ID()] = t.Status()
	return nil
}

func (s *memoryTaskStore) UpdateTaskStatus(_ context.Context, taskID uuid.UUID, status task.TaskStatus, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[taskID] = status
	return nil
}

func (s *memoryTaskStore) GetPendingTasks(_ context.Context) ([]task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]task.Task(nil), s.pending...), nil
}

func (s *memoryTaskStore) GetProcessingTasks(_ context.Context, _ time.Duration) ([]task.Task, error) {
	return nil, nil
}

func (s *memoryTaskStore) WithTx(_ *sql.Tx) task.TaskStore {
	return s
}

func (s *memoryTaskStore) statusOf(id uuid.UUID) task.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[id]
}

func runnerConfig() task.TaskRunnerConfig {
	return task.TaskRunnerConfig{
		WorkerCount:            1,
		QueueSize:              10,
		StuckTaskAge:           time.Minute,
		StuckTaskCheckInterval: time.Hour,
	}
}

func TestTaskRunnerProcessesSubmittedTask(t *testing.T) {
	store := newMemoryTaskStore()
	runner := task.NewTaskRunner(store, runnerConfig(), nil)

	executed := make(chan struct{})
	tsk := newTestTask(func(context.Context) error {
		close(executed)
		return nil
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	require.NoError(t, runner.Submit(context.Background(), tsk))

	select {
	case <-executed:
	case <-time.After(2 * time.Second):
		t.Fatal("task was not executed")
	}

	assert.Eventually(t, func() bool {
		return store.statusOf(tsk.ID()) == task.TaskStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTaskRunnerMarksFailedTask(t *testing.T) {
	store := newMemoryTaskStore()
	runner := task.NewTaskRunner(store, runnerConfig(), nil)

	var handled sync.WaitGroup
	handled.Add(1)
	runner.SetErrorHandler(func(task.Task, error) {
		handled.Done()
	})

	tsk := newTestTask(func(context.Context) error {
		return assert.AnError
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	require.NoError(t, runner.Submit(context.Background(), tsk))

	handled.Wait()
	assert.Eventually(t, func() bool {
		return store.statusOf(tsk.ID()) == task.TaskStatusFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTaskRunnerRecoversPendingTasks(t *testing.T) {
	store := newMemoryTaskStore()

	executed := make(chan struct{})
	tsk := newTestTask(func(context.Context) error {
		close(executed)
		return nil
	})
	store.pending = []task.Task{tsk}

	runner := task.NewTaskRunner(store, runnerConfig(), nil)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	select {
	case <-executed:
	case <-time.After(2 * time.Second):
		t.Fatal("recovered task was not executed")
	}
}
