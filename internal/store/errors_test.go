package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsWrapGenericSentinels(t *testing.T) {
	notFound := []error{
		store.ErrUserNotFound,
		store.ErrStudySetNotFound,
		store.ErrCardNotFound,
		store.ErrFolderNotFound,
	}
	for _, err := range notFound {
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.True(t, store.IsNotFoundError(err))
		assert.False(t, store.IsDuplicateError(err))
	}

	assert.ErrorIs(t, store.ErrEmailExists, store.ErrDuplicate)
	assert.True(t, store.IsDuplicateError(store.ErrEmailExists))
	assert.False(t, store.IsNotFoundError(store.ErrEmailExists))
}

func TestIsHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading session: %w", store.ErrCardNotFound)
	assert.True(t, store.IsNotFoundError(wrapped))

	unrelated := errors.New("connection refused")
	assert.False(t, store.IsNotFoundError(unrelated))
	assert.False(t, store.IsDuplicateError(unrelated))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := store.NewStoreError("card", "update", "failed to update mastery", cause)

	assert.Contains(t, err.Error(), "update operation on card failed")
	assert.Contains(t, err.Error(), "deadlock")
	assert.ErrorIs(t, err, cause)

	var storeErr *store.StoreError
	assert.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "card", storeErr.Entity)
}
