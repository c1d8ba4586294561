package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid refresh token", auth.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{"unauthorized operation", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"not owned", service.ErrNotOwned, http.StatusForbidden},
		{"study set not found", store.ErrStudySetNotFound, http.StatusNotFound},
		{"card not found", store.ErrCardNotFound, http.StatusNotFound},
		{"folder not found", store.ErrFolderNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"session not found", service.ErrSessionNotFound, http.StatusNotFound},
		{"session load failure", &service.SessionLoadError{Message: "invalid study set id"}, http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"validation error", domain.ErrValidation, http.StatusBadRequest},
		{"empty card front", domain.ErrCardFrontEmpty, http.StatusBadRequest},
		{"invalid learning mode", domain.ErrInvalidLearningMode, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"unknown error", errors.New("database exploded"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("getting set: %w", store.ErrStudySetNotFound), http.StatusNotFound},
		{"wrapped not owned", fmt.Errorf("checking access: %w", service.ErrNotOwned), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"not owned", service.ErrNotOwned, "You do not have access to this resource"},
		{"study set not found", store.ErrStudySetNotFound, "Study set not found"},
		{"card not found", store.ErrCardNotFound, "Card not found"},
		{"session not found", service.ErrSessionNotFound, "Learning session not found"},
		{"email exists", store.ErrEmailExists, "Email already exists"},
		{"invalid learning mode", domain.ErrInvalidLearningMode, "Invalid learning mode"},
		{"unknown error hides detail", errors.New("pq: connection refused host=db password=secret"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}

	t.Run("load error passes its message through", func(t *testing.T) {
		err := &service.SessionLoadError{Message: "unable to load study set data"}
		assert.Equal(t, "unable to load study set data", GetSafeErrorMessage(err))
	})

	t.Run("validation errors keep their message", func(t *testing.T) {
		msg := GetSafeErrorMessage(domain.ErrCardFrontEmpty)
		assert.Contains(t, msg, "card front")
	})
}
