package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StudySet-specific validation errors. All wrap ErrValidation so callers can
// treat them as one class.
var (
	// ErrStudySetIDEmpty is returned when a study set ID is empty or nil.
	ErrStudySetIDEmpty = fmt.Errorf("%w: study set ID cannot be empty", ErrValidation)

	// ErrStudySetUserIDEmpty is returned when a study set's user ID is empty or nil.
	ErrStudySetUserIDEmpty = fmt.Errorf("%w: study set user ID cannot be empty", ErrValidation)

	// ErrStudySetTitleEmpty is returned when a study set's title is empty.
	ErrStudySetTitleEmpty = fmt.Errorf("%w: study set title cannot be empty", ErrValidation)

	// ErrStudySetCardCountNegative is returned when a study set's card count is negative.
	ErrStudySetCardCountNegative = fmt.Errorf("%w: study set card count cannot be negative", ErrValidation)
)

// StudySet represents a named collection of cards owned by a user.
//
// CardCount is a denormalized count of the set's cards. Every writer that
// creates or deletes cards must adjust it in the same transaction; the
// learning session only reads cards and flips mastery, so it never touches it.
// FolderID is nil for unclassified sets.
type StudySet struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FolderID    *uuid.UUID `json:"folder_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsPublic    bool       `json:"is_public"`
	CardCount   int        `json:"card_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewStudySet creates a new empty StudySet owned by the given user.
// New sets default to public, matching the product behavior.
// Returns an error if validation fails.
func NewStudySet(userID uuid.UUID, title, description string) (*StudySet, error) {
	set := &StudySet{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		IsPublic:    true,
		CardCount:   0,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks if the StudySet has valid data.
// Returns an error if any field fails validation.
func (s *StudySet) Validate() error {
	if s.ID == uuid.Nil {
		return ErrStudySetIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrStudySetUserIDEmpty
	}

	if s.Title == "" {
		return ErrStudySetTitleEmpty
	}

	if s.CardCount < 0 {
		return ErrStudySetCardCountNegative
	}

	return nil
}
