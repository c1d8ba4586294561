package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Folder-specific validation errors. All wrap ErrValidation so callers can
// treat them as one class.
var (
	// ErrFolderIDEmpty is returned when a folder ID is empty or nil.
	ErrFolderIDEmpty = fmt.Errorf("%w: folder ID cannot be empty", ErrValidation)

	// ErrFolderUserIDEmpty is returned when a folder's user ID is empty or nil.
	ErrFolderUserIDEmpty = fmt.Errorf("%w: folder user ID cannot be empty", ErrValidation)

	// ErrFolderNameEmpty is returned when a folder's name is empty.
	ErrFolderNameEmpty = fmt.Errorf("%w: folder name cannot be empty", ErrValidation)
)

// Folder groups a user's study sets. Sets without a folder are "unclassified".
type Folder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFolder creates a new Folder owned by the given user.
// Returns an error if validation fails.
func NewFolder(userID uuid.UUID, name string) (*Folder, error) {
	folder := &Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := folder.Validate(); err != nil {
		return nil, err
	}

	return folder, nil
}

// Validate checks if the Folder has valid data.
// Returns an error if any field fails validation.
func (f *Folder) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFolderIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFolderUserIDEmpty
	}

	if f.Name == "" {
		return ErrFolderNameEmpty
	}

	return nil
}
