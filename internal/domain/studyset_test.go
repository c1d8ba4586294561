package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewStudySet(t *testing.T) {
	t.Parallel() // Enable parallel execution
	userID := uuid.New()

	set, err := NewStudySet(userID, "Go basics", "terms from the tour")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if set.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if set.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, set.UserID)
	}

	if !set.IsPublic {
		t.Error("Expected new set to default to public")
	}

	if set.CardCount != 0 {
		t.Errorf("Expected card count 0, got %d", set.CardCount)
	}

	if set.FolderID != nil {
		t.Error("Expected new set to be unclassified")
	}

	// Test invalid user ID
	_, err = NewStudySet(uuid.Nil, "title", "")
	if err != ErrStudySetUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrStudySetUserIDEmpty, err)
	}

	// Test empty title
	_, err = NewStudySet(userID, "", "")
	if err != ErrStudySetTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrStudySetTitleEmpty, err)
	}
}

func TestStudySetValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validSet := StudySet{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Title:  "Go basics",
	}

	if err := validSet.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidSet := validSet
	invalidSet.ID = uuid.Nil
	if err := invalidSet.Validate(); err != ErrStudySetIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrStudySetIDEmpty, err)
	}

	invalidSet = validSet
	invalidSet.CardCount = -1
	if err := invalidSet.Validate(); err != ErrStudySetCardCountNegative {
		t.Errorf("Expected error %v, got %v", ErrStudySetCardCountNegative, err)
	}
}

func TestNewFolder(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	folder, err := NewFolder(userID, "languages")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if folder.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, folder.UserID)
	}

	_, err = NewFolder(userID, "")
	if err != ErrFolderNameEmpty {
		t.Errorf("Expected error %v, got %v", ErrFolderNameEmpty, err)
	}
}
