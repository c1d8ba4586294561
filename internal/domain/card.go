package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors. All wrap ErrValidation so callers can
// treat them as one class.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)

	// ErrCardSetIDEmpty is returned when a card's study set ID is empty or nil.
	ErrCardSetIDEmpty = fmt.Errorf("%w: card study set ID cannot be empty", ErrValidation)

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = fmt.Errorf("%w: card front cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when a card's back text is empty.
	ErrCardBackEmpty = fmt.Errorf("%w: card back cannot be empty", ErrValidation)

	// ErrCardPositionNegative is returned when a card's position is negative.
	ErrCardPositionNegative = fmt.Errorf("%w: card position cannot be negative", ErrValidation)
)

// Card represents a single term/definition pair belonging to exactly one
// study set. Mastery is a self-reported flag flipped during study sessions.
type Card struct {
	ID             uuid.UUID  `json:"id"`
	StudySetID     uuid.UUID  `json:"study_set_id"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Position       int        `json:"position"`
	IsMastered     bool       `json:"is_mastered"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCard creates a new Card with the given study set ID, front/back text,
// and position within the set. It generates a new UUID for the card ID and
// sets the creation/update timestamps. Returns an error if validation fails.
func NewCard(studySetID uuid.UUID, front, back string, position int) (*Card, error) {
	card := &Card{
		ID:         uuid.New(),
		StudySetID: studySetID,
		Front:      front,
		Back:       back,
		Position:   position,
		IsMastered: false,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.StudySetID == uuid.Nil {
		return ErrCardSetIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	if c.Position < 0 {
		return ErrCardPositionNegative
	}

	return nil
}

// SetMastery updates the card's mastery flag, stamps LastReviewedAt, and
// updates the UpdatedAt timestamp. Setting the same value twice is harmless.
func (c *Card) SetMastery(mastered bool) {
	now := time.Now().UTC()
	c.IsMastered = mastered
	c.LastReviewedAt = &now
	c.UpdatedAt = now
}

// UpdateContent updates the card's front/back text and the UpdatedAt
// timestamp. Returns an error if the new content is invalid.
func (c *Card) UpdateContent(front, back string) error {
	origFront, origBack := c.Front, c.Back
	c.Front = front
	c.Back = back

	if err := c.Validate(); err != nil {
		c.Front, c.Back = origFront, origBack
		return err
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}
