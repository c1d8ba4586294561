package api

import (
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/google/uuid"
)

// Request/response structures for the Flashdeck API.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UpdateEmailRequest defines the payload for changing the account email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest defines the payload for changing the account password.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// UserResponse is the public view of a user account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// CardPayload is the front/back content of one card in a request.
type CardPayload struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// CreateStudySetRequest defines the payload for creating a study set,
// optionally with its initial cards.
type CreateStudySetRequest struct {
	Title       string        `json:"title"       validate:"required,max=255"`
	Description string        `json:"description" validate:"max=2000"`
	FolderID    *uuid.UUID    `json:"folder_id,omitempty"`
	Cards       []CardPayload `json:"cards"       validate:"omitempty,dive"`
}

// UpdateStudySetRequest defines the payload for updating a study set.
type UpdateStudySetRequest struct {
	Title       string     `json:"title"       validate:"required,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	FolderID    *uuid.UUID `json:"folder_id,omitempty"`
}

// SetVisibilityRequest defines the payload for changing a set's visibility.
type SetVisibilityRequest struct {
	IsPublic *bool `json:"is_public" validate:"required"`
}

// CreateCardsRequest defines the payload for adding cards to a set.
type CreateCardsRequest struct {
	Cards []CardPayload `json:"cards" validate:"required,min=1,dive"`
}

// UpdateCardRequest defines the payload for editing a card.
type UpdateCardRequest struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back"  validate:"required"`
}

// UpdateMasteryRequest defines the payload for flipping a card's mastery flag.
type UpdateMasteryRequest struct {
	IsMastered *bool `json:"is_mastered" validate:"required"`
}

// FolderRequest defines the payload for creating or renaming a folder.
type FolderRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateSessionRequest defines the payload for opening a learning session.
type CreateSessionRequest struct {
	StudySetID string `json:"study_set_id" validate:"required"`
}

// SelectModeRequest defines the payload for entering a learning mode.
type SelectModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=basic study"`
}

// MasteryJudgmentRequest defines the payload for judging the current card in
// study mode.
type MasteryJudgmentRequest struct {
	Mastered *bool `json:"mastered" validate:"required"`
}

// KeyRequest defines the payload for the keyboard shortcut endpoint.
type KeyRequest struct {
	Key string `json:"key" validate:"required,oneof=space left right"`
}

// SessionResponse carries a session's ID together with its current state.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	State     session.Snapshot `json:"state"`
}

// MasteryOutcomeResponse reports the result of a mastery judgment: the card
// judged, whether the write committed, and the state after traversal.
type MasteryOutcomeResponse struct {
	CardID    uuid.UUID        `json:"card_id"`
	Committed bool             `json:"committed"`
	State     session.Snapshot `json:"state"`
}

// ContinueResponse reports whether a continue round started.
type ContinueResponse struct {
	Started bool             `json:"started"`
	State   session.Snapshot `json:"state"`
}
