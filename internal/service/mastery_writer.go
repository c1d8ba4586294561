package service

import (
	"context"

	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
)

// MasteryWriter adapts a CardStore to the narrow write interface learning
// sessions need. Sessions only flip mastery flags; they never create or
// delete cards, so they never touch a set's card count.
type MasteryWriter struct {
	cards store.CardStore
}

var _ session.MasteryStore = (*MasteryWriter)(nil)

// NewMasteryWriter creates a MasteryWriter over the given card store.
func NewMasteryWriter(cards store.CardStore) *MasteryWriter {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforces required dependency
		panic("card store cannot be nil")
	}
	return &MasteryWriter{cards: cards}
}

// UpdateCardMastery implements session.MasteryStore.
func (w *MasteryWriter) UpdateCardMastery(ctx context.Context, cardID uuid.UUID, mastered bool) error {
	return w.cards.UpdateMastery(ctx, cardID, mastered)
}
