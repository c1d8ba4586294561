package session

import (
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
)

// BasicController drives sequential browsing of a study set. It tracks which
// cards have been seen (by card ID, so the set survives reshuffles) and
// supports an in-place shuffle toggle that can always restore the original
// order.
type BasicController struct {
	s *Session
}

// Next marks the current card as viewed and advances to the next one.
// Viewing the final unseen card schedules the completion callback instead of
// advancing, so the learner stays on the last card while the flip settles.
// Next on an empty display sequence is a no-op.
func (b *BasicController) Next() {
	s := b.s

	s.mu.Lock()
	cur := s.currentLocked()
	if cur == nil {
		s.mu.Unlock()
		return
	}

	if _, seen := s.viewed[cur.ID]; !seen {
		s.viewed[cur.ID] = struct{}{}
		if len(s.viewed) >= len(s.display) {
			s.mu.Unlock()
			s.scheduleCompletion()
			s.closeFlip()
			return
		}
	}

	if s.index < len(s.display)-1 {
		s.index++
	}
	s.mu.Unlock()

	s.closeFlip()
}

// Prev steps back to the previous card and un-views it, so the forward pass
// will count it again. At index 0 this is a no-op.
func (b *BasicController) Prev() {
	s := b.s

	s.mu.Lock()
	if s.index == 0 {
		s.mu.Unlock()
		return
	}

	if prev := s.display[s.index-1]; prev != nil {
		delete(s.viewed, prev.ID)
	}
	s.index--
	s.mu.Unlock()

	s.closeFlip()
}

// Shuffle toggles shuffle state: turning it on shuffles the current display
// sequence, turning it off restores the original card order. The index and
// viewed set are preserved either way.
func (b *BasicController) Shuffle() {
	s := b.s

	s.mu.Lock()
	if s.shuffled {
		s.display = append([]*domain.Card(nil), s.cards...)
		s.shuffled = false
	} else {
		s.display = shuffleCopy(s.display)
		s.shuffled = true
	}
	s.mu.Unlock()

	s.closeFlip()
}

// Restart clears the viewed set and returns to the first card. The current
// display order (shuffled or not) is kept.
func (b *BasicController) Restart() {
	s := b.s

	s.mu.Lock()
	s.viewed = make(map[uuid.UUID]struct{})
	s.index = 0
	s.mu.Unlock()

	s.closeFlip()
}

// CanGoNext reports whether any cards remain unviewed.
func (b *BasicController) CanGoNext() bool {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return len(b.s.viewed) < len(b.s.display)
}

// CanGoPrev reports whether the learner can step back.
func (b *BasicController) CanGoPrev() bool {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.index > 0
}

// ViewedCount returns how many distinct cards have been viewed.
func (b *BasicController) ViewedCount() int {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return len(b.s.viewed)
}

// IsShuffled reports whether the display sequence is currently shuffled.
func (b *BasicController) IsShuffled() bool {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return b.s.shuffled
}
