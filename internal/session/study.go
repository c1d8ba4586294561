package session

import (
	"context"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// WriteOutcome reports how an optimistic mastery write settled. Navigation
// never waits on persistence, so by the time an outcome is observed the
// learner has already moved on; callers use it for logging and metrics, not
// control flow.
type WriteOutcome struct {
	// CardID is the card whose mastery was judged. Zero when the judgment
	// was a no-op (no current card).
	CardID uuid.UUID

	// Committed is true when the write reached the store.
	Committed bool

	// Err carries the store failure when the local flag was rolled back.
	Err error
}

// StudyController drives the self-assessment flow: each judgment flips the
// current card's mastery flag optimistically, advances the traversal, and
// persists the flag in the store, rolling back only the flag if the write
// fails.
type StudyController struct {
	s *Session
}

// Mastery records a mastery judgment for the current card. The local flag
// flip, the reviewed-count increment, and the index advance (or completion)
// all happen before the store write is attempted; a failed write rewinds the
// flag alone, leaving the traversal where it is. With no current card the
// call is a no-op.
func (st *StudyController) Mastery(ctx context.Context, mastered bool) WriteOutcome {
	s := st.s

	s.mu.Lock()
	cur := s.currentLocked()
	if cur == nil {
		s.mu.Unlock()
		return WriteOutcome{}
	}

	previous := cur.IsMastered
	cur.SetMastery(mastered)
	s.reviewed++

	completed := s.reviewed >= len(s.display)
	if !completed && s.index < len(s.display)-1 {
		s.index++
	}
	s.mu.Unlock()

	s.closeFlip()
	if completed {
		s.scheduleCompletion()
	}

	if err := s.masteryStore.UpdateCardMastery(ctx, cur.ID, mastered); err != nil {
		s.mu.Lock()
		cur.IsMastered = previous
		s.mu.Unlock()

		s.logger.ErrorContext(ctx, "mastery write failed, local flag rolled back",
			slog.String("card_id", cur.ID.String()),
			slog.Bool("mastered", mastered),
			slog.String("error", err.Error()))

		return WriteOutcome{CardID: cur.ID, Err: err}
	}

	return WriteOutcome{CardID: cur.ID, Committed: true}
}

// Reset clears mastery on every card in the set, reshuffles, and returns the
// traversal to the start. The local state changes immediately; the per-card
// store writes run in the background and their failures are only logged.
// onDone, if non-nil, is invoked synchronously once the reset is scheduled.
func (st *StudyController) Reset(ctx context.Context, onDone func()) {
	s := st.s

	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.cards))
	for _, c := range s.cards {
		c.IsMastered = false
		ids = append(ids, c.ID)
	}
	s.display = shuffleCopy(s.cards)
	s.index = 0
	s.reviewed = 0
	s.mu.Unlock()

	s.closeFlip()

	if s.resetScheduler != nil && len(ids) > 0 {
		s.resetScheduler.ScheduleMasteryReset(ctx, ids)
	}

	if onDone != nil {
		onDone()
	}
}

// Continue starts a follow-up round over the cards still unmastered. It
// reports false, changing nothing, when every card is mastered; otherwise it
// installs a shuffled subset of the unmastered cards, resets the traversal,
// and invokes onDone (if non-nil) before returning true.
func (st *StudyController) Continue(onDone func()) bool {
	s := st.s

	s.mu.Lock()
	unmastered := lo.Filter(s.cards, func(c *domain.Card, _ int) bool {
		return !c.IsMastered
	})
	if len(unmastered) == 0 {
		s.mu.Unlock()
		return false
	}

	s.display = lo.Shuffle(unmastered)
	s.index = 0
	s.reviewed = 0
	s.mu.Unlock()

	s.closeFlip()

	if onDone != nil {
		onDone()
	}
	return true
}

// ResetReviewedCount zeroes the reviewed counter without touching anything
// else. Used when the learner leaves study mode for mode selection.
func (st *StudyController) ResetReviewedCount() {
	st.s.mu.Lock()
	st.s.reviewed = 0
	st.s.mu.Unlock()
}

// ReviewedCount returns how many judgments have been made this round.
func (st *StudyController) ReviewedCount() int {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	return st.s.reviewed
}
