package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMasteryStore records mastery writes and can be told to fail.
type fakeMasteryStore struct {
	writes []masteryWrite
	err    error
}

type masteryWrite struct {
	cardID   uuid.UUID
	mastered bool
}

func (f *fakeMasteryStore) UpdateCardMastery(_ context.Context, cardID uuid.UUID, mastered bool) error {
	f.writes = append(f.writes, masteryWrite{cardID: cardID, mastered: mastered})
	return f.err
}

// fakeResetScheduler records scheduled reset batches.
type fakeResetScheduler struct {
	batches [][]uuid.UUID
}

func (f *fakeResetScheduler) ScheduleMasteryReset(_ context.Context, cardIDs []uuid.UUID) {
	f.batches = append(f.batches, cardIDs)
}

func makeCards(t *testing.T, n int) []*domain.Card {
	t.Helper()
	setID := uuid.New()
	cards := make([]*domain.Card, 0, n)
	for i := 0; i < n; i++ {
		card, err := domain.NewCard(setID, "front", "back", i)
		require.NoError(t, err)
		cards = append(cards, card)
	}
	return cards
}

func cardIDs(cards []*domain.Card) []uuid.UUID {
	ids := make([]uuid.UUID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

type sessionFixture struct {
	sess        *session.Session
	cards       []*domain.Card
	store       *fakeMasteryStore
	scheduler   *fakeResetScheduler
	completions int
	flipCloses  int
	flipToggles int
}

func newFixture(t *testing.T, n int) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		cards:     makeCards(t, n),
		store:     &fakeMasteryStore{},
		scheduler: &fakeResetScheduler{},
	}
	f.sess = session.New(
		f.cards,
		nil,
		f.store,
		f.scheduler,
		session.Callbacks{
			OnComplete: func() { f.completions++ },
			CloseFlip:  func() { f.flipCloses++ },
			ToggleFlip: func() { f.flipToggles++ },
		},
		session.Options{CompletionDelay: 0},
		nil,
	)
	return f
}

func TestSelectMode(t *testing.T) {
	t.Run("basic mode keeps original order", func(t *testing.T) {
		f := newFixture(t, 5)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		snap := f.sess.Snapshot()
		assert.Equal(t, session.ModeBasic, snap.Mode)
		assert.Equal(t, 0, snap.Index)
		assert.Equal(t, 5, snap.DisplayCards)
		assert.Equal(t, f.cards[0], f.sess.CurrentCard())
	})

	t.Run("study mode installs shuffled full set", func(t *testing.T) {
		f := newFixture(t, 8)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		snap := f.sess.Snapshot()
		assert.Equal(t, session.ModeStudy, snap.Mode)
		assert.Equal(t, 8, snap.DisplayCards)

		// Same membership regardless of order.
		seen := map[uuid.UUID]bool{}
		for i := 0; i < 8; i++ {
			seen[f.sess.CurrentCard().ID] = true
			f.sess.Study().Mastery(context.Background(), false)
		}
		for _, c := range f.cards {
			assert.True(t, seen[c.ID])
		}
	})

	t.Run("rejects unknown mode", func(t *testing.T) {
		f := newFixture(t, 3)
		err := f.sess.SelectMode(session.Mode("cram"))
		assert.ErrorIs(t, err, domain.ErrInvalidLearningMode)
	})

	t.Run("rejects empty card set", func(t *testing.T) {
		f := newFixture(t, 0)
		err := f.sess.SelectMode(session.ModeBasic)
		assert.ErrorIs(t, err, session.ErrNoCards)
	})

	t.Run("reselecting resets progress", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))
		f.sess.Basic().Next()
		f.sess.Basic().Next()

		require.NoError(t, f.sess.SelectMode(session.ModeBasic))
		snap := f.sess.Snapshot()
		assert.Equal(t, 0, snap.Index)
		assert.Equal(t, 0, snap.ViewedCount)
	})
}

func TestClearMode(t *testing.T) {
	f := newFixture(t, 3)
	require.NoError(t, f.sess.SelectMode(session.ModeStudy))
	f.sess.Study().Mastery(context.Background(), true)

	f.sess.ClearMode()

	snap := f.sess.Snapshot()
	assert.Equal(t, session.ModeUnset, snap.Mode)
	assert.Equal(t, 0, snap.DisplayCards)
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, 0, snap.ReviewedCount)
	assert.Nil(t, f.sess.CurrentCard())
}

func TestBasicNext(t *testing.T) {
	t.Run("marks viewed and advances", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Next()

		snap := f.sess.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Equal(t, 1, snap.ViewedCount)
		assert.True(t, basic.CanGoNext())
	})

	t.Run("viewing the last card completes without advancing", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Next()
		basic.Next()
		assert.Equal(t, 0, f.completions)

		basic.Next()

		snap := f.sess.Snapshot()
		assert.Equal(t, 1, f.completions)
		assert.Equal(t, 2, snap.Index, "index stays on last card")
		assert.Equal(t, 3, snap.ViewedCount)
		assert.False(t, basic.CanGoNext())
	})

	t.Run("completion fires only once", func(t *testing.T) {
		f := newFixture(t, 2)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Next()
		basic.Next()
		basic.Next()
		basic.Next()

		assert.Equal(t, 1, f.completions)
		snap := f.sess.Snapshot()
		assert.Equal(t, 1, snap.Index, "index never exceeds the last card")
	})

	t.Run("no-op without an active mode", func(t *testing.T) {
		f := newFixture(t, 3)
		f.sess.Basic().Next()

		snap := f.sess.Snapshot()
		assert.Equal(t, 0, snap.Index)
		assert.Equal(t, 0, snap.ViewedCount)
	})

	t.Run("closes the flip on every advance", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))
		before := f.flipCloses

		f.sess.Basic().Next()
		assert.Equal(t, before+1, f.flipCloses)
	})
}

func TestBasicPrev(t *testing.T) {
	t.Run("steps back and un-views the revisited card", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Next()
		basic.Next()
		require.Equal(t, 2, f.sess.Snapshot().ViewedCount)

		basic.Prev()

		snap := f.sess.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Equal(t, 1, snap.ViewedCount, "revisited card counts as unviewed again")
	})

	t.Run("no-op at the first card", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		assert.False(t, basic.CanGoPrev())
		basic.Prev()
		assert.Equal(t, 0, f.sess.Snapshot().Index)
	})

	t.Run("back-and-forth near the end does not complete early", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Next()
		basic.Next()
		basic.Prev()
		assert.Equal(t, 0, f.completions)

		basic.Next()
		basic.Next()
		assert.Equal(t, 1, f.completions)
	})
}

func TestBasicShuffle(t *testing.T) {
	t.Run("toggle off restores original order", func(t *testing.T) {
		f := newFixture(t, 10)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Shuffle()
		assert.True(t, basic.IsShuffled())

		basic.Shuffle()
		assert.False(t, basic.IsShuffled())

		// Walk the display and compare against canonical order.
		for i := 0; i < 10; i++ {
			assert.Equal(t, f.cards[i].ID, f.sess.CurrentCard().ID)
			basic.Next()
		}
	})

	t.Run("shuffle preserves membership", func(t *testing.T) {
		f := newFixture(t, 6)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Shuffle()

		seen := map[uuid.UUID]bool{}
		for i := 0; i < 6; i++ {
			seen[f.sess.CurrentCard().ID] = true
			basic.Next()
		}
		for _, c := range f.cards {
			assert.True(t, seen[c.ID])
		}
	})

	t.Run("viewed set survives a reshuffle", func(t *testing.T) {
		f := newFixture(t, 5)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		basic := f.sess.Basic()
		basic.Next()
		basic.Next()
		require.Equal(t, 2, basic.ViewedCount())

		basic.Shuffle()
		assert.Equal(t, 2, basic.ViewedCount())
	})
}

func TestBasicRestart(t *testing.T) {
	f := newFixture(t, 4)
	require.NoError(t, f.sess.SelectMode(session.ModeBasic))

	basic := f.sess.Basic()
	basic.Next()
	basic.Next()
	basic.Shuffle()

	basic.Restart()

	snap := f.sess.Snapshot()
	assert.Equal(t, 0, snap.Index)
	assert.Equal(t, 0, snap.ViewedCount)
	assert.True(t, snap.IsShuffled, "restart keeps the shuffle toggle")
	assert.True(t, basic.CanGoNext())
}

func TestStudyMastery(t *testing.T) {
	t.Run("committed write flips flag and advances", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		cur := f.sess.CurrentCard()
		outcome := f.sess.Study().Mastery(context.Background(), true)

		assert.True(t, outcome.Committed)
		assert.Equal(t, cur.ID, outcome.CardID)
		assert.True(t, cur.IsMastered)
		assert.NotNil(t, cur.LastReviewedAt)

		snap := f.sess.Snapshot()
		assert.Equal(t, 1, snap.Index)
		assert.Equal(t, 1, snap.ReviewedCount)

		require.Len(t, f.store.writes, 1)
		assert.Equal(t, cur.ID, f.store.writes[0].cardID)
		assert.True(t, f.store.writes[0].mastered)
	})

	t.Run("failed write rolls back the flag but not the traversal", func(t *testing.T) {
		f := newFixture(t, 3)
		f.store.err = errors.New("connection refused")
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		cur := f.sess.CurrentCard()
		outcome := f.sess.Study().Mastery(context.Background(), true)

		assert.False(t, outcome.Committed)
		assert.Error(t, outcome.Err)
		assert.False(t, cur.IsMastered, "flag rewound after write failure")

		snap := f.sess.Snapshot()
		assert.Equal(t, 1, snap.Index, "navigation is not rolled back")
		assert.Equal(t, 1, snap.ReviewedCount, "reviewed count is not rolled back")
	})

	t.Run("judging the final card completes the round", func(t *testing.T) {
		f := newFixture(t, 2)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		study := f.sess.Study()
		study.Mastery(context.Background(), true)
		assert.Equal(t, 0, f.completions)

		study.Mastery(context.Background(), false)
		assert.Equal(t, 1, f.completions)

		snap := f.sess.Snapshot()
		assert.Equal(t, 1, snap.Index, "index stays on the last card")
	})

	t.Run("no-op with no current card", func(t *testing.T) {
		f := newFixture(t, 3)
		outcome := f.sess.Study().Mastery(context.Background(), true)

		assert.False(t, outcome.Committed)
		assert.NoError(t, outcome.Err)
		assert.Equal(t, uuid.Nil, outcome.CardID)
		assert.Empty(t, f.store.writes)
	})
}

func TestStudyReset(t *testing.T) {
	t.Run("clears mastery locally and schedules background writes", func(t *testing.T) {
		f := newFixture(t, 4)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		study := f.sess.Study()
		study.Mastery(context.Background(), true)
		study.Mastery(context.Background(), true)

		done := false
		study.Reset(context.Background(), func() { done = true })

		assert.True(t, done, "onDone runs synchronously")
		for _, c := range f.cards {
			assert.False(t, c.IsMastered)
		}

		snap := f.sess.Snapshot()
		assert.Equal(t, 0, snap.Index)
		assert.Equal(t, 0, snap.ReviewedCount)
		assert.Equal(t, 4, snap.DisplayCards, "reset returns to the full set")

		require.Len(t, f.scheduler.batches, 1)
		assert.ElementsMatch(t, cardIDs(f.cards), f.scheduler.batches[0])
	})
}

func TestStudyContinue(t *testing.T) {
	t.Run("installs shuffled unmastered subset", func(t *testing.T) {
		f := newFixture(t, 4)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		study := f.sess.Study()
		// Judge all four, mastering two of them.
		study.Mastery(context.Background(), true)
		study.Mastery(context.Background(), false)
		study.Mastery(context.Background(), true)
		study.Mastery(context.Background(), false)
		require.Equal(t, 1, f.completions)

		done := false
		ok := study.Continue(func() { done = true })

		assert.True(t, ok)
		assert.True(t, done)

		snap := f.sess.Snapshot()
		assert.Equal(t, 2, snap.DisplayCards)
		assert.Equal(t, 0, snap.Index)
		assert.Equal(t, 0, snap.ReviewedCount)

		// The follow-up round holds exactly the unmastered cards.
		remaining := map[uuid.UUID]bool{}
		for i := 0; i < 2; i++ {
			remaining[f.sess.CurrentCard().ID] = true
			study.Mastery(context.Background(), true)
		}
		for _, c := range f.cards {
			if remaining[c.ID] {
				continue
			}
			assert.True(t, c.IsMastered)
		}
	})

	t.Run("reports false when everything is mastered", func(t *testing.T) {
		f := newFixture(t, 2)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		study := f.sess.Study()
		study.Mastery(context.Background(), true)
		study.Mastery(context.Background(), true)

		before := f.sess.Snapshot()
		ok := study.Continue(func() { t.Fatal("onDone must not run") })

		assert.False(t, ok)
		assert.Equal(t, before.DisplayCards, f.sess.Snapshot().DisplayCards)
	})
}

func TestStudyResetReviewedCount(t *testing.T) {
	f := newFixture(t, 3)
	require.NoError(t, f.sess.SelectMode(session.ModeStudy))

	study := f.sess.Study()
	study.Mastery(context.Background(), true)
	require.Equal(t, 1, study.ReviewedCount())

	study.ResetReviewedCount()
	assert.Equal(t, 0, study.ReviewedCount())
	assert.Equal(t, 1, f.sess.Snapshot().Index, "only the counter resets")
}

func TestHandleKey(t *testing.T) {
	t.Run("space toggles the flip in any mode", func(t *testing.T) {
		f := newFixture(t, 3)
		f.sess.HandleKey(context.Background(), session.KeySpace)
		assert.Equal(t, 1, f.flipToggles)
	})

	t.Run("arrows navigate in basic mode", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeBasic))

		f.sess.HandleKey(context.Background(), session.KeyArrowRight)
		assert.Equal(t, 1, f.sess.Snapshot().Index)

		f.sess.HandleKey(context.Background(), session.KeyArrowLeft)
		assert.Equal(t, 0, f.sess.Snapshot().Index)
	})

	t.Run("arrows judge mastery in study mode", func(t *testing.T) {
		f := newFixture(t, 3)
		require.NoError(t, f.sess.SelectMode(session.ModeStudy))

		f.sess.HandleKey(context.Background(), session.KeyArrowRight)
		require.Len(t, f.store.writes, 1)
		assert.True(t, f.store.writes[0].mastered)

		f.sess.HandleKey(context.Background(), session.KeyArrowLeft)
		require.Len(t, f.store.writes, 2)
		assert.False(t, f.store.writes[1].mastered)
	})

	t.Run("arrows are ignored without a mode", func(t *testing.T) {
		f := newFixture(t, 3)
		f.sess.HandleKey(context.Background(), session.KeyArrowRight)
		assert.Empty(t, f.store.writes)
		assert.Equal(t, 0, f.sess.Snapshot().Index)
	})
}
