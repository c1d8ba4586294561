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

type fakeCardSource struct {
	cards []*domain.Card
	err   error
}

func (f *fakeCardSource) GetCardsBySet(_ context.Context, _ uuid.UUID) ([]*domain.Card, error) {
	return f.cards, f.err
}

type fakeStudySetSource struct {
	set *domain.StudySet
	err error
}

func (f *fakeStudySetSource) GetStudySet(_ context.Context, _ uuid.UUID) (*domain.StudySet, error) {
	return f.set, f.err
}

func TestLoaderLoad(t *testing.T) {
	userID := uuid.New()

	newSet := func(t *testing.T) *domain.StudySet {
		t.Helper()
		set, err := domain.NewStudySet(userID, "Biology 101", "")
		require.NoError(t, err)
		return set
	}

	t.Run("empty id resolves immediately", func(t *testing.T) {
		loader := session.NewLoader(&fakeCardSource{}, &fakeStudySetSource{}, nil)

		res := loader.Load(context.Background(), "")

		assert.False(t, res.Failed())
		assert.NotNil(t, res.Cards)
		assert.Empty(t, res.Cards)
		assert.Nil(t, res.StudySet)
	})

	t.Run("malformed id fails with a message", func(t *testing.T) {
		loader := session.NewLoader(&fakeCardSource{}, &fakeStudySetSource{}, nil)

		res := loader.Load(context.Background(), "not-a-uuid")

		assert.True(t, res.Failed())
		assert.Empty(t, res.Cards)
	})

	t.Run("loads set and cards together", func(t *testing.T) {
		set := newSet(t)
		cards := makeCards(t, 3)
		loader := session.NewLoader(
			&fakeCardSource{cards: cards},
			&fakeStudySetSource{set: set},
			nil,
		)

		res := loader.Load(context.Background(), set.ID.String())

		require.False(t, res.Failed())
		assert.Equal(t, set, res.StudySet)
		assert.Len(t, res.Cards, 3)
	})

	t.Run("cards come back sorted by position", func(t *testing.T) {
		set := newSet(t)
		cards := makeCards(t, 4)
		scrambled := []*domain.Card{cards[2], cards[0], nil, cards[3], cards[1]}
		loader := session.NewLoader(
			&fakeCardSource{cards: scrambled},
			&fakeStudySetSource{set: set},
			nil,
		)

		res := loader.Load(context.Background(), set.ID.String())

		require.False(t, res.Failed())
		require.Len(t, res.Cards, 4)
		for i, c := range res.Cards {
			assert.Equal(t, i, c.Position)
		}
	})

	t.Run("card fetch failure surfaces as a message", func(t *testing.T) {
		set := newSet(t)
		loader := session.NewLoader(
			&fakeCardSource{err: errors.New("timeout")},
			&fakeStudySetSource{set: set},
			nil,
		)

		res := loader.Load(context.Background(), set.ID.String())

		assert.True(t, res.Failed())
		assert.Empty(t, res.Cards)
		assert.Nil(t, res.StudySet)
	})

	t.Run("set fetch failure surfaces as a message", func(t *testing.T) {
		cards := makeCards(t, 2)
		loader := session.NewLoader(
			&fakeCardSource{cards: cards},
			&fakeStudySetSource{err: errors.New("not found")},
			nil,
		)

		res := loader.Load(context.Background(), uuid.New().String())

		assert.True(t, res.Failed())
		assert.Empty(t, res.Cards)
	})
}

func TestNewLoaderPanicsOnNilDeps(t *testing.T) {
	assert.Panics(t, func() {
		session.NewLoader(nil, &fakeStudySetSource{}, nil)
	})
	assert.Panics(t, func() {
		session.NewLoader(&fakeCardSource{}, nil, nil)
	})
}
