package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/session"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory loader sources for manager tests. White-box so the tests can
// drive expiry directly instead of waiting on the janitor ticker.

type stubCardSource struct {
	cards map[uuid.UUID][]*domain.Card
}

func (s *stubCardSource) GetCardsBySet(_ context.Context, setID uuid.UUID) ([]*domain.Card, error) {
	return s.cards[setID], nil
}

type stubSetSource struct {
	sets map[uuid.UUID]*domain.StudySet
}

func (s *stubSetSource) GetStudySet(_ context.Context, setID uuid.UUID) (*domain.StudySet, error) {
	set, ok := s.sets[setID]
	if !ok {
		return nil, store.ErrStudySetNotFound
	}
	return set, nil
}

type stubMasteryStore struct{}

func (s *stubMasteryStore) UpdateCardMastery(context.Context, uuid.UUID, bool) error {
	return nil
}

type managerFixture struct {
	manager *SessionManager
	sets    *stubSetSource
	cards   *stubCardSource
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	cards := &stubCardSource{cards: make(map[uuid.UUID][]*domain.Card)}
	sets := &stubSetSource{sets: make(map[uuid.UUID]*domain.StudySet)}
	loader := session.NewLoader(cards, sets, nil)

	manager := NewSessionManager(loader, &stubMasteryStore{}, nil, config.SessionConfig{
		CompletionDelayMs: 0,
		TTLMinutes:        30,
	}, nil)

	return &managerFixture{manager: manager, sets: sets, cards: cards}
}

func (f *managerFixture) seedSet(t *testing.T, userID uuid.UUID, public bool, cardCount int) *domain.StudySet {
	t.Helper()

	set, err := domain.NewStudySet(userID, "Astronomy", "")
	require.NoError(t, err)
	set.IsPublic = public
	f.sets.sets[set.ID] = set

	for i := 0; i < cardCount; i++ {
		card, err := domain.NewCard(set.ID, "front", "back", i)
		require.NoError(t, err)
		f.cards.cards[set.ID] = append(f.cards.cards[set.ID], card)
	}
	return set
}

func TestSessionManagerCreateAndGet(t *testing.T) {
	f := newManagerFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	set := f.seedSet(t, owner, true, 3)

	id, sess, err := f.manager.Create(ctx, uuid.Nil, set.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotNil(t, sess)
	assert.Equal(t, 1, f.manager.ActiveCount())

	got, err := f.manager.Get(id)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, got.SelectMode(session.ModeBasic))
	assert.Equal(t, 3, got.Snapshot().TotalCards)
}

func TestSessionManagerPrivateSetAccess(t *testing.T) {
	f := newManagerFixture(t)
	owner := uuid.New()
	ctx := context.Background()

	set := f.seedSet(t, owner, false, 2)

	t.Run("owner can open a session", func(t *testing.T) {
		_, _, err := f.manager.Create(ctx, owner, set.ID.String())
		assert.NoError(t, err)
	})

	t.Run("stranger cannot", func(t *testing.T) {
		_, _, err := f.manager.Create(ctx, uuid.New(), set.ID.String())
		assert.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("anonymous cannot", func(t *testing.T) {
		_, _, err := f.manager.Create(ctx, uuid.Nil, set.ID.String())
		assert.ErrorIs(t, err, ErrNotOwned)
	})
}

func TestSessionManagerLoadFailures(t *testing.T) {
	f := newManagerFixture(t)
	ctx := context.Background()

	t.Run("malformed set id", func(t *testing.T) {
		_, _, err := f.manager.Create(ctx, uuid.Nil, "not-a-uuid")

		var loadErr *SessionLoadError
		require.ErrorAs(t, err, &loadErr)
		assert.NotEmpty(t, loadErr.Message)
	})

	t.Run("missing set", func(t *testing.T) {
		_, _, err := f.manager.Create(ctx, uuid.Nil, uuid.New().String())

		var loadErr *SessionLoadError
		assert.ErrorAs(t, err, &loadErr)
	})
}

func TestSessionManagerGetUnknown(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerRemove(t *testing.T) {
	f := newManagerFixture(t)
	set := f.seedSet(t, uuid.New(), true, 1)

	id, _, err := f.manager.Create(context.Background(), uuid.Nil, set.ID.String())
	require.NoError(t, err)

	f.manager.Remove(id)
	_, err = f.manager.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Removing again is harmless.
	f.manager.Remove(id)
}

func TestSessionManagerExpiry(t *testing.T) {
	f := newManagerFixture(t)
	set := f.seedSet(t, uuid.New(), true, 1)

	stale, _, err := f.manager.Create(context.Background(), uuid.Nil, set.ID.String())
	require.NoError(t, err)
	fresh, _, err := f.manager.Create(context.Background(), uuid.Nil, set.ID.String())
	require.NoError(t, err)

	f.manager.mu.Lock()
	f.manager.sessions[stale].lastAccess = time.Now().Add(-time.Hour)
	f.manager.mu.Unlock()

	f.manager.expireIdle(time.Now())

	_, err = f.manager.Get(stale)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	_, err = f.manager.Get(fresh)
	assert.NoError(t, err)
}

func TestSessionManagerStop(t *testing.T) {
	f := newManagerFixture(t)
	set := f.seedSet(t, uuid.New(), true, 1)

	_, _, err := f.manager.Create(context.Background(), uuid.Nil, set.ID.String())
	require.NoError(t, err)

	f.manager.Start()
	f.manager.Stop()
	assert.Zero(t, f.manager.ActiveCount())
}
