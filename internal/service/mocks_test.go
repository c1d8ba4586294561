package service_test

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
)

// Map-backed store fakes shared by the service tests. They cover the
// non-transactional service paths; transactional flows are exercised against
// a real database elsewhere.

type fakeStudySetStore struct {
	mu   sync.Mutex
	sets map[uuid.UUID]*domain.StudySet
}

func newFakeStudySetStore() *fakeStudySetStore {
	return &fakeStudySetStore{sets: make(map[uuid.UUID]*domain.StudySet)}
}

func (s *fakeStudySetStore) Create(_ context.Context, set *domain.StudySet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *set
	s.sets[set.ID] = &cp
	return nil
}

func (s *fakeStudySetStore) GetByID(_ context.Context, id uuid.UUID) (*domain.StudySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[id]
	if !ok {
		return nil, store.ErrStudySetNotFound
	}
	cp := *set
	return &cp, nil
}

func (s *fakeStudySetStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.StudySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StudySet
	for _, set := range s.sets {
		if set.UserID == userID {
			cp := *set
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeStudySetStore) ListByFolder(
	_ context.Context,
	userID uuid.UUID,
	folderID *uuid.UUID,
) ([]*domain.StudySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StudySet
	for _, set := range s.sets {
		if set.UserID != userID {
			continue
		}
		switch {
		case folderID == nil && set.FolderID == nil:
		case folderID != nil && set.FolderID != nil && *set.FolderID == *folderID:
		default:
			continue
		}
		cp := *set
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStudySetStore) ListPublic(
	_ context.Context,
	query string,
	limit, offset int,
) ([]*domain.StudySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.StudySet
	for _, set := range s.sets {
		if !set.IsPublic {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(set.Title), strings.ToLower(query)) {
			continue
		}
		cp := *set
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeStudySetStore) Update(_ context.Context, set *domain.StudySet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[set.ID]; !ok {
		return store.ErrStudySetNotFound
	}
	cp := *set
	s.sets[set.ID] = &cp
	return nil
}

func (s *fakeStudySetStore) AdjustCardCount(_ context.Context, id uuid.UUID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[id]
	if !ok {
		return store.ErrStudySetNotFound
	}
	set.CardCount += delta
	return nil
}

func (s *fakeStudySetStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[id]; !ok {
		return store.ErrStudySetNotFound
	}
	delete(s.sets, id)
	return nil
}

func (s *fakeStudySetStore) WithTx(_ *sql.Tx) store.StudySetStore { return s }

type fakeCardStore struct {
	mu            sync.Mutex
	cards         map[uuid.UUID]*domain.Card
	masteryWrites []uuid.UUID
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (s *fakeCardStore) Create(_ context.Context, card *domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *card
	s.cards[card.ID] = &cp
	return nil
}

func (s *fakeCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, card := range cards {
		if err := s.Create(ctx, card); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	cp := *card
	return &cp, nil
}

func (s *fakeCardStore) GetBySetID(_ context.Context, setID uuid.UUID) ([]*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*domain.Card{}
	for _, card := range s.cards {
		if card.StudySetID == setID {
			cp := *card
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeCardStore) UpdateContent(_ context.Context, id uuid.UUID, front, back string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	return card.UpdateContent(front, back)
}

func (s *fakeCardStore) UpdateMastery(_ context.Context, id uuid.UUID, mastered bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	card.SetMastery(mastered)
	s.masteryWrites = append(s.masteryWrites, id)
	return nil
}

func (s *fakeCardStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}

func (s *fakeCardStore) WithTx(_ *sql.Tx) store.CardStore { return s }

type fakeFolderStore struct {
	mu      sync.Mutex
	folders map[uuid.UUID]*domain.Folder
}

func newFakeFolderStore() *fakeFolderStore {
	return &fakeFolderStore{folders: make(map[uuid.UUID]*domain.Folder)}
}

func (s *fakeFolderStore) Create(_ context.Context, folder *domain.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *folder
	s.folders[folder.ID] = &cp
	return nil
}

func (s *fakeFolderStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder, ok := s.folders[id]
	if !ok {
		return nil, store.ErrFolderNotFound
	}
	cp := *folder
	return &cp, nil
}

func (s *fakeFolderStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Folder
	for _, folder := range s.folders {
		if folder.UserID == userID {
			cp := *folder
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *fakeFolderStore) Update(_ context.Context, folder *domain.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[folder.ID]; !ok {
		return store.ErrFolderNotFound
	}
	cp := *folder
	s.folders[folder.ID] = &cp
	return nil
}

func (s *fakeFolderStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[id]; !ok {
		return store.ErrFolderNotFound
	}
	delete(s.folders, id)
	return nil
}

func (s *fakeFolderStore) WithTx(_ *sql.Tx) store.FolderStore { return s }
