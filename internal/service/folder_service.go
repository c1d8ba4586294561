package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/google/uuid"
)

// FolderService provides folder operations with ownership enforcement.
type FolderService interface {
	// CreateFolder creates a new folder for the user.
	CreateFolder(ctx context.Context, userID uuid.UUID, name string) (*domain.Folder, error)

	// ListFolders retrieves all folders owned by the user, by name.
	ListFolders(ctx context.Context, userID uuid.UUID) ([]*domain.Folder, error)

	// RenameFolder changes a folder's name.
	// Returns ErrNotOwned if the folder belongs to another user.
	RenameFolder(ctx context.Context, userID, folderID uuid.UUID, name string) (*domain.Folder, error)

	// DeleteFolder removes a folder. Study sets inside it are kept and become
	// unclassified.
	// Returns ErrNotOwned if the folder belongs to another user.
	DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error
}

// folderServiceImpl implements the FolderService interface.
type folderServiceImpl struct {
	folders store.FolderStore
	db      *sql.DB
	logger  *slog.Logger
}

var _ FolderService = (*folderServiceImpl)(nil)

// NewFolderService creates a new FolderService.
// It returns an error if any of the required dependencies are nil.
func NewFolderService(
	folders store.FolderStore,
	db *sql.DB,
	logger *slog.Logger,
) (FolderService, error) {
	if folders == nil {
		return nil, fmt.Errorf("%w: folder store cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &folderServiceImpl{
		folders: folders,
		db:      db,
		logger:  logger.With(slog.String("component", "folder_service")),
	}, nil
}

// CreateFolder implements FolderService.CreateFolder.
func (s *folderServiceImpl) CreateFolder(
	ctx context.Context,
	userID uuid.UUID,
	name string,
) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	folder, err := domain.NewFolder(userID, name)
	if err != nil {
		return nil, err
	}

	if err := s.folders.Create(ctx, folder); err != nil {
		log.Error("failed to create folder",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	log.Info("folder created",
		slog.String("folder_id", folder.ID.String()),
		slog.String("user_id", userID.String()))
	return folder, nil
}

// ListFolders implements FolderService.ListFolders.
func (s *folderServiceImpl) ListFolders(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Folder, error) {
	return s.folders.ListByUser(ctx, userID)
}

// RenameFolder implements FolderService.RenameFolder.
func (s *folderServiceImpl) RenameFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
	name string,
) (*domain.Folder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	folder, err := s.getOwnedFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	folder.Name = name
	if err := folder.Validate(); err != nil {
		return nil, err
	}

	if err := s.folders.Update(ctx, folder); err != nil {
		log.Error("failed to rename folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folderID.String()))
		return nil, fmt.Errorf("failed to rename folder: %w", err)
	}

	return folder, nil
}

// DeleteFolder implements FolderService.DeleteFolder.
func (s *folderServiceImpl) DeleteFolder(ctx context.Context, userID, folderID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.getOwnedFolder(ctx, userID, folderID); err != nil {
		return err
	}

	// Sets inside the folder survive; the schema nulls their folder_id.
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.folders.WithTx(tx).Delete(ctx, folderID)
	})
	if err != nil {
		log.Error("failed to delete folder",
			slog.String("error", err.Error()),
			slog.String("folder_id", folderID.String()))
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	log.Info("folder deleted",
		slog.String("folder_id", folderID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// getOwnedFolder loads a folder and verifies the user owns it.
func (s *folderServiceImpl) getOwnedFolder(
	ctx context.Context,
	userID, folderID uuid.UUID,
) (*domain.Folder, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, ErrNotOwned
	}
	return folder, nil
}
