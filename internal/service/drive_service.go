package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/puedeser233-alt/SiteSnapAI/internal/repository"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/storage"
)

// DriveService, Google Drive bağlama akışını yürütür:
// auth URL → code exchange → kök klasör provizyonu → profil güncelleme.
type DriveService struct {
	drive    *storage.GoogleDriveStorage
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewDriveService(drive *storage.GoogleDriveStorage, userRepo *repository.UserRepository, logger *zap.Logger) *DriveService {
	return &DriveService{
		drive:    drive,
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetAuthURL OAuth consent ekranı linkini üretir; state kullanıcı id'sini taşır
func (s *DriveService) GetAuthURL(userID uint) string {
	return s.drive.AuthURL(strconv.FormatUint(uint64(userID), 10))
}

// HandleCallback authorization code'u token'lara çevirir, SiteSnap kök
// klasörünü garanti eder ve Drive bağlantısını profile yazar.
// connected=true iken folder id her zaman dolu.
func (s *DriveService) HandleCallback(ctx context.Context, code, state string) error {
	userID, err := strconv.ParseUint(state, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid oauth state: %w", err)
	}

	user, err := s.userRepo.GetByID(uint(userID))
	if err != nil {
		return errors.New("user not found")
	}

	token, err := s.drive.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}

	if token.RefreshToken == "" {
		// prompt=consent ile istendiği için normalde hep gelir
		return errors.New("no refresh token received")
	}

	folderID, err := s.drive.EnsureRootFolder(ctx, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("root folder provisioning failed: %w", err)
	}

	if err := s.userRepo.SetDriveConnection(user.ID, folderID, token.RefreshToken); err != nil {
		return err
	}

	s.logger.Info("google drive connected",
		zap.Uint("user_id", user.ID),
		zap.String("root_folder_id", folderID),
	)
	return nil
}

// Disconnect bağlantıyı profil tarafında koparır; Drive'daki dosyalara
// dokunulmaz, onlar kullanıcının kendi malı
func (s *DriveService) Disconnect(userID uint) error {
	return s.userRepo.ClearDriveConnection(userID)
}
