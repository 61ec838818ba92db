package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/storage"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/watermark"
)

const thumbnailSize = 320

// Pipeline'ın veri katmanı bağımlılıkları. Repository'lerin kullanılan
// alt kümesi; testlerde fake ile değiştirilir.
type userStore interface {
	GetByID(id uint) (*models.User, error)
}

type projectStore interface {
	GetByID(id uint) (*models.Project, error)
	SetDriveFolderID(projectID uint, folderID string) (bool, error)
	IncrementPhotoCount(projectID uint) error
	DecrementPhotoCount(projectID uint) error
}

type photoStore interface {
	Create(photo *models.Photo) error
	GetByID(id uint) (*models.Photo, error)
	GetByProjectID(projectID uint) ([]models.Photo, error)
	Delete(id uint) error
	CountByUserSince(userID uint, since time.Time) (int64, error)
}

// PhotoService, CapturedPhoto'yu kalıcı ve Drive'da saklanan bir Photo'ya
// çeviren state machine: Validating → FolderReady → Uploading → Persisting
// → Done. Her foto için sekans bir kez çalışır; batch ve kuyruklu retry
// yok, başarısız deneme client tarafından baştan gönderilir.
type PhotoService struct {
	userRepo    userStore
	projectRepo projectStore
	photoRepo   photoStore
	drive       storage.DriveStorage
	thumbs      storage.ObjectStorage
	stamper     *watermark.Stamper
	logger      *zap.Logger
}

func NewPhotoService(
	userRepo userStore,
	projectRepo projectStore,
	photoRepo photoStore,
	drive storage.DriveStorage,
	thumbs storage.ObjectStorage,
	stamper *watermark.Stamper,
	logger *zap.Logger,
) *PhotoService {
	return &PhotoService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		photoRepo:   photoRepo,
		drive:       drive,
		thumbs:      thumbs,
		stamper:     stamper,
		logger:      logger,
	}
}

func (s *PhotoService) UploadPhoto(ctx context.Context, userID uint, req models.UploadPhotoRequest) (*models.UploadPhotoResponse, error) {
	// --- Validating ---
	if userID == 0 || req.ProjectID == 0 || req.ImageData == "" || req.FileName == "" {
		return nil, pipelineErr(StageValidating, ErrMissingInput)
	}

	// Profil ve proje birbirinden bağımsız, paralel okunur
	var user *models.User
	var project *models.Project

	var g errgroup.Group
	g.Go(func() error {
		var err error
		user, err = s.userRepo.GetByID(userID)
		return err
	})
	g.Go(func() error {
		var err error
		project, err = s.projectRepo.GetByID(req.ProjectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pipelineErr(StageValidating, fmt.Errorf("%w: %v", ErrMissingInput, err))
	}

	if project.UserID != userID {
		return nil, pipelineErr(StageValidating, ErrUnauthorized)
	}

	if !user.GoogleDriveConnected || user.GoogleRefreshToken == "" || user.GoogleDriveFolderID == "" {
		return nil, pipelineErr(StageValidating, ErrStorageNotConnected)
	}

	// Aylık plan limiti
	monthStart := time.Now().AddDate(0, 0, -30)
	monthCount, err := s.photoRepo.CountByUserSince(userID, monthStart)
	if err != nil {
		return nil, pipelineErr(StageValidating, err)
	}
	if !user.Plan.CanTakePhoto(int(monthCount)) {
		return nil, pipelineErr(StageValidating, ErrPlanLimit)
	}

	imageBytes, err := decodeImageData(req.ImageData)
	if err != nil {
		return nil, pipelineErr(StageValidating, fmt.Errorf("%w: %v", ErrMissingInput, err))
	}

	capturedAt := time.Now()
	if req.CapturedAt != nil {
		capturedAt = *req.CapturedAt
	}

	// Capture overlay'i raster'a işle. Client zaten işlediyse atla;
	// aksi halde hiçbir byte damgasız Drive'a çıkmaz.
	if !req.Watermarked {
		stamped, err := s.stamper.Stamp(imageBytes, watermark.Annotation{
			TakenAt:     capturedAt,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
			ProjectName: project.Name,
		})
		if err != nil {
			return nil, pipelineErr(StageValidating, fmt.Errorf("%w: %v", ErrMissingInput, err))
		}
		imageBytes = stamped
	}

	// --- FolderReady ---
	folderID := project.DriveFolderID
	if folderID == "" {
		created, err := s.drive.EnsureProjectFolder(ctx,
			user.GoogleRefreshToken, user.GoogleDriveFolderID,
			project.ClientName, project.Name)
		if err != nil {
			return nil, pipelineErr(StageFolderReady, err)
		}

		// Referans upload'dan ÖNCE yazılır; retry'da klasör tekrar
		// oluşturulmaz. Yarışta kaybeden, kazananın id'sini kullanır.
		won, err := s.projectRepo.SetDriveFolderID(project.ID, created)
		if err != nil {
			return nil, pipelineErr(StageFolderReady, err)
		}
		if won {
			folderID = created
		} else {
			fresh, err := s.projectRepo.GetByID(project.ID)
			if err != nil || fresh.DriveFolderID == "" {
				return nil, pipelineErr(StageFolderReady, fmt.Errorf("project folder reference lost: %v", err))
			}
			folderID = fresh.DriveFolderID
			s.logger.Info("concurrent folder provisioning, using winner's folder",
				zap.Uint("project_id", project.ID),
				zap.String("orphan_folder_id", created),
			)
		}
	}

	// --- Uploading ---
	driveFile, err := s.drive.UploadFile(ctx, user.GoogleRefreshToken, folderID, req.FileName, "image/jpeg", imageBytes)
	if err != nil {
		if errors.Is(err, storage.ErrAuth) {
			return nil, pipelineErr(StageUploading, err)
		}
		return nil, pipelineErr(StageUploading, fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}

	// --- Persisting ---
	photo := &models.Photo{
		ProjectID:     project.ID,
		UserID:        userID,
		FileName:      req.FileName,
		DriveFileID:   driveFile.ID,
		DriveLink:     driveFile.ViewLink,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		CapturedAt:    capturedAt,
		AIDescription: req.AIDescription,
	}

	// Thumbnail R2'ye best-effort; hatası pipeline'ı asla düşürmez
	s.storeThumbnail(ctx, photo, imageBytes)

	if err := s.photoRepo.Create(photo); err != nil {
		// Upload tamamlandı ama satır yazılamadı: mutabakat için logla,
		// remote dosya geri alınmaz
		s.logger.Error("persistence inconsistency: photo row insert failed after drive upload",
			zap.Uint("project_id", project.ID),
			zap.Uint("user_id", userID),
			zap.String("drive_file_id", driveFile.ID),
			zap.Error(err),
		)
		return nil, pipelineErr(StagePersisting, fmt.Errorf("%w: %v", ErrPersistence, err))
	}

	if err := s.projectRepo.IncrementPhotoCount(project.ID); err != nil {
		// Satır var, sayaç geride kaldı. Upload başarılı sayılır,
		// drift mutabakat için loglanır.
		s.logger.Error("persistence inconsistency: photo count increment failed",
			zap.Uint("project_id", project.ID),
			zap.Uint("photo_id", photo.ID),
			zap.String("drive_file_id", driveFile.ID),
			zap.Error(err),
		)
	}

	// --- Done ---
	return &models.UploadPhotoResponse{
		Photo:     *photo,
		DriveLink: driveFile.ViewLink,
	}, nil
}

func (s *PhotoService) storeThumbnail(ctx context.Context, photo *models.Photo, imageBytes []byte) {
	if s.thumbs == nil {
		return
	}

	thumb, err := watermark.Thumbnail(imageBytes, thumbnailSize)
	if err != nil {
		s.logger.Warn("thumbnail generation failed", zap.Error(err))
		return
	}

	key := fmt.Sprintf("thumbs/%d/%s.jpg", photo.ProjectID, uuid.NewString())
	if err := s.thumbs.Upload(ctx, key, bytes.NewReader(thumb)); err != nil {
		s.logger.Warn("thumbnail upload failed", zap.String("key", key), zap.Error(err))
		return
	}

	photo.ThumbnailKey = key
	photo.ThumbnailURL = s.thumbs.PublicURL(key)
}

func (s *PhotoService) GetProjectPhotos(userID, projectID uint) ([]models.Photo, error) {
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, errors.New("project not found")
	}

	if project.UserID != userID {
		return nil, ErrUnauthorized
	}

	return s.photoRepo.GetByProjectID(projectID)
}

func (s *PhotoService) DeletePhoto(ctx context.Context, userID, photoID uint) error {
	photo, err := s.photoRepo.GetByID(photoID)
	if err != nil {
		return fmt.Errorf("photo not found: %w", err)
	}

	if photo.UserID != userID {
		return ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	// Önce Drive'dan sil
	if photo.DriveFileID != "" {
		if err := s.drive.DeleteFile(ctx, user.GoogleRefreshToken, photo.DriveFileID); err != nil {
			return fmt.Errorf("failed to delete from drive: %w", err)
		}
	}

	if s.thumbs != nil && photo.ThumbnailKey != "" {
		if err := s.thumbs.Delete(ctx, photo.ThumbnailKey); err != nil {
			s.logger.Warn("thumbnail delete failed", zap.String("key", photo.ThumbnailKey), zap.Error(err))
		}
	}

	if err := s.photoRepo.Delete(photoID); err != nil {
		return err
	}

	if err := s.projectRepo.DecrementPhotoCount(photo.ProjectID); err != nil {
		s.logger.Error("persistence inconsistency: photo count decrement failed",
			zap.Uint("project_id", photo.ProjectID),
			zap.Uint("photo_id", photoID),
			zap.Error(err),
		)
	}

	return nil
}

// decodeImageData "data:image/jpeg;base64,..." data URL'ini veya çıplak
// base64'ü byte'lara çevirir
func decodeImageData(imageData string) ([]byte, error) {
	payload := imageData
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, errors.New("malformed image data URL")
		}
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("empty image payload")
	}
	return raw, nil
}
