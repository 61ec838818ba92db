package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/storage"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/watermark"
)

type fakeUserStore struct {
	user *models.User
	err  error
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	return &u, nil
}

type fakeProjectStore struct {
	project *models.Project

	setCalls  []string
	setWon    bool
	setErr    error
	lostTo    string // yarış kaybedildiğinde tekrar okunan folder id
	incCalls  int
	incErr    error
	decCalls  int
	decErr    error
}

func (f *fakeProjectStore) GetByID(id uint) (*models.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, errors.New("record not found")
	}
	p := *f.project
	if len(f.setCalls) > 0 && !f.setWon && f.lostTo != "" {
		p.DriveFolderID = f.lostTo
	}
	return &p, nil
}

func (f *fakeProjectStore) SetDriveFolderID(projectID uint, folderID string) (bool, error) {
	f.setCalls = append(f.setCalls, folderID)
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.setWon {
		f.project.DriveFolderID = folderID
	}
	return f.setWon, nil
}

func (f *fakeProjectStore) IncrementPhotoCount(projectID uint) error {
	f.incCalls++
	return f.incErr
}

func (f *fakeProjectStore) DecrementPhotoCount(projectID uint) error {
	f.decCalls++
	return f.decErr
}

type fakePhotoStore struct {
	created    []*models.Photo
	createErr  error
	stored     map[uint]*models.Photo
	deleted    []uint
	deleteErr  error
	monthCount int64
	countErr   error
}

func (f *fakePhotoStore) Create(photo *models.Photo) error {
	if f.createErr != nil {
		return f.createErr
	}
	photo.ID = uint(len(f.created) + 1)
	f.created = append(f.created, photo)
	return nil
}

func (f *fakePhotoStore) GetByID(id uint) (*models.Photo, error) {
	p, ok := f.stored[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (f *fakePhotoStore) GetByProjectID(projectID uint) ([]models.Photo, error) {
	var out []models.Photo
	for _, p := range f.stored {
		if p.ProjectID == projectID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePhotoStore) Delete(id uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePhotoStore) CountByUserSince(userID uint, since time.Time) (int64, error) {
	return f.monthCount, f.countErr
}

type fakeDrive struct {
	folderCalls int
	folderID    string
	folderErr   error

	uploadCalls  int
	uploadErr    error
	uploadFolder string
	uploadName   string
	uploadData   []byte

	deleted   []string
	deleteErr error
}

func (f *fakeDrive) EnsureRootFolder(ctx context.Context, refreshToken string) (string, error) {
	return "root-folder", nil
}

func (f *fakeDrive) EnsureProjectFolder(ctx context.Context, refreshToken, rootFolderID, clientName, projectName string) (string, error) {
	f.folderCalls++
	if f.folderErr != nil {
		return "", f.folderErr
	}
	return f.folderID, nil
}

func (f *fakeDrive) UploadFile(ctx context.Context, refreshToken, folderID, name, mimeType string, data []byte) (*storage.DriveFile, error) {
	f.uploadCalls++
	f.uploadFolder = folderID
	f.uploadName = name
	f.uploadData = data
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &storage.DriveFile{
		ID:       "drive-file-1",
		Name:     name,
		ViewLink: "https://drive.google.com/file/d/drive-file-1/view",
	}, nil
}

func (f *fakeDrive) DeleteFile(ctx context.Context, refreshToken, fileID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, fileID)
	return nil
}

type fakeThumbStore struct {
	keys      []string
	uploadErr error
}

func (f *fakeThumbStore) Upload(ctx context.Context, key string, reader io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.keys = append(f.keys, key)
	return nil
}

func (f *fakeThumbStore) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeThumbStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 100, G: 150, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func testDataURL(t *testing.T) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(testJPEG(t))
}

func connectedUser() *models.User {
	return &models.User{
		Email:                "tecnico@example.com",
		Plan:                 models.PlanFree,
		GoogleDriveConnected: true,
		GoogleDriveFolderID:  "root-folder",
		GoogleRefreshToken:   "refresh-token",
	}
}

type fixture struct {
	users    *fakeUserStore
	projects *fakeProjectStore
	photos   *fakePhotoStore
	drive    *fakeDrive
	thumbs   *fakeThumbStore
	svc      *PhotoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stamper, err := watermark.New()
	if err != nil {
		t.Fatalf("watermark.New() = %v", err)
	}

	f := &fixture{
		users: &fakeUserStore{user: connectedUser()},
		projects: &fakeProjectStore{
			project: &models.Project{
				UserID:     1,
				Name:       "Reforma Local",
				ClientName: "Construcciones Gomez",
			},
			setWon: true,
		},
		photos: &fakePhotoStore{stored: map[uint]*models.Photo{}},
		drive:  &fakeDrive{folderID: "project-folder"},
		thumbs: &fakeThumbStore{},
	}
	f.users.user.ID = 1
	f.projects.project.ID = 10
	f.svc = NewPhotoService(f.users, f.projects, f.photos, f.drive, f.thumbs, stamper, zap.NewNop())
	return f
}

func validRequest(t *testing.T) models.UploadPhotoRequest {
	return models.UploadPhotoRequest{
		ProjectID: 10,
		ImageData: testDataURL(t),
		FileName:  "Cuadro_Electrico_Instalado.jpg",
	}
}

func stageOf(t *testing.T, err error) UploadStage {
	t.Helper()
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PipelineError, got %v", err)
	}
	return pe.Stage
}

func TestUploadPhotoMissingInput(t *testing.T) {
	f := newFixture(t)

	req := validRequest(t)
	req.ImageData = ""

	_, err := f.svc.UploadPhoto(context.Background(), 1, req)
	if !errors.Is(err, ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if got := stageOf(t, err); got != StageValidating {
		t.Errorf("stage = %s, want %s", got, StageValidating)
	}
	if f.drive.uploadCalls != 0 {
		t.Error("upload attempted with missing input")
	}
}

func TestUploadPhotoUnownedProject(t *testing.T) {
	f := newFixture(t)
	f.projects.project.UserID = 99
	f.users.user.ID = 1

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUploadPhotoStorageNotConnected(t *testing.T) {
	f := newFixture(t)
	f.users.user.GoogleDriveConnected = false

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if !errors.Is(err, ErrStorageNotConnected) {
		t.Fatalf("expected ErrStorageNotConnected, got %v", err)
	}

	// Başarısız validation hiçbir yan etki bırakmamalı
	if f.drive.folderCalls != 0 || f.drive.uploadCalls != 0 {
		t.Error("drive touched while storage disconnected")
	}
	if len(f.photos.created) != 0 {
		t.Error("photo row created while storage disconnected")
	}
}

func TestUploadPhotoPlanLimit(t *testing.T) {
	f := newFixture(t)
	f.photos.monthCount = 50 // free plan aylık limiti

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if !errors.Is(err, ErrPlanLimit) {
		t.Fatalf("expected ErrPlanLimit, got %v", err)
	}
	if f.drive.uploadCalls != 0 {
		t.Error("upload attempted over plan limit")
	}
}

func TestUploadPhotoProPlanUnlimited(t *testing.T) {
	f := newFixture(t)
	f.users.user.Plan = models.PlanPro
	f.photos.monthCount = 5000

	resp, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}
	if resp.DriveLink == "" {
		t.Error("expected drive link in response")
	}
}

func TestUploadPhotoProvisionsFolderBeforeUpload(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}

	if f.drive.folderCalls != 1 {
		t.Errorf("folderCalls = %d, want 1", f.drive.folderCalls)
	}
	// Referans upload'dan önce yazılmış olmalı
	if len(f.projects.setCalls) != 1 || f.projects.setCalls[0] != "project-folder" {
		t.Errorf("setCalls = %v", f.projects.setCalls)
	}
	if f.drive.uploadFolder != "project-folder" {
		t.Errorf("uploaded to %q, want project-folder", f.drive.uploadFolder)
	}
	if len(f.photos.created) != 1 {
		t.Fatalf("created %d photo rows, want 1", len(f.photos.created))
	}
	if f.projects.incCalls != 1 {
		t.Errorf("incCalls = %d, want 1", f.projects.incCalls)
	}
	if resp.Photo.DriveFileID != "drive-file-1" {
		t.Errorf("DriveFileID = %q", resp.Photo.DriveFileID)
	}
}

func TestUploadPhotoReusesExistingFolder(t *testing.T) {
	f := newFixture(t)
	f.projects.project.DriveFolderID = "existing-folder"

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}

	if f.drive.folderCalls != 0 {
		t.Errorf("folderCalls = %d, want 0", f.drive.folderCalls)
	}
	if len(f.projects.setCalls) != 0 {
		t.Errorf("setCalls = %v, want none", f.projects.setCalls)
	}
	if f.drive.uploadFolder != "existing-folder" {
		t.Errorf("uploaded to %q, want existing-folder", f.drive.uploadFolder)
	}
}

func TestUploadPhotoRaceLoserUsesWinnersFolder(t *testing.T) {
	f := newFixture(t)
	f.projects.setWon = false
	f.projects.lostTo = "winner-folder"
	f.drive.folderID = "orphan-folder"

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}

	if f.drive.uploadFolder != "winner-folder" {
		t.Errorf("uploaded to %q, want winner-folder", f.drive.uploadFolder)
	}
}

func TestUploadPhotoDriveAuthFailure(t *testing.T) {
	f := newFixture(t)
	f.drive.uploadErr = fmt.Errorf("drive: %w", storage.ErrAuth)

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if !errors.Is(err, storage.ErrAuth) {
		t.Fatalf("expected storage.ErrAuth, got %v", err)
	}
	if got := stageOf(t, err); got != StageUploading {
		t.Errorf("stage = %s, want %s", got, StageUploading)
	}
	if len(f.photos.created) != 0 {
		t.Error("photo row created after failed upload")
	}
}

func TestUploadPhotoUploadFailureLeavesNoRow(t *testing.T) {
	f := newFixture(t)
	f.drive.uploadErr = errors.New("network timeout")

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(f.photos.created) != 0 {
		t.Error("photo row created after failed upload")
	}
	if f.projects.incCalls != 0 {
		t.Error("counter incremented after failed upload")
	}
}

func TestUploadPhotoPersistFailure(t *testing.T) {
	f := newFixture(t)
	f.photos.createErr = errors.New("connection reset")

	_, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if got := stageOf(t, err); got != StagePersisting {
		t.Errorf("stage = %s, want %s", got, StagePersisting)
	}
	if f.projects.incCalls != 0 {
		t.Error("counter incremented without photo row")
	}
}

func TestUploadPhotoIncrementFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	f.projects.incErr = errors.New("deadlock")

	resp, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}
	if resp == nil || resp.Photo.DriveFileID == "" {
		t.Error("expected successful response despite counter failure")
	}
}

func TestUploadPhotoSkipsStampWhenClientWatermarked(t *testing.T) {
	f := newFixture(t)

	original := testJPEG(t)
	req := models.UploadPhotoRequest{
		ProjectID:   10,
		ImageData:   base64.StdEncoding.EncodeToString(original),
		FileName:    "foto.jpg",
		Watermarked: true,
	}

	_, err := f.svc.UploadPhoto(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}

	if !bytes.Equal(f.drive.uploadData, original) {
		t.Error("client-watermarked bytes were re-stamped")
	}
}

func TestUploadPhotoStampsByDefault(t *testing.T) {
	f := newFixture(t)

	original := testJPEG(t)
	req := models.UploadPhotoRequest{
		ProjectID: 10,
		ImageData: base64.StdEncoding.EncodeToString(original),
		FileName:  "foto.jpg",
	}

	_, err := f.svc.UploadPhoto(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}

	if bytes.Equal(f.drive.uploadData, original) {
		t.Error("uploaded bytes identical to input, watermark not applied")
	}
}

func TestUploadPhotoStoresThumbnail(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}

	if len(f.thumbs.keys) != 1 {
		t.Fatalf("thumbnail uploads = %d, want 1", len(f.thumbs.keys))
	}
	if !strings.HasPrefix(f.thumbs.keys[0], "thumbs/10/") {
		t.Errorf("thumbnail key = %q", f.thumbs.keys[0])
	}
	if resp.Photo.ThumbnailURL == "" {
		t.Error("thumbnail URL not set on photo")
	}
}

func TestUploadPhotoThumbnailFailureIsBestEffort(t *testing.T) {
	f := newFixture(t)
	f.thumbs.uploadErr = errors.New("r2 unavailable")

	resp, err := f.svc.UploadPhoto(context.Background(), 1, validRequest(t))
	if err != nil {
		t.Fatalf("UploadPhoto() = %v", err)
	}
	if resp.Photo.ThumbnailKey != "" {
		t.Error("thumbnail key set despite failed upload")
	}
}

func TestDeletePhotoRemovesDriveFileAndRow(t *testing.T) {
	f := newFixture(t)
	f.photos.stored[5] = &models.Photo{
		ProjectID:   10,
		UserID:      1,
		DriveFileID: "drive-file-5",
	}
	f.photos.stored[5].ID = 5

	if err := f.svc.DeletePhoto(context.Background(), 1, 5); err != nil {
		t.Fatalf("DeletePhoto() = %v", err)
	}

	if len(f.drive.deleted) != 1 || f.drive.deleted[0] != "drive-file-5" {
		t.Errorf("drive deletions = %v", f.drive.deleted)
	}
	if len(f.photos.deleted) != 1 || f.photos.deleted[0] != 5 {
		t.Errorf("row deletions = %v", f.photos.deleted)
	}
	if f.projects.decCalls != 1 {
		t.Errorf("decCalls = %d, want 1", f.projects.decCalls)
	}
}

func TestDeletePhotoUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.photos.stored[5] = &models.Photo{ProjectID: 10, UserID: 99}
	f.photos.stored[5].ID = 5

	err := f.svc.DeletePhoto(context.Background(), 1, 5)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(f.photos.deleted) != 0 {
		t.Error("row deleted for wrong user")
	}
}

func TestGetProjectPhotosUnauthorized(t *testing.T) {
	f := newFixture(t)
	f.projects.project.UserID = 99

	_, err := f.svc.GetProjectPhotos(1, 10)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
