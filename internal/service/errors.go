package service

import (
	"errors"
	"fmt"
)

// Upload pipeline aşamaları. Her aşamanın kendi tipli çıkışı var, nested
// if/else yerine hangi adımda ne ile çıkıldığı her zaman belli.
type UploadStage string

const (
	StageValidating  UploadStage = "validating"
	StageFolderReady UploadStage = "folder_ready"
	StageUploading   UploadStage = "uploading"
	StagePersisting  UploadStage = "persisting"
)

var (
	// ErrMissingInput eksik/bozuk istek alanları, 400
	ErrMissingInput = errors.New("missing required input")

	// ErrStorageNotConnected kullanıcının Drive bağlantısı yok, 400;
	// client OAuth akışını tetiklemeli
	ErrStorageNotConnected = errors.New("google drive not connected")

	// ErrUploadFailed geçici transport hatası; kısmi state yazılmadığı
	// için pipeline baştan tekrar denenebilir
	ErrUploadFailed = errors.New("drive upload failed")

	// ErrPersistence remote upload başarılı ama DB yazısı değil; manuel
	// mutabakat için loglanır, tamamlanmış upload geri alınmaz
	ErrPersistence = errors.New("upload succeeded but database write failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrPlanLimit    = errors.New("plan limit reached")
)

type PipelineError struct {
	Stage UploadStage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("upload pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func pipelineErr(stage UploadStage, err error) *PipelineError {
	return &PipelineError{Stage: stage, Err: err}
}
