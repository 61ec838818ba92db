package storage

import (
	"context"
	"io"
)

type DriveStorage interface {
	EnsureRootFolder(ctx context.Context, refreshToken string) (string, error)
	EnsureProjectFolder(ctx context.Context, refreshToken, rootFolderID, clientName, projectName string) (string, error)
	UploadFile(ctx context.Context, refreshToken, folderID, name, mimeType string, data []byte) (*DriveFile, error)
	DeleteFile(ctx context.Context, refreshToken, fileID string) error
}

type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
