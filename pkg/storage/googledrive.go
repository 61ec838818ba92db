package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	// Kullanıcının Drive'ında uygulamaya ait kök klasör
	RootFolderName = "SiteSnap"

	folderMimeType = "application/vnd.google-apps.folder"
)

// ErrAuth, Drive'ın 401/403 döndüğü durumlar için. Sessizce retry edilmez;
// kullanıcı OAuth bağlantısını yenilemeli.
var ErrAuth = errors.New("google drive authorization failed")

type DriveFile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ViewLink string `json:"view_link"`
}

type GoogleDriveStorage struct {
	oauth *oauth2.Config
	opts  []option.ClientOption
}

// NewGoogleDriveStorage kullanıcı başına Drive erişimi için OAuth config'ini
// kurar. Ek option'lar testlerde endpoint override etmek için.
func NewGoogleDriveStorage(clientID, clientSecret, redirectURL string, opts ...option.ClientOption) *GoogleDriveStorage {
	return &GoogleDriveStorage{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				drive.DriveFileScope, // sadece uygulamanın oluşturduğu dosyalar
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		opts: opts,
	}
}

func (s *GoogleDriveStorage) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (s *GoogleDriveStorage) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, classifyDriveError(err)
	}
	return token, nil
}

// service, kalıcı refresh token'dan kısa ömürlü access token üreten bir
// TokenSource ile Drive istemcisi kurar. Refresh token hiçbir zaman doğrudan
// access token yerine kullanılmaz.
func (s *GoogleDriveStorage) service(ctx context.Context, refreshToken string) (*drive.Service, error) {
	if refreshToken == "" {
		return nil, ErrAuth
	}

	source := s.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	opts := append([]option.ClientOption{option.WithTokenSource(source)}, s.opts...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return svc, nil
}

// EnsureRootFolder mevcut, çöpe atılmamış SiteSnap klasörünü arar; yoksa
// oluşturur. Arama ile oluşturma arasında aynı kullanıcı için dar bir yarış
// penceresi vardır; nadir bir duplicate klasör upload doğruluğunu bozmaz,
// sadece temizlik gerektirir.
func (s *GoogleDriveStorage) EnsureRootFolder(ctx context.Context, refreshToken string) (string, error) {
	svc, err := s.service(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", RootFolderName, folderMimeType)
	list, err := svc.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", classifyDriveError(err)
	}

	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := svc.Files.Create(&drive.File{
		Name:     RootFolderName,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", classifyDriveError(err)
	}

	return folder.Id, nil
}

// EnsureProjectFolder kök klasörün altında "<müşteri> - <proje>" isimli
// alt klasörü oluşturur. Proje başına en fazla bir kez çağrılır; guard,
// Project satırındaki nullable drive_folder_id referansıdır.
func (s *GoogleDriveStorage) EnsureProjectFolder(ctx context.Context, refreshToken, rootFolderID, clientName, projectName string) (string, error) {
	svc, err := s.service(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	folder, err := svc.Files.Create(&drive.File{
		Name:     fmt.Sprintf("%s - %s", clientName, projectName),
		MimeType: folderMimeType,
		Parents:  []string{rootFolderID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", classifyDriveError(err)
	}

	return folder.Id, nil
}

// UploadFile byte'ları ilgili proje klasörüne yükler, dosya id'si ve
// paylaşılabilir link döner
func (s *GoogleDriveStorage) UploadFile(ctx context.Context, refreshToken, folderID, name, mimeType string, data []byte) (*DriveFile, error) {
	svc, err := s.service(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	file, err := svc.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id, webViewLink").
		Context(ctx).Do()
	if err != nil {
		return nil, classifyDriveError(err)
	}

	return &DriveFile{ID: file.Id, Name: name, ViewLink: file.WebViewLink}, nil
}

func (s *GoogleDriveStorage) ListFolderFiles(ctx context.Context, refreshToken, folderID string) ([]DriveFile, error) {
	svc, err := s.service(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)
	list, err := svc.Files.List().Q(query).
		Fields("files(id, name, webViewLink)").
		OrderBy("createdTime desc").
		Context(ctx).Do()
	if err != nil {
		return nil, classifyDriveError(err)
	}

	files := make([]DriveFile, 0, len(list.Files))
	for _, f := range list.Files {
		files = append(files, DriveFile{ID: f.Id, Name: f.Name, ViewLink: f.WebViewLink})
	}
	return files, nil
}

func (s *GoogleDriveStorage) DeleteFile(ctx context.Context, refreshToken, fileID string) error {
	svc, err := s.service(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return classifyDriveError(err)
	}
	return nil
}

// classifyDriveError kimlik hatalarını geçici network hatalarından ayırır
func classifyDriveError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 401 || gerr.Code == 403) {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	return err
}
