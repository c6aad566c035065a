package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"filedrop/internal/server/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Folder identifies a location in the remote hierarchy.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// File is the result of a successful upload.
type File struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

// Permission is a sharing grant on a folder or file.
type Permission struct {
	ID           string
	Type         string
	Role         string
	EmailAddress string
}

// Storage defines the operations the service needs from the remote store.
// This allows swapping the Google Drive backend for a fake in tests.
type Storage interface {
	FindFolder(ctx context.Context, name, parentID string) (*Folder, error)
	CreateFolder(ctx context.Context, name, parentID string) (*Folder, error)
	ListPermissions(ctx context.Context, fileID string) ([]Permission, error)
	CreatePermission(ctx context.Context, fileID string, perm Permission) error
	UploadFile(ctx context.Context, name, folderID string, data io.Reader) (*File, error)
}

// GoogleDrive implements Storage against the Drive v3 API.
type GoogleDrive struct {
	svc *driveapi.Service
}

// New builds a Drive client authenticated with the configured OAuth2
// refresh token.
func New(ctx context.Context, cfg *config.Config) (*GoogleDrive, error) {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{driveapi.DriveFileScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})

	svc, err := driveapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &GoogleDrive{svc: svc}, nil
}

// FindFolder returns the first non-trashed folder with the given name directly
// under parentID, or nil when none exists. The provider imposes no ordering on
// matches; the first returned wins.
func (g *GoogleDrive) FindFolder(ctx context.Context, name, parentID string) (*Folder, error) {
	query := fmt.Sprintf(
		"name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), escapeQuery(parentID), folderMimeType,
	)

	list, err := g.svc.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	if len(list.Files) == 0 {
		return nil, nil
	}
	return &Folder{ID: list.Files[0].Id, Name: list.Files[0].Name}, nil
}

// CreateFolder creates a folder with the given name under parentID.
func (g *GoogleDrive) CreateFolder(ctx context.Context, name, parentID string) (*Folder, error) {
	meta := &driveapi.File{
		Name:     name,
		MimeType: folderMimeType,
	}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	created, err := g.svc.Files.Create(meta).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder %q: %w", name, err)
	}

	return &Folder{ID: created.Id, Name: created.Name}, nil
}

// ListPermissions returns the sharing grants on a file or folder.
func (g *GoogleDrive) ListPermissions(ctx context.Context, fileID string) ([]Permission, error) {
	list, err := g.svc.Permissions.List(fileID).
		Fields("permissions(id, type, role, emailAddress)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	perms := make([]Permission, 0, len(list.Permissions))
	for _, p := range list.Permissions {
		perms = append(perms, Permission{
			ID:           p.Id,
			Type:         p.Type,
			Role:         p.Role,
			EmailAddress: p.EmailAddress,
		})
	}
	return perms, nil
}

// CreatePermission adds a sharing grant to a file or folder.
func (g *GoogleDrive) CreatePermission(ctx context.Context, fileID string, perm Permission) error {
	_, err := g.svc.Permissions.Create(fileID, &driveapi.Permission{
		Type:         perm.Type,
		Role:         perm.Role,
		EmailAddress: perm.EmailAddress,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}
	return nil
}

// UploadFile streams data into a new file under folderID and returns its
// identifier, name and shareable view link.
func (g *GoogleDrive) UploadFile(ctx context.Context, name, folderID string, data io.Reader) (*File, error) {
	meta := &driveapi.File{
		Name:    name,
		Parents: []string{folderID},
	}

	created, err := g.svc.Files.Create(meta).
		Media(data, googleapi.ContentType("application/octet-stream")).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %q: %w", name, err)
	}

	return &File{ID: created.Id, Name: created.Name, WebViewLink: created.WebViewLink}, nil
}

// escapeQuery escapes single quotes and backslashes for Drive query strings.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
