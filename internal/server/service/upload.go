package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"

	"filedrop/internal/server/config"
	"filedrop/internal/server/drive"
	"filedrop/internal/server/mail"
	"filedrop/internal/server/storage"
)

// Sentinel errors for the service layer.
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrDriveNotConfigured = errors.New("google drive is not configured")
)

// Request is one form submission: submitter identity, an optional free-text
// message, an optional issue label, and the spooled file parts in form order.
type Request struct {
	Nom     string `validate:"required"`
	Prenom  string `validate:"required"`
	Email   string `validate:"required"`
	Message string
	Issue   string
	Files   []storage.SpooledFile
}

// Result is returned after a fully successful submission. FolderID is set
// when no issue label was given; otherwise IssueFolderID and
// ContributorFolderID describe the nested destination.
type Result struct {
	FolderID            string
	IssueFolderID       string
	ContributorFolderID string
	Files               []drive.File
}

// UploadService orchestrates a submission end to end: validation, folder
// resolution, sequential uploads, and confirmation/notification emails.
type UploadService struct {
	resolver *drive.Resolver
	storage  drive.Storage
	sender   mail.Sender
	spool    *storage.Spool
	cfg      *config.Config
	validate *validator.Validate
}

// NewUploadService creates a new upload service. storage may be nil when the
// Drive client could not be built; Handle then reports the missing
// configuration per request.
func NewUploadService(st drive.Storage, sender mail.Sender, spool *storage.Spool, cfg *config.Config) *UploadService {
	var resolver *drive.Resolver
	if st != nil {
		resolver = drive.NewResolver(st)
	}
	return &UploadService{
		resolver: resolver,
		storage:  st,
		sender:   sender,
		spool:    spool,
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Handle runs the submission workflow. Side effects are strictly ordered: no
// file is uploaded before its destination folder exists, and no email is sent
// before every file has been uploaded. Files already on Drive are never
// rolled back when a later step fails; the caller still sees a failure.
//
// Spooled files are removed on every exit path. Uploaded ones go immediately
// after their upload, the rest in the deferred cleanup.
func (s *UploadService) Handle(ctx context.Context, req *Request) (*Result, error) {
	defer s.cleanup(req.Files)

	// 1. Validate before any remote call
	if err := s.validate.Struct(req); err != nil {
		return nil, ErrMissingFields
	}
	if len(req.Files) == 0 {
		return nil, ErrMissingFields
	}

	// 2. Guard destination configuration
	if s.storage == nil || s.cfg.DriveRootFolderID == "" {
		return nil, ErrDriveNotConfigured
	}

	// 3. Resolve the destination folder, nested under the issue folder when
	//    an issue label was given
	result := &Result{}
	folderName := fmt.Sprintf("%s_%s", req.Prenom, req.Nom)

	destParent := s.cfg.DriveRootFolderID
	if req.Issue != "" {
		issueID, err := s.resolver.Resolve(ctx, req.Issue, s.cfg.DriveRootFolderID)
		if err != nil {
			return nil, err
		}
		result.IssueFolderID = issueID
		destParent = issueID
	}

	folderID, err := s.resolver.Resolve(ctx, folderName, destParent)
	if err != nil {
		return nil, err
	}
	if req.Issue != "" {
		result.ContributorFolderID = folderID
	} else {
		result.FolderID = folderID
	}

	// 4. Upload sequentially, deleting each temp copy right after its upload
	for _, f := range req.Files {
		uploaded, err := s.uploadOne(ctx, f, folderID)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, *uploaded)

		if err := s.spool.Remove(f.Path); err != nil {
			slog.Error("failed to delete temp file", "path", f.Path, "error", err)
		}
	}

	// 5. Notify: confirmation to the submitter, then the optional admin summary
	if err := s.sender.Send(mail.ConfirmationMessage(req.Email, req.Nom, req.Prenom, result.Files)); err != nil {
		return nil, err
	}
	if s.cfg.AdminEmail != "" {
		summary := mail.AdminMessage(s.cfg.AdminEmail, req.Nom, req.Prenom, req.Email, req.Message, result.Files)
		if err := s.sender.Send(summary); err != nil {
			return nil, err
		}
	}

	slog.Info("submission processed",
		"name", folderName,
		"email", req.Email,
		"issue", req.Issue,
		"folder_id", folderID,
		"files", len(result.Files),
	)

	return result, nil
}

func (s *UploadService) uploadOne(ctx context.Context, f storage.SpooledFile, folderID string) (*drive.File, error) {
	src, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open temp file %s: %w", f.Path, err)
	}
	defer src.Close()

	uploaded, err := s.storage.UploadFile(ctx, f.OriginalName, folderID, src)
	if err != nil {
		return nil, err
	}

	slog.Info("file uploaded",
		"name", uploaded.Name,
		"id", uploaded.ID,
		"size", f.Size,
	)
	return uploaded, nil
}

// cleanup removes any spooled files still on disk. Files already deleted
// after their upload are silently skipped.
func (s *UploadService) cleanup(files []storage.SpooledFile) {
	for _, f := range files {
		if err := s.spool.Remove(f.Path); err != nil {
			slog.Error("failed to delete temp file", "path", f.Path, "error", err)
		}
	}
}
