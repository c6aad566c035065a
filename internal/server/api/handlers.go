package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"filedrop/internal/server/config"
	"filedrop/internal/server/service"
	"filedrop/internal/server/storage"
)

// Handler contains the HTTP handlers for the filedrop API.
type Handler struct {
	svc   *service.UploadService
	spool *storage.Spool
	cfg   *config.Config
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(svc *service.UploadService, spool *storage.Spool, cfg *config.Config) *Handler {
	return &Handler{svc: svc, spool: spool, cfg: cfg}
}

// HandleUploadAndSend handles POST /api/upload-and-send.
// Accepts a multipart form with fields "nom", "prenom", "email", optional
// "message" and "issue", and one or more file parts under "files".
func (h *Handler) HandleUploadAndSend(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Données manquantes",
		})
	}

	fileHeaders := form.File["files"]

	// Per-file size gate before anything touches disk; the orchestrator
	// never sees oversized requests.
	for _, fh := range fileHeaders {
		if fh.Size > h.cfg.MaxFileSize {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{
				"error": "Fichier trop volumineux",
			})
		}
	}

	var spooled []storage.SpooledFile
	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			h.discard(spooled)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":   "Erreur lors du traitement",
				"details": err.Error(),
			})
		}

		sf, err := h.spool.Save(fh.Filename, src)
		src.Close()
		if err != nil {
			h.discard(spooled)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":   "Erreur lors du traitement",
				"details": err.Error(),
			})
		}
		spooled = append(spooled, *sf)
	}

	result, err := h.svc.Handle(c.Request().Context(), &service.Request{
		Nom:     c.FormValue("nom"),
		Prenom:  c.FormValue("prenom"),
		Email:   c.FormValue("email"),
		Message: c.FormValue("message"),
		Issue:   c.FormValue("issue"),
		Files:   spooled,
	})
	if err != nil {
		return mapServiceError(c, err)
	}

	resp := echo.Map{
		"success": true,
		"message": "Fichiers uploadés avec succès",
		"files":   result.Files,
	}
	if result.FolderID != "" {
		resp["folderId"] = result.FolderID
	} else {
		resp["issueFolderId"] = result.IssueFolderID
		resp["contributorFolderId"] = result.ContributorFolderID
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleHealth handles GET /health.
func (h *Handler) HandleHealth(c echo.Context) error {
	driveStatus := "configured"
	status := "healthy"
	if !h.cfg.DriveConfigured() {
		driveStatus = "not configured"
		status = "degraded"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": status,
		"drive":  driveStatus,
	})
}

// discard removes spool files for a request that never reached the service.
func (h *Handler) discard(files []storage.SpooledFile) {
	for _, f := range files {
		if err := h.spool.Remove(f.Path); err != nil {
			slog.Error("failed to delete temp file", "path", f.Path, "error", err)
		}
	}
}

// mapServiceError translates service-layer errors into the JSON bodies the
// form frontend expects.
func mapServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Données manquantes",
		})
	case errors.Is(err, service.ErrDriveNotConfigured):
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Configuration Google Drive manquante",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Erreur lors du traitement",
			"details": err.Error(),
		})
	}
}
