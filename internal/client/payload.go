package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Result mirrors the server's JSON response for both outcomes.
type Result struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	FolderID            string `json:"folderId"`
	IssueFolderID       string `json:"issueFolderId"`
	ContributorFolderID string `json:"contributorFolderId"`
	Files               []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		WebViewLink string `json:"webViewLink"`
	} `json:"files"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// BuildPayload assembles the multipart form body the upload endpoint expects:
// the identity fields plus one "files" part per file, in argument order.
func BuildPayload(sub *Submission) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"nom":    sub.Nom,
		"prenom": sub.Prenom,
		"email":  sub.Email,
	}
	if sub.Message != "" {
		fields["message"] = sub.Message
	}
	if sub.Issue != "" {
		fields["issue"] = sub.Issue
	}
	for key, val := range fields {
		if err := w.WriteField(key, val); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", key, err)
		}
	}

	for _, path := range sub.Paths {
		if err := appendFile(w, path); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize payload: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func appendFile(w *multipart.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	part, err := w.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create file part for %s: %w", path, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

// Submit posts the submission to the server and decodes the response. A
// non-2xx status is returned as an error carrying the server's message.
func Submit(serverURL string, sub *Submission) (*Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := BuildPayload(sub)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(serverURL, "/") + "/api/upload-and-send"
	resp, err := http.Post(url, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode server response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := result.Error
		if result.Details != "" {
			msg += ": " + result.Details
		}
		return nil, fmt.Errorf("server rejected submission (%d): %s", resp.StatusCode, msg)
	}

	return &result, nil
}
