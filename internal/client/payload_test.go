package client

import (
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestBuildPayload(t *testing.T) {
	report := writeTempFile(t, "report.pdf", "pdf bytes")
	photo := writeTempFile(t, "photo.jpg", "jpg bytes")

	sub := &Submission{
		Nom:     "Dupont",
		Prenom:  "Jean",
		Email:   "jean@example.com",
		Message: "Bonjour",
		Issue:   "numero-12",
		Paths:   []string{report, photo},
	}

	body, contentType, err := BuildPayload(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("unexpected content type %q: %v", contentType, err)
	}

	reader := multipart.NewReader(body, params["boundary"])
	fields := make(map[string]string)
	var fileNames []string
	var fileContents []string

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read part: %v", err)
		}
		data, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("failed to read part body: %v", err)
		}
		if part.FileName() != "" {
			if part.FormName() != "files" {
				t.Errorf("file part under key %q, expected files", part.FormName())
			}
			fileNames = append(fileNames, part.FileName())
			fileContents = append(fileContents, string(data))
		} else {
			fields[part.FormName()] = string(data)
		}
	}

	want := map[string]string{
		"nom":     "Dupont",
		"prenom":  "Jean",
		"email":   "jean@example.com",
		"message": "Bonjour",
		"issue":   "numero-12",
	}
	for key, val := range want {
		if fields[key] != val {
			t.Errorf("field %s = %q, want %q", key, fields[key], val)
		}
	}

	if len(fileNames) != 2 {
		t.Fatalf("expected 2 file parts, got %d", len(fileNames))
	}
	if fileNames[0] != "report.pdf" || fileNames[1] != "photo.jpg" {
		t.Errorf("file order not preserved: %v", fileNames)
	}
	if fileContents[0] != "pdf bytes" || fileContents[1] != "jpg bytes" {
		t.Errorf("file contents mangled: %v", fileContents)
	}
}

func TestBuildPayload_OmitsEmptyOptionalFields(t *testing.T) {
	report := writeTempFile(t, "report.pdf", "pdf")

	sub := &Submission{
		Nom:    "Dupont",
		Prenom: "Jean",
		Email:  "jean@example.com",
		Paths:  []string{report},
	}

	body, contentType, err := BuildPayload(sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("unexpected content type: %v", err)
	}

	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read part: %v", err)
		}
		name := part.FormName()
		if name == "message" || name == "issue" {
			t.Errorf("empty optional field %q must be omitted", name)
		}
		io.Copy(io.Discard, part)
	}
}
