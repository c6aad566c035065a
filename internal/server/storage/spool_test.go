package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSpool_Save(t *testing.T) {
	t.Run("saves file to spool directory", func(t *testing.T) {
		spool := NewSpool(t.TempDir())

		sf, err := spool.Save("report.pdf", bytes.NewReader([]byte("test content")))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sf.OriginalName != "report.pdf" {
			t.Errorf("expected original name kept, got %q", sf.OriginalName)
		}
		if sf.Size != int64(len("test content")) {
			t.Errorf("expected size %d, got %d", len("test content"), sf.Size)
		}

		data, err := os.ReadFile(sf.Path)
		if err != nil {
			t.Fatalf("failed to read spooled file: %v", err)
		}
		if string(data) != "test content" {
			t.Errorf("unexpected content: %q", data)
		}
	})

	t.Run("spooled names are unique", func(t *testing.T) {
		spool := NewSpool(t.TempDir())

		a, err := spool.Save("same.txt", strings.NewReader("a"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := spool.Save("same.txt", strings.NewReader("b"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Path == b.Path {
			t.Errorf("two saves produced the same path: %s", a.Path)
		}
	})

	t.Run("strips directory components from the original name", func(t *testing.T) {
		spool := NewSpool(t.TempDir())

		sf, err := spool.Save("../../etc/passwd", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sf.OriginalName != "passwd" {
			t.Errorf("expected base name only, got %q", sf.OriginalName)
		}
	})
}

func TestSpool_Remove(t *testing.T) {
	t.Run("removes spooled file", func(t *testing.T) {
		spool := NewSpool(t.TempDir())

		sf, err := spool.Save("a.txt", strings.NewReader("a"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := spool.Remove(sf.Path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(sf.Path); !os.IsNotExist(err) {
			t.Error("expected file to be gone")
		}
	})

	t.Run("removing a missing file is not an error", func(t *testing.T) {
		spool := NewSpool(t.TempDir())
		if err := spool.Remove(filepath.Join(spool.Dir(), "never-existed")); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSpool_EnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "temp")
	spool := NewSpool(dir)

	if err := spool.EnsureDir(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
}

func TestCleanupService_StaleFiles(t *testing.T) {
	spool := NewSpool(t.TempDir())

	fresh, err := spool.Save("fresh.txt", strings.NewReader("fresh"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stale, err := spool.Save("stale.txt", strings.NewReader("stale"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Age the stale file past the cutoff
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(stale.Path, old, old); err != nil {
		t.Fatalf("failed to age file: %v", err)
	}

	cs := NewCleanupService(spool, time.Hour, time.Hour)
	cs.runCleanup()

	if _, err := os.Stat(stale.Path); !os.IsNotExist(err) {
		t.Error("expected stale file to be swept")
	}
	if _, err := os.Stat(fresh.Path); err != nil {
		t.Errorf("fresh file should survive the sweep: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "file.pdf", "file.pdf"},
		{"strips directory", "/path/to/file.pdf", "file.pdf"},
		{"strips windows path", "C:\\Users\\test\\file.pdf", "file.pdf"},
		{"empty name", "", "document"},
		{"dot name", ".", "document"},
		{"replaces slashes", "a/b/c.pdf", "c.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}

	t.Run("truncates long name keeping extension", func(t *testing.T) {
		name := strings.Repeat("a", 300) + ".pdf"
		result := sanitizeFilename(name)
		if len(result) != 255 {
			t.Errorf("expected length 255, got %d", len(result))
		}
		if !strings.HasSuffix(result, ".pdf") {
			t.Errorf("expected extension preserved, got %q", result)
		}
	})

	t.Run("oversized extension does not panic", func(t *testing.T) {
		name := "a." + strings.Repeat("b", 300)
		result := sanitizeFilename(name)
		if len(result) != 255 {
			t.Errorf("expected length 255, got %d", len(result))
		}
	})

	t.Run("extension exactly at the limit", func(t *testing.T) {
		name := "x" + "." + strings.Repeat("y", 253) + "z"
		result := sanitizeFilename(name)
		if len(result) > 255 {
			t.Errorf("expected at most 255 bytes, got %d", len(result))
		}
	})
}
