package drivers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFSDriver_SaveGetDelete(t *testing.T) {
	tempDir := t.TempDir()

	driver, err := NewLocalFSDriver(tempDir, "/files/")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	ctx := context.Background()
	key := "journals/2026/abc.json"
	content := []byte(`{"entries":[]}`)

	if err := driver.Save(ctx, key, bytes.NewReader(content), "application/json"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fullPath := filepath.Join(tempDir, "journals", "2026", "abc.json")
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		t.Errorf("file not found at %s", fullPath)
	}

	reader, contentType, err := driver.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer reader.Close()

	if contentType != "application/json" {
		t.Errorf("expected content type application/json, got %s", contentType)
	}
	got, _ := io.ReadAll(reader)
	if !bytes.Equal(got, content) {
		t.Errorf("expected %q, got %q", content, got)
	}

	url, err := driver.GenerateURL(ctx, key, 0)
	if err != nil {
		t.Fatalf("GenerateURL failed: %v", err)
	}
	if url != "/files/journals/2026/abc.json" {
		t.Errorf("unexpected URL: %s", url)
	}

	if err := driver.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(fullPath); !os.IsNotExist(err) {
		t.Error("file still exists after delete")
	}
	if _, err := os.Stat(fullPath + ".meta"); !os.IsNotExist(err) {
		t.Error("metadata sidecar still exists after delete")
	}

	// deleting twice is not an error
	if err := driver.Delete(ctx, key); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
}

func TestLocalFSDriver_GetWithoutSidecar(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "bundle.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	driver, err := NewLocalFSDriver(tempDir, "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	reader, contentType, err := driver.Get(context.Background(), "bundle.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	reader.Close()

	if contentType != "application/json" {
		t.Errorf("expected content type from extension, got %s", contentType)
	}
}

func TestLocalFSDriver_NotFound(t *testing.T) {
	driver, err := NewLocalFSDriver(t.TempDir(), "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	_, _, err = driver.Get(context.Background(), "missing.yaml")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLocalFSDriver_RejectsEscapingKeys(t *testing.T) {
	driver, err := NewLocalFSDriver(t.TempDir(), "")
	if err != nil {
		t.Fatalf("failed to create driver: %v", err)
	}

	for _, key := range []string{"", "../outside.json", "/etc/passwd"} {
		if err := driver.Save(context.Background(), key, bytes.NewReader(nil), "text/plain"); err == nil {
			t.Errorf("expected Save to reject key %q", key)
		}
	}
}
