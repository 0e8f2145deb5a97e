package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEvidencePhotoPath(t *testing.T) {
	root := t.TempDir()
	ts := time.Date(2024, time.June, 5, 10, 30, 0, 0, time.UTC)

	path, err := EvidencePhotoPath(root, 25001, ts)
	if err != nil {
		t.Fatalf("photo path: %v", err)
	}

	wantDir := filepath.Join(root, "25001", "2024", "06", "05")
	if filepath.Dir(path) != wantDir {
		t.Fatalf("expected dir %s, got %s", wantDir, filepath.Dir(path))
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Fatalf("expected .jpg suffix, got %s", path)
	}
	if info, err := os.Stat(wantDir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}

	// each capture gets its own name
	other, err := EvidencePhotoPath(root, 25001, ts)
	if err != nil {
		t.Fatalf("photo path: %v", err)
	}
	if other == path {
		t.Fatal("expected distinct file names for distinct captures")
	}
}
