package photos

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/futureline/internal/model"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestScanDirFiltersToImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "family.jpg", []byte("jpg"))
	writeFile(t, dir, "holiday.PNG", []byte("png"))
	writeFile(t, dir, "notes.txt", []byte("text"))
	writeFile(t, dir, "raw.cr2", []byte("raw"))

	found, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("got %d photos, want 2", len(found))
	}
	for _, p := range found {
		if p.Name == "notes.txt" || p.Name == "raw.cr2" {
			t.Fatalf("non-image file %s in results", p.Name)
		}
	}
}

func TestScanDirMissingDirectory(t *testing.T) {
	found, err := ScanDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ScanDir: %v", err)
	}
	if found != nil {
		t.Fatalf("got %v, want nil for missing dir", found)
	}
}

func TestLoadProducesDataURL(t *testing.T) {
	dir := t.TempDir()
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	path := writeFile(t, dir, "family.jpeg", raw)

	photo, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	wantPrefix := "data:image/jpeg;base64,"
	if !strings.HasPrefix(photo.DataURL, wantPrefix) {
		t.Fatalf("data URL %q missing prefix %q", photo.DataURL[:30], wantPrefix)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(photo.DataURL, wantPrefix))
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Fatal("payload does not round-trip")
	}
	if photo.ID == "" || photo.UploadedAt == 0 {
		t.Fatalf("metadata not populated: %+v", photo)
	}
}

func TestLoadRejectsUnsupported(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scan.tiff", []byte("tiff"))
	if _, err := Load(path); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestReferencePicksNewestPhoto(t *testing.T) {
	plan := &model.Plan{FamilyPhotos: []model.FamilyPhoto{
		{ID: "a", DataURL: "data:image/png;base64,b2xk", UploadedAt: 100},
		{ID: "b", DataURL: "data:image/jpeg;base64,bmV3", UploadedAt: 200},
		{ID: "c", DataURL: "http://example.com/x.png", UploadedAt: 300},
	}}

	img := Reference(plan)
	if img == nil {
		t.Fatal("Reference returned nil")
	}
	if img.MIMEType != "image/jpeg" {
		t.Fatalf("picked mime %s, want newest data-URL photo", img.MIMEType)
	}
	if string(img.Data) != "new" {
		t.Fatalf("picked payload %q, want %q", img.Data, "new")
	}
}

func TestReferenceNilWithoutPhotos(t *testing.T) {
	if img := Reference(&model.Plan{}); img != nil {
		t.Fatalf("got %+v, want nil", img)
	}
}
