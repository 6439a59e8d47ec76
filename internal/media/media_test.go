package media

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Smallest valid payload for the tests; content is never parsed as an image.
var pngDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

func openTempDir(t *testing.T) *Dir {
	t.Helper()
	dir, err := NewDir(filepath.Join(t.TempDir(), "media"))
	if err != nil {
		t.Fatalf("new media dir: %v", err)
	}
	return dir
}

func TestNewDirRequiresRoot(t *testing.T) {
	if _, err := NewDir("  "); err == nil {
		t.Fatal("expected error for blank root")
	}
}

func TestSaveDataURIWritesFile(t *testing.T) {
	dir := openTempDir(t)

	relPath, err := dir.SaveDataURI("recipes", pngDataURI)
	if err != nil {
		t.Fatalf("save data uri: %v", err)
	}
	if !strings.HasPrefix(relPath, "recipes/") || !strings.HasSuffix(relPath, ".png") {
		t.Fatalf("unexpected relative path %q", relPath)
	}

	data, err := os.ReadFile(filepath.Join(dir.Root(), relPath))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored content = %q", data)
	}
}

func TestSaveDataURIRejectsBadInput(t *testing.T) {
	dir := openTempDir(t)

	cases := []struct {
		name string
		uri  string
	}{
		{"not a data uri", "http://example.com/image.png"},
		{"no payload", "data:image/png;base64"},
		{"not base64", "data:image/png;quoted-printable,abc"},
		{"unsupported type", "data:application/pdf;base64,aGk="},
		{"invalid encoding", "data:image/png;base64,!!!"},
		{"empty payload", "data:image/png;base64,"},
	}
	for _, tc := range cases {
		if _, err := dir.SaveDataURI("recipes", tc.uri); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestRemove(t *testing.T) {
	dir := openTempDir(t)
	relPath, err := dir.SaveDataURI("avatars", pngDataURI)
	if err != nil {
		t.Fatalf("save data uri: %v", err)
	}

	if err := dir.Remove(relPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir.Root(), relPath)); !os.IsNotExist(err) {
		t.Fatalf("expected file to be gone, stat err = %v", err)
	}

	// Missing files and blank paths are not errors.
	if err := dir.Remove(relPath); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if err := dir.Remove(""); err != nil {
		t.Fatalf("remove blank: %v", err)
	}

	if err := dir.Remove("../outside.txt"); err == nil {
		t.Fatal("expected error for path escaping the root")
	}
}
