// Package media stores uploaded images on disk.
//
// Uploads arrive as base64 data URIs ("data:image/png;base64,...").
// Decoded files are written under the media root with generated names
// and referenced elsewhere by their root-relative path.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Dir is a media root on the local filesystem.
type Dir struct {
	root string
}

// NewDir opens (creating if needed) a media root directory.
func NewDir(root string) (*Dir, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("media root is required")
	}
	cleanRoot := filepath.Clean(root)
	if err := os.MkdirAll(cleanRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Dir{root: cleanRoot}, nil
}

// Root returns the media root path.
func (d *Dir) Root() string {
	if d == nil {
		return ""
	}
	return d.root
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveDataURI decodes a base64 image data URI into subdir and returns
// the stored file's path relative to the media root.
func (d *Dir) SaveDataURI(subdir, dataURI string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("media storage is not configured")
	}
	contentType, payload, err := splitDataURI(dataURI)
	if err != nil {
		return "", err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image data: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	dir := filepath.Join(d.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return filepath.ToSlash(filepath.Join(subdir, name)), nil
}

// Remove deletes a previously stored file. Missing files are ignored.
func (d *Dir) Remove(relPath string) error {
	if d == nil || strings.TrimSpace(relPath) == "" {
		return nil
	}
	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("path %q escapes media root", relPath)
	}
	err := os.Remove(filepath.Join(d.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

func splitDataURI(dataURI string) (contentType, payload string, err error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return "", "", fmt.Errorf("image must be a base64 data URI")
	}
	meta, payload, ok := strings.Cut(dataURI[len("data:"):], ",")
	if !ok {
		return "", "", fmt.Errorf("image data URI has no payload")
	}
	contentType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return "", "", fmt.Errorf("image data URI must be base64 encoded")
	}
	return strings.ToLower(strings.TrimSpace(contentType)), payload, nil
}
