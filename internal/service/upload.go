package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/domain"
)

// MaxUploadSize is the upper bound for a single image upload.
const MaxUploadSize = 5 << 20 // 5 MiB

// Subdirectories under the upload root, one per image kind.
const (
	PostImageDir      = "posts"
	ProfilePictureDir = "profiles"
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// UploadService validates multipart image uploads and writes them to
// disk under the configured root directory.
type UploadService struct {
	root string
}

// NewUploadService creates a new UploadService rooted at dir.
func NewUploadService(dir string) *UploadService {
	return &UploadService{root: dir}
}

// EnsureDirs creates the upload subdirectories. Safe to call
// repeatedly; an existing directory is success.
func (s *UploadService) EnsureDirs() error {
	for _, sub := range []string{PostImageDir, ProfilePictureDir} {
		if err := os.MkdirAll(filepath.Join(s.root, sub), 0o755); err != nil {
			return fmt.Errorf("create upload dir %s: %w", sub, err)
		}
	}
	return nil
}

// Store validates the uploaded file and writes it under subdir with a
// timestamp-derived name, returning the relative public URL. Nothing
// is written when validation fails.
func (s *UploadService) Store(file multipart.File, header *multipart.FileHeader, subdir, prefix string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: extension %q is not an accepted image type", domain.ErrInvalidFileType, ext)
	}
	if !allowedContentTypes[header.Header.Get("Content-Type")] {
		return "", fmt.Errorf("%w: content type %q is not an accepted image type", domain.ErrInvalidFileType, header.Header.Get("Content-Type"))
	}
	if header.Size > MaxUploadSize {
		return "", fmt.Errorf("%w: image exceeds 5MiB limit", domain.ErrFileTooLarge)
	}

	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%d%s", prefix, time.Now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return "/uploads/" + subdir + "/" + name, nil
}
