package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed question image types and the extension stored on disk.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService stores question images on local disk.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// SaveImage stores an uploaded image under a UUID filename and returns its
// public path below /uploads. The type is sniffed from the content, not the header.
func (s *MediaService) SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	contentType := mtype.String()
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// Guard against a Size header that understates the body.
	written, err := io.Copy(dst, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > s.cfg.MaxUploadBytes {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	return "/uploads/" + filename, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
