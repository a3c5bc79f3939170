package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type StorageService interface {
	// SaveFile stores an uploaded file under a generated name and returns
	// that name plus the backend location.
	SaveFile(ctx context.Context, file *multipart.FileHeader, fileType string) (string, string, error)
	SaveBytes(ctx context.Context, data []byte, originalName, fileType string) (string, string, error)
	ReadFile(ctx context.Context, filename string) ([]byte, error)
	DeleteFile(ctx context.Context, filename string) error
	EnsureUploadDir() error
}

// allowedUploadExtensions maps an upload kind to the extensions it accepts.
var allowedUploadExtensions = map[string][]string{
	"document": {".pdf"},
	"roster":   {".csv", ".xlsx"},
}

func uniqueUploadName(originalName, fileType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	allowed, ok := allowedUploadExtensions[fileType]
	if !ok {
		return "", fmt.Errorf("unknown file type: %s", fileType)
	}

	valid := false
	for _, a := range allowed {
		if ext == a {
			valid = true
			break
		}
	}
	if !valid {
		return "", fmt.Errorf("invalid file extension: %s", ext)
	}

	return fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext), nil
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *storageService) SaveFile(ctx context.Context, file *multipart.FileHeader, fileType string) (string, string, error) {
	uniqueFilename, err := uniqueUploadName(file.Filename, fileType)
	if err != nil {
		return "", "", err
	}
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) SaveBytes(ctx context.Context, data []byte, originalName, fileType string) (string, string, error) {
	uniqueFilename, err := uniqueUploadName(originalName, fileType)
	if err != nil {
		return "", "", err
	}
	filePath := filepath.Join(s.uploadPath, uniqueFilename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to save file: %w", err)
	}

	return uniqueFilename, filePath, nil
}

func (s *storageService) ReadFile(ctx context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.getFilePath(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

func (s *storageService) getFilePath(filename string) string {
	return filepath.Join(s.uploadPath, filepath.Base(filename))
}

func (s *storageService) DeleteFile(ctx context.Context, filename string) error {
	if err := os.Remove(s.getFilePath(filename)); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
