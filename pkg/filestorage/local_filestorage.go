package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileStorageInterface interface {
	// Save возвращает путь относительно корня хранилища: prefix/yyyy/mm/dd/name.ext
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	// Delete принимает как относительный путь, так и публичный URL.
	Delete(filePath string) error
	PublicURL(filePath string) string
}

type LocalFileStorage struct {
	basePath     string
	publicPrefix string
}

func NewLocalFileStorage(basePath, publicPrefix string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию: %w", err)
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	return &LocalFileStorage{basePath: basePath, publicPrefix: publicPrefix}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	now := time.Now()
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := fmt.Sprintf("%s-%s%s", now.Format("2006-01-02"), uuid.New().String(), ext)

	datePath := now.Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)

	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	fullPath := filepath.Join(fullDirPath, uniqueFileName)
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}

	if _, err = io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(fullPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(fullPath)
		return "", err
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

func (s *LocalFileStorage) PublicURL(filePath string) string {
	return s.publicPrefix + strings.TrimPrefix(filePath, "/")
}

func (s *LocalFileStorage) Delete(filePath string) error {
	relativePath := strings.TrimPrefix(filePath, s.publicPrefix)
	relativePath = strings.TrimPrefix(relativePath, "/")
	if relativePath == "" || strings.Contains(relativePath, "..") {
		return fmt.Errorf("недопустимый путь файла: %q", filePath)
	}

	fullPath := filepath.Join(s.basePath, filepath.FromSlash(relativePath))

	// Отсутствующий файл считается уже удалённым.
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
