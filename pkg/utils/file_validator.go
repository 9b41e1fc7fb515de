package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"equipment-tracker/config"
)

const sniffLen = 512

// ValidateFile проверяет размер, расширение и сигнатуру загружаемого файла.
// После проверки указатель чтения возвращается в начало.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, uploadKind string) error {
	rule, ok := config.UploadContexts[uploadKind]
	if !ok {
		return fmt.Errorf("неизвестный вид загрузки: %s", uploadKind)
	}

	if fileHeader.Size == 0 {
		return fmt.Errorf("файл пуст")
	}
	if limit := rule.MaxSizeMB << 20; rule.MaxSizeMB > 0 && fileHeader.Size > limit {
		return fmt.Errorf("размер файла (%d KB) превышает лимит в %d MB", fileHeader.Size>>10, rule.MaxSizeMB)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if len(rule.AllowedExtensions) > 0 && !slices.Contains(rule.AllowedExtensions, ext) {
		return fmt.Errorf("недопустимое расширение файла: %q", ext)
	}

	mimeType, err := sniffContentType(file)
	if err != nil {
		return err
	}
	if !slices.Contains(rule.AllowedMimeTypes, mimeType) {
		return fmt.Errorf("недопустимый тип файла: %s", mimeType)
	}
	return nil
}

func sniffContentType(file io.ReadSeeker) (string, error) {
	buffer := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("не удалось прочитать файл: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("не удалось вернуться в начало файла: %w", err)
	}
	return http.DetectContentType(buffer[:n]), nil
}
