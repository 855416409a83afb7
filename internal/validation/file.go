package validation

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps every upload accepted by the warp file manager
const MaxUploadSize = 10 << 20 // 10MB

var (
	ErrFileRequired = errors.New("error.file.required")
	ErrFileTooLarge = errors.New("error.file.too_large")
	ErrFileType     = errors.New("error.file.type")
)

// FileConstraints lists what an upload may be. The type is sniffed from the
// content; the extension has to agree with one of the allowed ones.
type FileConstraints struct {
	MimeTypes  map[string]bool
	Extensions map[string]bool
	MaxSize    int64
}

var (
	ImageConstraints = FileConstraints{
		MimeTypes:  map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true, "image/gif": true},
		Extensions: map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true},
		MaxSize:    MaxUploadSize,
	}

	DocumentConstraints = FileConstraints{
		MimeTypes:  map[string]bool{"application/pdf": true},
		Extensions: map[string]bool{".pdf": true},
		MaxSize:    MaxUploadSize,
	}
)

// DetectFile checks an upload against any of the constraint sets and returns
// the sniffed MIME type. The file is rewound before returning.
func DetectFile(file multipart.File, header *multipart.FileHeader, constraints ...FileConstraints) (string, error) {
	if file == nil || header == nil {
		return "", ErrFileRequired
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}

	detected := http.DetectContentType(buffer[:n])
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))

	tooLarge := false
	for _, c := range constraints {
		if header.Size > c.MaxSize {
			tooLarge = true
			continue
		}
		if c.MimeTypes[detected] && c.Extensions[ext] {
			return detected, nil
		}
	}
	if tooLarge {
		return "", ErrFileTooLarge
	}
	return "", ErrFileType
}

// IsImage reports whether mimeType is one of the accepted image types.
func IsImage(mimeType string) bool {
	return ImageConstraints.MimeTypes[mimeType]
}
