package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/storage"
	"github.com/fanaberia/fanaberia/internal/validation"
)

const filesFolder = "files"

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
	now      func() time.Time
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FileUpload is the warp upload form.
type FileUpload struct {
	Name   string
	Alt    string
	Title  string
	File   multipart.File
	Header *multipart.FileHeader
}

// Upload stores the file under a uuid name and records it for adminID.
// Form problems come back as validation.Errors.
func (s *FileService) Upload(adminID int64, upload FileUpload) (*model.File, error) {
	errs := validation.Errors{}
	mimeType, err := validation.DetectFile(upload.File, upload.Header, validation.ImageConstraints, validation.DocumentConstraints)
	errs.Add("file", err)
	if errs.Any() {
		return nil, errs
	}

	ext := strings.ToLower(filepath.Ext(upload.Header.Filename))
	storagePath := path.Join(filesFolder, uuid.New().String()+ext)

	err = s.storage.Save(storagePath, upload.File)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	name := strings.TrimSpace(upload.Name)
	if name == "" {
		name = upload.Header.Filename
	}

	now := s.now()
	file := &model.File{
		Name:      name,
		Alt:       strings.TrimSpace(upload.Alt),
		Title:     strings.TrimSpace(upload.Title),
		Path:      storagePath,
		MimeType:  mimeType,
		Size:      upload.Header.Size,
		AdminID:   adminID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.fileRepo.Create(file)
	if err != nil {
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	file.URL = s.storage.URL(file.Path)
	slog.Info("file uploaded", "file_id", file.ID, "admin_id", adminID, "size", file.Size)
	return file, nil
}

func (s *FileService) All() ([]*model.File, error) {
	files, err := s.fileRepo.All()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		file.URL = s.storage.URL(file.Path)
	}
	return files, nil
}

func (s *FileService) ByID(id int64) (*model.File, error) {
	file, err := s.fileRepo.ByID(id)
	if err != nil {
		return nil, err
	}
	file.URL = s.storage.URL(file.Path)
	return file, nil
}

func (s *FileService) UpdateMeta(id int64, alt, title string) error {
	err := s.fileRepo.UpdateMeta(id, strings.TrimSpace(alt), strings.TrimSpace(title), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return err
		}
		return fmt.Errorf("failed to update file: %w", err)
	}
	return nil
}

// Delete removes the stored object first. If that fails the record is kept
// so the object can still be found and retried.
func (s *FileService) Delete(id int64) error {
	file, err := s.fileRepo.ByID(id)
	if err != nil {
		return err
	}

	err = s.storage.Delete(file.Path)
	if err != nil {
		return fmt.Errorf("failed to delete file from storage: %w", err)
	}

	err = s.fileRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	slog.Info("file deleted", "file_id", id)
	return nil
}
