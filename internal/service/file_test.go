package service

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/dbtest"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/validation"
)

type memoryStorage struct {
	objects   map[string][]byte
	deleteErr error
}

func (s *memoryStorage) Save(path string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.objects[path] = data
	return nil
}

func (s *memoryStorage) Delete(path string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, path)
	return nil
}

func (s *memoryStorage) URL(path string) string {
	return "/uploads/" + path
}

// pngBytes starts with the PNG signature so content sniffing accepts it.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

func formFile(t *testing.T, filename string, content []byte) FileUpload {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/warp/files/new", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := r.FormFile("file")
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	return FileUpload{Name: "Cover", Alt: "alt", Title: "title", File: file, Header: header}
}

func newFileFixture(t *testing.T) (*FileService, *memoryStorage, *model.Admin) {
	t.Helper()

	database := dbtest.Open(t)
	admins := NewAdminService(repository.NewAdminRepository(database))
	admin, err := admins.Create("root@test.dev", "secret-pass")
	require.NoError(t, err)

	store := &memoryStorage{objects: map[string][]byte{}}
	return NewFileService(repository.NewFileRepository(database), store), store, admin
}

func TestFileUploadAndDelete(t *testing.T) {
	files, store, admin := newFileFixture(t)

	file, err := files.Upload(admin.ID, formFile(t, "cover.PNG", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "image/png", file.MimeType)
	assert.True(t, strings.HasPrefix(file.Path, "files/"))
	assert.True(t, strings.HasSuffix(file.Path, ".png"))
	assert.Equal(t, "/uploads/"+file.Path, file.URL)
	assert.Contains(t, store.objects, file.Path)

	require.NoError(t, files.UpdateMeta(file.ID, "new alt", "new title"))
	found, err := files.ByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "new alt", found.Alt)

	require.NoError(t, files.Delete(file.ID))
	assert.NotContains(t, store.objects, file.Path)
	_, err = files.ByID(file.ID)
	assert.ErrorIs(t, err, repository.ErrFileNotFound)
}

func TestFileUploadRejectsUnknownTypes(t *testing.T) {
	files, store, admin := newFileFixture(t)

	_, err := files.Upload(admin.ID, formFile(t, "notes.txt", []byte("plain text")))
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, validation.ErrFileType.Error(), errs["file"])

	_, err = files.Upload(admin.ID, formFile(t, "cover.pdf", pngBytes))
	require.True(t, errors.As(err, &errs), "extension must match the sniffed type")
	assert.Empty(t, store.objects)
}

func TestFileDeleteKeepsRecordWhenStorageFails(t *testing.T) {
	files, store, admin := newFileFixture(t)

	file, err := files.Upload(admin.ID, formFile(t, "cover.png", pngBytes))
	require.NoError(t, err)

	store.deleteErr = errors.New("bucket unavailable")
	assert.Error(t, files.Delete(file.ID))

	_, err = files.ByID(file.ID)
	assert.NoError(t, err)
}
