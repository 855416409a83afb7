package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/ui"
	c "github.com/fanaberia/fanaberia/internal/ui/components"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
	"github.com/fanaberia/fanaberia/internal/validation"
)

// MaxRequestBody is the largest request body accepted: one upload plus room
// for the text fields next to it.
const MaxRequestBody = validation.MaxUploadSize + 1<<20

func uploadForm(state pages.FormState) templ.Component {
	return pages.WarpForm("warp.files", "/warp/files/new", true, state, []c.Field{
		{Name: "file", Label: "field.file", Type: "file", Error: state.Err("file"), Required: true},
		{Name: "name", Label: "field.name", Value: state.Value("name"), Error: state.Err("name")},
		{Name: "alt", Label: "field.alt", Value: state.Value("alt"), Error: state.Err("alt")},
		{Name: "title", Label: "field.title", Value: state.Value("title"), Error: state.Err("title")},
	})
}

func fileMetaForm(action string) func(pages.FormState) templ.Component {
	return func(state pages.FormState) templ.Component {
		return pages.WarpForm("warp.files", action, false, state, []c.Field{
			{Name: "alt", Label: "field.alt", Value: state.Value("alt"), Error: state.Err("alt")},
			{Name: "title", Label: "field.title", Value: state.Value("title"), Error: state.Err("title")},
		})
	}
}

func (h *WarpHandler) Files(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.All()
	if err != nil {
		slog.Error("failed to list files", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([][]string, 0, len(files))
	hrefs := make([]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Name, f.MimeType, strconv.FormatInt(f.Size, 10), formatTime(f.CreatedAt)})
		hrefs = append(hrefs, showPath("files", f.ID))
	}
	headers := []string{"field.name", "field.mime_type", "field.size", "field.created_at"}
	ui.Render(w, r, pages.WarpIndex("warp.files", "/warp/files/new", headers, rows, hrefs))
}

func (h *WarpHandler) NewFilePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, uploadForm(pages.FormState{}))
}

// NewFile stores an upload. Request bodies are capped by middleware.MaxBodySize.
func (h *WarpHandler) NewFile(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(MaxRequestBody)
	if err != nil {
		var tooLarge *http.MaxBytesError
		state := pages.FormState{Errors: map[string]string{"file": validation.ErrFileRequired.Error()}}
		if errors.As(err, &tooLarge) {
			state.Errors["file"] = validation.ErrFileTooLarge.Error()
		}
		ui.RenderStatus(w, r, http.StatusBadRequest, uploadForm(state))
		return
	}

	fields := postedFields(r, "name", "alt", "title")
	upload := service.FileUpload{Name: fields["name"], Alt: fields["alt"], Title: fields["title"]}

	var file multipart.File
	file, upload.Header, err = r.FormFile("file")
	if err == nil {
		defer file.Close()
		upload.File = file
	}

	principal := ctxkeys.Principal(r.Context())
	stored, err := h.fileService.Upload(principal.ID, upload)
	if err != nil {
		saveFailed(w, r, err, fields, uploadForm)
		return
	}
	http.Redirect(w, r, showPath("files", stored.ID), http.StatusSeeOther)
}

func (h *WarpHandler) ShowFile(w http.ResponseWriter, r *http.Request) {
	file, ok := warpRecord(w, r, h.fileService.ByID)
	if !ok {
		return
	}

	details := c.Details(
		"field.name", file.Name,
		"field.url", file.URL,
		"field.alt", file.Alt,
		"field.title", file.Title,
		"field.mime_type", file.MimeType,
		"field.size", strconv.FormatInt(file.Size, 10),
		"field.created_at", formatTime(file.CreatedAt),
	)
	var extras []templ.Component
	if validation.IsImage(file.MimeType) {
		extras = append(extras, c.ImagePreview(file.URL, file.Alt, file.Title))
	}
	deletePath := "/warp/files/" + strconv.FormatInt(file.ID, 10) + "/delete"
	ui.Render(w, r, pages.WarpShow("warp.files", editPath("files", file.ID), deletePath, details, extras...))
}

func (h *WarpHandler) EditFilePage(w http.ResponseWriter, r *http.Request) {
	file, ok := warpRecord(w, r, h.fileService.ByID)
	if !ok {
		return
	}
	state := pages.FormState{Fields: map[string]string{"alt": file.Alt, "title": file.Title}}
	ui.Render(w, r, fileMetaForm(editPath("files", file.ID))(state))
}

func (h *WarpHandler) EditFile(w http.ResponseWriter, r *http.Request) {
	file, ok := warpRecord(w, r, h.fileService.ByID)
	if !ok {
		return
	}

	fields := postedFields(r, "alt", "title")
	err := h.fileService.UpdateMeta(file.ID, fields["alt"], fields["title"])
	if err != nil {
		saveFailed(w, r, err, fields, fileMetaForm(editPath("files", file.ID)))
		return
	}
	http.Redirect(w, r, showPath("files", file.ID), http.StatusSeeOther)
}

func (h *WarpHandler) DeleteFilePage(w http.ResponseWriter, r *http.Request) {
	file, ok := warpRecord(w, r, h.fileService.ByID)
	if !ok {
		return
	}
	action := "/warp/files/" + strconv.FormatInt(file.ID, 10) + "/delete"
	ui.Render(w, r, pages.WarpConfirmDelete("warp.files", action, file.Name, pages.FormState{}))
}

// DeleteFile keeps the record when the stored object could not be removed.
func (h *WarpHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	file, ok := warpRecord(w, r, h.fileService.ByID)
	if !ok {
		return
	}

	err := h.fileService.Delete(file.ID)
	if err != nil {
		slog.Error("failed to delete file", "error", err, "file_id", file.ID)
		action := "/warp/files/" + strconv.FormatInt(file.ID, 10) + "/delete"
		ui.RenderStatus(w, r, http.StatusInternalServerError, pages.WarpConfirmDelete("warp.files", action, file.Name, dbErrorState(nil)))
		return
	}
	http.Redirect(w, r, "/warp/files", http.StatusSeeOther)
}
