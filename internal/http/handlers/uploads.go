package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"volunteerhub/internal/checklist"
	"volunteerhub/internal/providers/caspio"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// parts spill to temp files.
const maxUploadMemory = 10 << 20

// DocumentsUpload attaches files from a multipart form to a milestone,
// certification or form-response record. The form field name is "files".
func (a *App) DocumentsUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	files, err := formFiles(r, "files")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable file upload")
		return
	}

	category := checklist.DocumentCategory(chi.URLParam(r, "category"))
	if err := a.Engine.UploadDocument(r.Context(), category, pathID(r, "recordID"), files); err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"uploaded": len(files)})
}

// ContactPhotoUpload replaces a contact's photo. The form field name is
// "photo" and a single file is expected.
func (a *App) ContactPhotoUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart form")
		return
	}
	files, err := formFiles(r, "photo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable file upload")
		return
	}
	var photo caspio.File
	if len(files) > 0 {
		photo = files[0]
	}

	if err := a.Engine.UploadContactPhoto(r.Context(), pathID(r, "contactID"), photo); err != nil {
		a.writeError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "updated"})
}

func formFiles(r *http.Request, field string) ([]caspio.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	files := make([]caspio.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, caspio.File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}
