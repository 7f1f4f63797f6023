package handlers

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/storage"
)

// UploadHandler accepts a single multipart file and stores it
type UploadHandler struct {
	store   storage.Store
	maxSize int64
	logger  *logger.Logger
}

func NewUploadHandler(store storage.Store, maxSize int64, log *logger.Logger) *UploadHandler {
	return &UploadHandler{store: store, maxSize: maxSize, logger: log}
}

// Upload stores the "file" form field and returns its URL
// @Summary Upload a file
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		writeError(w, errors.BadRequest("Upload too large or malformed"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.BadRequest("No file uploaded"))
		return
	}
	defer file.Close()

	if header.Size > h.maxSize {
		writeError(w, errors.BadRequest("Upload too large or malformed"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.store.Save(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"filename": header.Filename,
			"size":     header.Size,
		}).WithError(err).Error("Upload failed")
		writeError(w, errors.Internal("Failed to store upload", err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.UploadResponse{URL: url})
}

// ServeUploads serves stored uploads from dir as downloads. Browsers never
// render an upload inline as a page of this origin and directory listings
// are not served.
func ServeUploads(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			writeError(w, errors.NotFound("File"))
			return
		}

		h := w.Header()
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(r.URL.Path)))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
		files.ServeHTTP(w, r)
	})
}
