package handlers

import (
	"errors"
	"net/http"

	"github.com/dorothy-center/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

// maxUploadBytes caps a single image upload at 5 MiB.
const maxUploadBytes = 5 << 20

// UploadHandler provides the admin image upload endpoint.
type UploadHandler struct {
	service *services.UploadService
}

func NewUploadHandler(service *services.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// AdminRoutes registers the upload endpoint. Auth guards are applied
// by the caller.
func (h *UploadHandler) AdminRoutes(r chi.Router) {
	r.Post("/", h.Upload)
}

// Upload accepts a multipart form with a "file" part and a "folder"
// value, stores the image and returns its object key and public URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+4096)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	data, err := readFileLimited(file, maxUploadBytes)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		writeError(w, http.StatusBadRequest, "Missing folder")
		return
	}

	// Sniff the payload rather than trusting the declared part header.
	contentType := http.DetectContentType(data)

	result, err := h.service.Store(r.Context(), folder, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownFolder):
			writeError(w, http.StatusBadRequest, "Unknown folder")
		case errors.Is(err, services.ErrUnsupportedMediaType):
			writeError(w, http.StatusUnsupportedMediaType, "Unsupported file type")
		default:
			writeError(w, http.StatusInternalServerError, "Storage error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}
