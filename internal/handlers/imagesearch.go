package handlers

import (
	"io"
	"net/http"

	"flower-shop-platform/internal/services"
)

// maxSearchUploadSize caps image search uploads at 5 MiB plus form overhead.
const maxSearchUploadSize = 5*1024*1024 + 64*1024

// ImageSearchHandler handles photo-based flower search requests
type ImageSearchHandler struct {
	imageSearchService services.ImageSearchServiceInterface
}

// NewImageSearchHandler creates a new image search handler
func NewImageSearchHandler(imageSearchService services.ImageSearchServiceInterface) *ImageSearchHandler {
	return &ImageSearchHandler{
		imageSearchService: imageSearchService,
	}
}

// SearchByImage accepts a customer photo and returns recognized flowers with
// catalog search parameters. Recognition failures come back as a 200 with
// success=false so the shop page can show the message inline.
func (h *ImageSearchHandler) SearchByImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSearchUploadSize)
	if err := r.ParseMultipartForm(maxSearchUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Hình ảnh không được vượt quá 5MB.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Vui lòng chọn một hình ảnh để tìm kiếm.")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Không đọc được hình ảnh.")
		return
	}

	contentType := header.Header.Get("Content-Type")
	result := h.imageSearchService.AnalyzeImage(r.Context(), imageData, header.Filename, contentType)

	writeJSON(w, http.StatusOK, result)
}
