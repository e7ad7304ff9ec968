package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flower-shop-platform/internal/services"
)

type fakeImageSearchService struct {
	result *services.ImageSearchResult

	gotData        []byte
	gotFileName    string
	gotContentType string
}

func (f *fakeImageSearchService) AnalyzeImage(ctx context.Context, imageData []byte, fileName, contentType string) *services.ImageSearchResult {
	f.gotData = imageData
	f.gotFileName = fileName
	f.gotContentType = contentType
	return f.result
}

// newMultipartImage writes a multipart body with a single image part and
// returns the form content type
func newMultipartImage(t *testing.T, buf *bytes.Buffer, field, filename string, data []byte) string {
	t.Helper()

	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return writer.FormDataContentType()
}

func TestImageSearchHandler_SearchByImage(t *testing.T) {
	service := &fakeImageSearchService{
		result: &services.ImageSearchResult{
			Success:      true,
			Flower:       &services.FlowerDetection{Name: "Hồng", Confidence: 0.92},
			Colors:       []string{"Đỏ", "Hồng", "Trắng", "Vàng"},
			Presentation: "Bó hoa",
			RedirectURL:  "/shop?flowerTypes=H%E1%BB%93ng",
		},
	}
	handler := NewImageSearchHandler(service)

	imageBytes := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	var buf bytes.Buffer
	contentType := newMultipartImage(t, &buf, "image", "rose.jpg", imageBytes)

	req := httptest.NewRequest(http.MethodPost, "/api/image-search", &buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.SearchByImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, imageBytes, service.gotData)
	assert.Equal(t, "rose.jpg", service.gotFileName)
	assert.Equal(t, "image/jpeg", service.gotContentType)
	assert.Contains(t, rec.Body.String(), "Hồng")
}

func TestImageSearchHandler_SearchByImage_RecognitionFailure(t *testing.T) {
	service := &fakeImageSearchService{
		result: &services.ImageSearchResult{
			Success: false,
			Message: "Không nhận diện được hoa trong ảnh. Vui lòng thử ảnh khác.",
		},
	}
	handler := NewImageSearchHandler(service)

	var buf bytes.Buffer
	contentType := newMultipartImage(t, &buf, "image", "blur.jpg", []byte{0x01})

	req := httptest.NewRequest(http.MethodPost, "/api/image-search", &buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.SearchByImage(rec, req)

	// Graceful failures still come back as a 200 payload.
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestImageSearchHandler_SearchByImage_MissingFile(t *testing.T) {
	handler := NewImageSearchHandler(&fakeImageSearchService{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("note", "no image here"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/image-search", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.SearchByImage(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
