package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flower-shop-platform/internal/models"
	"flower-shop-platform/internal/services"
)

// fakeArrangementService returns canned data and records mutating calls
type fakeArrangementService struct {
	arrangement *models.Arrangement
	flowerTypes []*models.FlowerType
	styles      []*models.PresentationStyle
	flower      *models.ArrangementFlower
	total       int
	available   bool
	err         error

	savedIDs   []int
	deletedIDs []int
	previewURL string
}

func (f *fakeArrangementService) CreateArrangement(req *models.ArrangementCreateRequest) (*models.Arrangement, error) {
	if f.err != nil {
		return nil, f.err
	}
	created := *f.arrangement
	created.Name = req.Name
	created.UserID = req.UserID
	return &created, nil
}

func (f *fakeArrangementService) GetArrangementByID(id int) (*models.Arrangement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.arrangement, nil
}

func (f *fakeArrangementService) GetUserArrangements(userID int) ([]*models.Arrangement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Arrangement{f.arrangement}, nil
}

func (f *fakeArrangementService) GetSavedArrangements(userID int) ([]*models.Arrangement, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Arrangement{f.arrangement}, nil
}

func (f *fakeArrangementService) DeleteArrangement(id int) error {
	if f.err != nil {
		return f.err
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeArrangementService) AddFlower(req *models.AddFlowerRequest) (*models.ArrangementFlower, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.flower, f.total, nil
}

func (f *fakeArrangementService) UpdateFlower(req *models.UpdateFlowerRequest) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

func (f *fakeArrangementService) RemoveFlower(flowerID int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

func (f *fakeArrangementService) SaveArrangement(id int) error {
	if f.err != nil {
		return f.err
	}
	f.savedIDs = append(f.savedIDs, id)
	return nil
}

func (f *fakeArrangementService) UnsaveArrangement(id int) error {
	return f.err
}

func (f *fakeArrangementService) SetPreviewImage(id int, imageURL string) error {
	if f.err != nil {
		return f.err
	}
	f.previewURL = imageURL
	return nil
}

func (f *fakeArrangementService) CheckFlowerAvailability(flowerTypeID, quantity int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.available, nil
}

func (f *fakeArrangementService) CalculateTotalPrice(arrangementID int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

func (f *fakeArrangementService) GetAvailableFlowerTypes() ([]*models.FlowerType, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.flowerTypes, nil
}

func (f *fakeArrangementService) GetPresentationStyles() ([]*models.PresentationStyle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.styles, nil
}

type fakeImageService struct {
	result *services.PreviewImageResult
	err    error
}

func (f *fakeImageService) UploadPreviewImage(ctx context.Context, reader io.Reader, filename string) (*services.PreviewImageResult, error) {
	return f.result, f.err
}

func (f *fakeImageService) ValidateImage(reader io.Reader, maxSize int64) error {
	return f.err
}

// Test helpers

func newTestArrangement() *models.Arrangement {
	return &models.Arrangement{
		ID:                  1,
		Name:                "Birthday bouquet",
		PresentationStyleID: 1,
		BasePrice:           50000,
		FlowersCost:         60000,
		TotalPrice:          110000,
		PreviewImageURL:     "https://cdn.example.com/preview.jpeg",
	}
}

func newArrangementRouter(service *fakeArrangementService, store sessions.Store) http.Handler {
	handler := NewArrangementHandler(service, &fakeImageService{}, store)
	cartHandler := NewCartHandler(store)

	r := chi.NewRouter()
	r.Get("/api/arrangements/designer-data", handler.DesignerData)
	r.Post("/api/arrangements", handler.CreateArrangement)
	r.Get("/api/arrangements/saved", handler.SavedArrangements)
	r.Get("/api/arrangements/{id}", handler.GetArrangement)
	r.Delete("/api/arrangements/{id}", handler.DeleteArrangement)
	r.Post("/api/arrangements/{id}/flowers", handler.AddFlower)
	r.Put("/api/arrangements/{id}/flowers/{flowerID}", handler.UpdateFlower)
	r.Delete("/api/arrangements/{id}/flowers/{flowerID}", handler.RemoveFlower)
	r.Post("/api/arrangements/{id}/save", handler.SaveArrangement)
	r.Get("/api/arrangements/{id}/price", handler.CalculatePrice)
	r.Get("/api/flowers/{flowerTypeID}/availability", handler.CheckAvailability)
	r.Post("/api/arrangements/{id}/add-to-cart", handler.AddToCart)
	r.Get("/api/cart", cartHandler.ViewCart)
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestArrangementHandler_DesignerData(t *testing.T) {
	service := &fakeArrangementService{
		flowerTypes: []*models.FlowerType{{ID: 1, Name: "Hồng", UnitPrice: 20000, Quantity: 50, IsActive: true}},
		styles:      []*models.PresentationStyle{{ID: 1, Name: "Bó hoa", BasePrice: 50000}},
	}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/arrangements/designer-data", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.Len(t, data["flowerTypes"], 1)
	assert.Len(t, data["presentationStyles"], 1)
}

func TestArrangementHandler_CreateArrangement(t *testing.T) {
	service := &fakeArrangementService{arrangement: newTestArrangement()}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	payload := `{"name":"Tet bouquet","presentation_style_id":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/arrangements", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
}

func TestArrangementHandler_CreateArrangement_BadJSON(t *testing.T) {
	service := &fakeArrangementService{arrangement: newTestArrangement()}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	req := httptest.NewRequest(http.MethodPost, "/api/arrangements", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArrangementHandler_GetArrangement_NotFound(t *testing.T) {
	service := &fakeArrangementService{err: models.ErrArrangementNotFound}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/arrangements/42", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArrangementHandler_AddFlower(t *testing.T) {
	service := &fakeArrangementService{
		arrangement: newTestArrangement(),
		flower:      &models.ArrangementFlower{ID: 7, ArrangementID: 1, FlowerTypeID: 1, Quantity: 3, UnitPrice: 20000, TotalPrice: 60000},
		total:       110000,
	}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	payload := `{"flower_type_id":1,"quantity":3,"color":"Đỏ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/arrangements/1/flowers", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(110000), data["totalPrice"])
}

func TestArrangementHandler_AddFlower_InsufficientStock(t *testing.T) {
	service := &fakeArrangementService{err: fmt.Errorf("%w: Hồng", models.ErrInsufficientStock)}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	payload := `{"flower_type_id":1,"quantity":999,"color":"Đỏ"}`
	req := httptest.NewRequest(http.MethodPost, "/api/arrangements/1/flowers", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestArrangementHandler_CalculatePrice(t *testing.T) {
	service := &fakeArrangementService{total: 110000}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/arrangements/1/price", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(110000), data["totalPrice"])
}

func TestArrangementHandler_CheckAvailability(t *testing.T) {
	service := &fakeArrangementService{available: true}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flowers/1/availability?quantity=3", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["available"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flowers/1/availability?quantity=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArrangementHandler_SavedArrangements_RequiresLogin(t *testing.T) {
	service := &fakeArrangementService{arrangement: newTestArrangement()}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/arrangements/saved", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// Adding the same arrangement twice must yield two cart lines; a bespoke
// bouquet is never merged like a catalog product would be.
func TestArrangementHandler_AddToCart_NeverMerges(t *testing.T) {
	service := &fakeArrangementService{arrangement: newTestArrangement()}
	router := newArrangementRouter(service, sessions.NewCookieStore([]byte("test-secret")))

	var cookies []*http.Cookie
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/arrangements/1/add-to-cart", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		if got := rec.Result().Cookies(); len(got) > 0 {
			cookies = got
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["totalItems"])
	assert.Equal(t, float64(220000), data["totalPrice"])

	cart := data["cart"].(map[string]interface{})
	items := cart["items"].([]interface{})
	assert.Len(t, items, 2)
}

func TestArrangementHandler_UploadPreview(t *testing.T) {
	service := &fakeArrangementService{arrangement: newTestArrangement()}
	store := sessions.NewCookieStore([]byte("test-secret"))
	handler := NewArrangementHandler(service, &fakeImageService{
		result: &services.PreviewImageResult{
			Key: "arrangements/2026/08/31/x/preview.jpeg",
			URL: "https://cdn.example.com/x/preview.jpeg",
		},
	}, store)

	r := chi.NewRouter()
	r.Post("/api/arrangements/{id}/preview", handler.UploadPreview)

	var buf bytes.Buffer
	writer := newMultipartImage(t, &buf, "image", "photo.jpg", []byte{0xFF, 0xD8, 0xFF})

	req := httptest.NewRequest(http.MethodPost, "/api/arrangements/1/preview", &buf)
	req.Header.Set("Content-Type", writer)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://cdn.example.com/x/preview.jpeg", service.previewURL)
}
