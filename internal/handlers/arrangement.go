package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"

	"flower-shop-platform/internal/middleware"
	"flower-shop-platform/internal/models"
	"flower-shop-platform/internal/services"
)

// maxPreviewUploadSize caps arrangement preview uploads at 5 MiB.
const maxPreviewUploadSize = 5 * 1024 * 1024

// ArrangementHandler handles the custom arrangement designer endpoints
type ArrangementHandler struct {
	arrangementService services.ArrangementServiceInterface
	imageService       services.ImageServiceInterface
	store              sessions.Store
}

// NewArrangementHandler creates a new arrangement handler
func NewArrangementHandler(
	arrangementService services.ArrangementServiceInterface,
	imageService services.ImageServiceInterface,
	store sessions.Store,
) *ArrangementHandler {
	return &ArrangementHandler{
		arrangementService: arrangementService,
		imageService:       imageService,
		store:              store,
	}
}

// DesignerData returns the flower types and presentation styles the
// designer page needs
func (h *ArrangementHandler) DesignerData(w http.ResponseWriter, r *http.Request) {
	flowerTypes, err := h.arrangementService.GetAvailableFlowerTypes()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	styles, err := h.arrangementService.GetPresentationStyles()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "", map[string]interface{}{
		"flowerTypes":        flowerTypes,
		"presentationStyles": styles,
	})
}

// CreateArrangement starts a new arrangement for the current user or guest
func (h *ArrangementHandler) CreateArrangement(w http.ResponseWriter, r *http.Request) {
	var req models.ArrangementCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ.")
		return
	}

	// The owner is always taken from the session, never from the payload.
	req.UserID = middleware.CurrentUserID(h.store, r)

	arrangement, err := h.arrangementService.CreateArrangement(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{
		Success: true,
		Message: "Đã tạo mẫu hoa mới.",
		Data:    arrangement,
	})
}

// GetArrangement returns an arrangement with its flowers and style
func (h *ArrangementHandler) GetArrangement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	arrangement, err := h.arrangementService.GetArrangementByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "", arrangement)
}

// DeleteArrangement removes an arrangement and its flower lines
func (h *ArrangementHandler) DeleteArrangement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	if err := h.arrangementService.DeleteArrangement(id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã xóa mẫu hoa.", nil)
}

// AddFlower adds a flower line and returns it with the new total
func (h *ArrangementHandler) AddFlower(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	var req models.AddFlowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ.")
		return
	}
	req.ArrangementID = id

	flower, total, err := h.arrangementService.AddFlower(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã thêm hoa vào mẫu.", map[string]interface{}{
		"flower":     flower,
		"totalPrice": total,
	})
}

// UpdateFlower changes a flower line's quantity and color
func (h *ArrangementHandler) UpdateFlower(w http.ResponseWriter, r *http.Request) {
	flowerID, err := idParam(r, "flowerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã dòng hoa không hợp lệ.")
		return
	}

	var req models.UpdateFlowerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ.")
		return
	}
	req.FlowerID = flowerID

	total, err := h.arrangementService.UpdateFlower(&req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã cập nhật dòng hoa.", map[string]interface{}{
		"totalPrice": total,
	})
}

// RemoveFlower deletes a flower line and returns the new total
func (h *ArrangementHandler) RemoveFlower(w http.ResponseWriter, r *http.Request) {
	flowerID, err := idParam(r, "flowerID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã dòng hoa không hợp lệ.")
		return
	}

	total, err := h.arrangementService.RemoveFlower(flowerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã xóa hoa khỏi mẫu.", map[string]interface{}{
		"totalPrice": total,
	})
}

// SaveArrangement marks an arrangement as saved for later
func (h *ArrangementHandler) SaveArrangement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	if err := h.arrangementService.SaveArrangement(id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã lưu mẫu hoa.", nil)
}

// UnsaveArrangement clears the saved flag
func (h *ArrangementHandler) UnsaveArrangement(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	if err := h.arrangementService.UnsaveArrangement(id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã bỏ lưu mẫu hoa.", nil)
}

// SavedArrangements lists the current user's saved, unordered arrangements
func (h *ArrangementHandler) SavedArrangements(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(h.store, r)
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Vui lòng đăng nhập để xem mẫu hoa đã lưu.")
		return
	}

	arrangements, err := h.arrangementService.GetSavedArrangements(*userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "", arrangements)
}

// CalculatePrice recomputes and returns the arrangement's total price
func (h *ArrangementHandler) CalculatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	total, err := h.arrangementService.CalculateTotalPrice(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "", map[string]interface{}{
		"totalPrice": total,
	})
}

// CheckAvailability reports whether a flower type can supply the requested
// quantity
func (h *ArrangementHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	flowerTypeID, err := idParam(r, "flowerTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã loại hoa không hợp lệ.")
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity <= 0 {
		writeError(w, http.StatusBadRequest, "Số lượng không hợp lệ.")
		return
	}

	available, err := h.arrangementService.CheckFlowerAvailability(flowerTypeID, quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "", map[string]interface{}{
		"available": available,
	})
}

// UploadPreview stores a preview image for an arrangement
func (h *ArrangementHandler) UploadPreview(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPreviewUploadSize)
	if err := r.ParseMultipartForm(maxPreviewUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Hình ảnh không được vượt quá 5MB.")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Vui lòng chọn một hình ảnh.")
		return
	}
	defer file.Close()

	if err := h.imageService.ValidateImage(file, maxPreviewUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Hình ảnh không hợp lệ.")
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		writeError(w, http.StatusInternalServerError, "Không đọc được hình ảnh.")
		return
	}

	result, err := h.imageService.UploadPreviewImage(r.Context(), file, header.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Không lưu được hình ảnh. Vui lòng thử lại.")
		return
	}

	if err := h.arrangementService.SetPreviewImage(id, result.URL); err != nil {
		writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Đã lưu ảnh xem trước.", result)
}

// AddToCart snapshots the arrangement into the session cart. Custom
// arrangements are one of a kind, so each one gets its own cart line even if
// added twice.
func (h *ArrangementHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	arrangement, err := h.arrangementService.GetArrangementByID(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Lỗi phiên làm việc. Vui lòng tải lại trang.")
		return
	}

	cart := getCartFromSession(session)
	cart.AddItem(models.CartItem{
		ArrangementID:   arrangement.ID,
		Name:            arrangement.Name,
		Price:           arrangement.TotalPrice,
		DiscountedPrice: arrangement.TotalPrice,
		Quantity:        1,
		ImageURL:        arrangement.PreviewImageURL,
	})

	saveCartToSession(session, cart)
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Không lưu được giỏ hàng.")
		return
	}

	writeSuccess(w, "Đã thêm mẫu hoa vào giỏ hàng.", map[string]interface{}{
		"totalItems": cart.TotalItems(),
		"totalPrice": cart.TotalPrice(),
	})
}
