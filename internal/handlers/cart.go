package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"

	"flower-shop-platform/internal/middleware"
	"flower-shop-platform/internal/models"
)

// CartHandler handles the session shopping cart endpoints
type CartHandler struct {
	store sessions.Store
}

// NewCartHandler creates a new cart handler
func NewCartHandler(store sessions.Store) *CartHandler {
	return &CartHandler{store: store}
}

// ViewCart returns the current session cart
func (h *CartHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Lỗi phiên làm việc. Vui lòng tải lại trang.")
		return
	}

	cart := getCartFromSession(session)

	writeSuccess(w, "", map[string]interface{}{
		"cart":       cart,
		"totalItems": cart.TotalItems(),
		"totalPrice": cart.TotalPrice(),
	})
}

// RemoveArrangement removes a custom arrangement line from the cart
func (h *CartHandler) RemoveArrangement(w http.ResponseWriter, r *http.Request) {
	arrangementID, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã mẫu hoa không hợp lệ.")
		return
	}

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Lỗi phiên làm việc. Vui lòng tải lại trang.")
		return
	}

	cart := getCartFromSession(session)
	cart.RemoveArrangement(arrangementID)

	saveCartToSession(session, cart)
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Không lưu được giỏ hàng.")
		return
	}

	writeSuccess(w, "Đã xóa mẫu hoa khỏi giỏ hàng.", map[string]interface{}{
		"totalItems": cart.TotalItems(),
		"totalPrice": cart.TotalPrice(),
	})
}

// RemoveItem removes a catalog-product line from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Mã sản phẩm không hợp lệ.")
		return
	}

	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Lỗi phiên làm việc. Vui lòng tải lại trang.")
		return
	}

	cart := getCartFromSession(session)
	cart.RemoveItem(productID)

	saveCartToSession(session, cart)
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Không lưu được giỏ hàng.")
		return
	}

	writeSuccess(w, "Đã xóa sản phẩm khỏi giỏ hàng.", map[string]interface{}{
		"totalItems": cart.TotalItems(),
		"totalPrice": cart.TotalPrice(),
	})
}

// ClearCart empties the session cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.Get(r, middleware.SessionName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Lỗi phiên làm việc. Vui lòng tải lại trang.")
		return
	}

	saveCartToSession(session, &models.Cart{})
	if err := session.Save(r, w); err != nil {
		writeError(w, http.StatusInternalServerError, "Không lưu được giỏ hàng.")
		return
	}

	writeSuccess(w, "Đã xóa giỏ hàng.", nil)
}

// Session cart helpers. The cart is stored as JSON so the cookie codec never
// needs gob registration for our types.

func getCartFromSession(session *sessions.Session) *models.Cart {
	cartData, ok := session.Values["cart"]
	if !ok {
		return &models.Cart{}
	}

	cartJSON, ok := cartData.(string)
	if !ok {
		return &models.Cart{}
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(cartJSON), &cart); err != nil {
		return &models.Cart{}
	}

	return &cart
}

func saveCartToSession(session *sessions.Session, cart *models.Cart) {
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return
	}
	session.Values["cart"] = string(cartJSON)
}
