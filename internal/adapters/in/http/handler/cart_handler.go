package handler

import (
	"net/http"
	"strings"

	usecase "termstore/internal/application/usecase"
)

// CartHandler serves /api/v1/cart/, /api/v1/add-to-cart/ and
// /api/v1/remove-from-cart/. Every route resolves the bearer token to a
// profile first; cart state never exists without a session.
type CartHandler struct {
	auth *usecase.AuthUsecase
	uc   *usecase.CartUsecase
}

func NewCartHandler(auth *usecase.AuthUsecase, uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{auth: auth, uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	path := strings.TrimRight(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	switch {
	case path == "/cart" && r.Method == http.MethodGet:
		h.cart(w, r)
	case path == "/add-to-cart" && r.Method == http.MethodPost:
		h.add(w, r)
	case path == "/remove-from-cart" && r.Method == http.MethodPost:
		h.remove(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) cart(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	p, err := h.auth.Verify(r.Context(), token)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	lines, err := h.uc.Lines(r.Context(), p.ID)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(lines))
	for _, ln := range lines {
		out = append(out, map[string]any{
			"id":          ln.ProductID,
			"product_id":  ln.ProductID,
			"name":        ln.Name,
			"price":       ln.Price,
			"quantity":    ln.Qty,
			"total_price": ln.TotalPrice,
		})
	}

	// bare array, no envelope (cart page contract)
	writeJSON(w, http.StatusOK, out)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token     string `json:"token"`
		ProductID string `json:"product_id"`
		Quantity  *int   `json:"quantity"`
	}
	if err := decodeBody(r, &req); err != nil ||
		strings.TrimSpace(req.Token) == "" ||
		strings.TrimSpace(req.ProductID) == "" ||
		req.Quantity == nil {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	p, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	if _, err := h.uc.AddItem(r.Context(), p.ID, req.ProductID, *req.Quantity); err != nil {
		writeUsecaseErr(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Product added to cart", nil)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token     string `json:"token"`
		ProductID string `json:"product_id"`
	}
	if err := decodeBody(r, &req); err != nil ||
		strings.TrimSpace(req.Token) == "" ||
		strings.TrimSpace(req.ProductID) == "" {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	p, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	if _, err := h.uc.RemoveItem(r.Context(), p.ID, req.ProductID); err != nil {
		writeUsecaseErr(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Product removed from cart", nil)
}
