package handler

import (
	"log"
	"net/http"
	"strings"

	usecase "termstore/internal/application/usecase"
)

// OrderHandler serves /api/v1/create-order/ and /api/v1/remove-order/.
type OrderHandler struct {
	auth *usecase.AuthUsecase
	uc   *usecase.OrderUsecase
}

func NewOrderHandler(auth *usecase.AuthUsecase, uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{auth: auth, uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil || h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	switch strings.TrimRight(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/") {
	case "/create-order":
		h.create(w, r)
	case "/remove-order":
		h.remove(w, r)
	default:
		writeErr(w, http.StatusNotFound, "Not found")
	}
}

func (h *OrderHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token      string `json:"token"`
		CouponCode string `json:"coupon_code"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	p, err := h.auth.Verify(r.Context(), req.Token)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	o, err := h.uc.Create(r.Context(), usecase.CreateInput{
		ProfileID:  p.ID,
		CouponCode: req.CouponCode,
		Email:      p.Email,
	})
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	log.Printf("[order_handler] order created orderId=%s profileId=%s total=%.2f", o.ID, p.ID, o.TotalPrice)
	writeSuccess(w, http.StatusCreated, "Order created successfully", map[string]any{
		"order_id": o.ID,
	})
}

func (h *OrderHandler) remove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := decodeBody(r, &req); err != nil || strings.TrimSpace(req.OrderID) == "" {
		writeErr(w, http.StatusBadRequest, "Invalid data")
		return
	}

	if err := h.uc.Remove(r.Context(), req.OrderID); err != nil {
		writeUsecaseErr(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Order removed successfully", nil)
}
